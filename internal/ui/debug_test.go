package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/otel"
)

func TestDebugOverlayNilRing(t *testing.T) {
	if got := debugOverlay(nil, 80, 24, testNow); got != "" {
		t.Errorf("debugOverlay(nil) = %q, want empty", got)
	}
}

func TestDebugOverlayCounters(t *testing.T) {
	ring := otel.NewRing(64)
	ring.Push(otel.Event{Kind: otel.KindGenStart, Time: testNow})
	ring.Push(otel.Event{Kind: otel.KindGenStart, Time: testNow})
	ring.Push(otel.Event{Kind: otel.KindGenComplete, Time: testNow})
	ring.Push(otel.Event{Kind: otel.KindGenStale, Time: testNow, ItemID: 42, Task: "summary"})

	got := debugOverlay(ring, 100, 40, testNow)
	if !strings.Contains(got, "2 started, 1 complete, 0 errors") {
		t.Errorf("generation counters missing:\n%s", got)
	}
	if !strings.Contains(got, "1 stale") {
		t.Errorf("stale counter missing:\n%s", got)
	}
	if !strings.Contains(got, "#42 summary") {
		t.Errorf("recent event missing:\n%s", got)
	}
}

func TestDebugOverlayTruncatesToHeight(t *testing.T) {
	ring := otel.NewRing(64)
	for i := 0; i < 30; i++ {
		ring.Push(otel.Event{Kind: otel.KindFetchComplete, Time: testNow})
	}
	got := debugOverlay(ring, 100, 14, testNow)
	if n := strings.Count(got, "\n") + 1; n > 14 {
		t.Errorf("overlay has %d lines, want at most 14", n)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{3 * time.Minute, "3m"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
