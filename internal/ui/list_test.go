package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

func TestCalcScrollOffset(t *testing.T) {
	tests := []struct {
		name               string
		n, cursor, visible int
		want               int
	}{
		{"empty", 0, 0, 5, 0},
		{"cursor visible", 10, 3, 5, 0},
		{"cursor at edge", 10, 4, 5, 0},
		{"cursor past window", 10, 7, 5, 3},
		{"cursor beyond list", 10, 20, 5, 5},
		{"negative cursor", 10, -1, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calcScrollOffset(tt.n, tt.cursor, tt.visible); got != tt.want {
				t.Errorf("calcScrollOffset(%d, %d, %d) = %d, want %d", tt.n, tt.cursor, tt.visible, got, tt.want)
			}
		})
	}
}

func TestRenderListEmpty(t *testing.T) {
	got := RenderList(nil, nil, 0, 40, 10, testNow)
	if !strings.Contains(got, "Press 'r' to refresh") {
		t.Errorf("empty list = %q", got)
	}
}

func TestRenderListKeepsCursorVisible(t *testing.T) {
	var items []model.Item
	for i := 0; i < 20; i++ {
		items = append(items, model.Item{ID: 100 - i, Title: "Story " + string(rune('A'+i)), CreatedAt: testNow})
	}

	got := RenderList(items, nil, 15, 60, 10, testNow) // 5 entries fit
	if !strings.Contains(got, "Story P") {
		t.Error("cursor entry should be rendered")
	}
	if strings.Contains(got, "Story A") {
		t.Error("entries above the window should be skipped")
	}
	if n := strings.Count(got, "\n") + 1; n != 10 {
		t.Errorf("rendered %d lines, want 10", n)
	}
}

func TestRenderListMeta(t *testing.T) {
	items := []model.Item{{ID: 1, Title: "Go 2", Score: model.IntPtr(321), CommentCount: 45, Domain: "go.dev", CreatedAt: testNow.Add(-3 * time.Hour)}}
	got := RenderList(items, nil, 0, 80, 10, testNow)
	for _, want := range []string{"1.", "Go 2", "321 pts", "45 comments", "3h ago", "go.dev"} {
		if !strings.Contains(got, want) {
			t.Errorf("list missing %q in %q", want, got)
		}
	}
}

func TestFormatAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{72 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		if got := formatAgo(tt.d); got != tt.want {
			t.Errorf("formatAgo(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRenderStatusBar(t *testing.T) {
	got := RenderStatusBar(StatusInfo{Count: 12, Cursor: 2, Loading: true, Provider: "anthropic"}, 100, testNow)
	for _, want := range []string{"3/12", "refreshing", "anthropic"} {
		if !strings.Contains(got, want) {
			t.Errorf("status missing %q in %q", want, got)
		}
	}

	got = RenderStatusBar(StatusInfo{Err: errors.New("boom")}, 100, testNow)
	if !strings.Contains(got, "Error: boom") || !strings.Contains(got, "no AI provider") {
		t.Errorf("status = %q", got)
	}
}
