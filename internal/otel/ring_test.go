package otel

import (
	"bytes"
	"testing"
)

func TestRingWrapsOldestFirst(t *testing.T) {
	r := NewRing(4)
	for i := 0; i < 7; i++ {
		r.Push(Event{Kind: KindGenStart, Count: i})
	}

	got := r.Last(10)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i, e := range got {
		if e.Count != i+3 {
			t.Errorf("got[%d].Count = %d, want %d", i, e.Count, i+3)
		}
	}

	last := r.Last(2)
	if len(last) != 2 || last[0].Count != 5 || last[1].Count != 6 {
		t.Errorf("Last(2) = %+v", last)
	}
	if r.Last(0) != nil {
		t.Error("Last(0) should be nil")
	}
}

func TestRingCounts(t *testing.T) {
	r := NewRing(8)
	r.Push(Event{Kind: KindGenStart})
	r.Push(Event{Kind: KindGenStart})
	r.Push(Event{Kind: KindGenStale})

	c := r.Counts()
	if c[KindGenStart] != 2 || c[KindGenStale] != 1 {
		t.Errorf("counts = %v", c)
	}
}

func TestLoggerMirrorsToRing(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	r := NewRing(16)
	l.Mirror(r)

	l.Info(KindStartup, "main", "hello")
	l.Close()

	got := r.Last(1)
	if len(got) != 1 || got[0].Kind != KindStartup || got[0].Time.IsZero() {
		t.Errorf("ring = %+v", got)
	}
}
