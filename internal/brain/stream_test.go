package brain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func collect(s *Stream) (string, error) {
	var out string
	for {
		d, ok, err := s.Recv()
		if !ok {
			return out, err
		}
		out += d
	}
}

func TestStreamDeliversDeltas(t *testing.T) {
	s := NewStream(context.Background(), func(ctx context.Context, emit func(string) bool) error {
		for _, d := range []string{"Hel", "lo"} {
			if !emit(d) {
				return ctx.Err()
			}
		}
		return nil
	})

	got, err := collect(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello" {
		t.Errorf("got %q, want Hello", got)
	}
}

func TestStreamReportsProducerError(t *testing.T) {
	boom := errors.New("boom")
	s := NewStream(context.Background(), func(ctx context.Context, emit func(string) bool) error {
		emit("partial")
		return boom
	})

	got, err := collect(s)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if got != "partial" {
		t.Errorf("got %q", got)
	}
}

// After Cancel nothing more comes out of the stream: no deltas, no
// completion, no error.
func TestStreamCancelSuppressesEverything(t *testing.T) {
	release := make(chan struct{})
	s := NewStream(context.Background(), func(ctx context.Context, emit func(string) bool) error {
		emit("first")
		<-release
		emit("late delta")
		return errors.New("late error")
	})

	d, ok, err := s.Recv()
	if !ok || d != "first" || err != nil {
		t.Fatalf("first Recv = %q, %v, %v", d, ok, err)
	}

	s.Cancel()
	close(release)

	for i := 0; i < 3; i++ {
		d, ok, err := s.Recv()
		if ok || d != "" || err != nil {
			t.Errorf("Recv after cancel = %q, %v, %v; want silence", d, ok, err)
		}
	}
	if !s.Canceled() {
		t.Error("Canceled should report true")
	}
}

func TestStreamCancelUnblocksProducer(t *testing.T) {
	done := make(chan struct{})
	s := NewStream(context.Background(), func(ctx context.Context, emit func(string) bool) error {
		defer close(done)
		for emit("x") {
		}
		return ctx.Err()
	})

	s.Cancel()
	s.Cancel() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not stop after cancel")
	}
}
