package brain

import (
	"context"
	"sync/atomic"
)

// Stream is an in-progress streamed response.
//
// The producer goroutine is the sole writer of deltas and err; err is set
// before deltas is closed.
type Stream struct {
	deltas   chan string
	err      error
	cancel   context.CancelFunc
	canceled atomic.Bool
}

// NewStream runs produce in a goroutine. produce calls emit for every
// delta and stops when emit returns false.
func NewStream(ctx context.Context, produce func(ctx context.Context, emit func(string) bool) error) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		deltas: make(chan string, 16),
		cancel: cancel,
	}
	go func() {
		defer close(s.deltas)
		defer cancel()
		emit := func(d string) bool {
			select {
			case s.deltas <- d:
				return true
			case <-ctx.Done():
				return false
			}
		}
		s.err = produce(ctx, emit)
	}()
	return s
}

// Recv blocks for the next delta. ok is false once the stream is over;
// err is then the failure, or nil on normal completion. After Cancel, Recv
// reports a silent end (ok false, err nil) whatever the producer did.
func (s *Stream) Recv() (delta string, ok bool, err error) {
	if s.canceled.Load() {
		return "", false, nil
	}
	d, open := <-s.deltas
	if s.canceled.Load() {
		return "", false, nil
	}
	if !open {
		return "", false, s.err
	}
	return d, true, nil
}

// Cancel stops the stream. Safe to call more than once and from any
// goroutine.
func (s *Stream) Cancel() {
	s.canceled.Store(true)
	s.cancel()
}

// Canceled reports whether Cancel was called.
func (s *Stream) Canceled() bool { return s.canceled.Load() }
