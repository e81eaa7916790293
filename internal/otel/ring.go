package otel

import "sync"

// Ring keeps the most recent events in memory for the debug overlay.
// Goroutine-safe.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	head  int // next write
	count int
}

// NewRing creates a Ring holding up to size events (minimum 1).
func NewRing(size int) *Ring {
	return &Ring{buf: make([]Event, max(size, 1))}
}

// Push appends e, evicting the oldest event when full.
func (r *Ring) Push(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Last returns up to n of the newest events, oldest first.
func (r *Ring) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	n = min(n, r.count)
	if n <= 0 {
		return nil
	}
	out := make([]Event, n)
	start := r.head - n + len(r.buf)
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Counts tallies buffered events by kind.
func (r *Ring) Counts() map[EventKind]int {
	counts := map[EventKind]int{}
	for _, e := range r.Last(r.Len()) {
		counts[e.Kind]++
	}
	return counts
}

// Len returns the number of buffered events.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
