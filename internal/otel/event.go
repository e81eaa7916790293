// Package otel records hn's pipeline events as JSONL.
//
// Events are typed structs serialized one per line. The Logger writes them
// asynchronously through a buffered channel and a drain goroutine, so
// emitting never blocks the UI loop.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Ranking pipeline
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"
	KindItemDropped   EventKind = "fetch.item_dropped"
	KindRankComplete  EventKind = "rank.complete"

	// Generation coordinator
	KindGenStart    EventKind = "gen.start"
	KindGenComplete EventKind = "gen.complete"
	KindGenError    EventKind = "gen.error"
	KindGenStale    EventKind = "gen.stale"
	KindGenRejected EventKind = "gen.rejected"
	KindGenCancel   EventKind = "gen.cancel"

	// Cache layer
	KindCacheLoad  EventKind = "cache.load"
	KindCacheError EventKind = "cache.error"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
)

// Event is the universal record. Every field except Kind and Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "rank", "coord", "cache", "main"
	SessionID string         `json:"session_id,omitempty"`
	ItemID    int            `json:"item,omitempty"`
	Task      string         `json:"task,omitempty"` // generation kind
	Seq       uint64         `json:"seq,omitempty"`  // generation token
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
