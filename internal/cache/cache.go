// Package cache persists hn's state between runs.
//
// Three files, each best-effort: a short-lived session snapshot in an
// ephemeral directory, and two durable artifact caches (summaries, chats)
// that survive restarts. Nothing in this package returns an error to its
// caller; a missing, unreadable or malformed file is an empty cache and a
// failed write is a skipped save.
//
// Durable records carry the time they were first written. Saving a key
// that is already on disk keeps that time, so a record's lifetime is fixed
// at creation and rewriting its content never extends it.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/otel"
)

// DurableTTL is the lifetime of summary and chat records.
const DurableTTL = 7 * 24 * time.Hour

const (
	sessionFile   = "session.json"
	summariesFile = "summaries.json"
	chatsFile     = "chats.json"
)

// Record is a cached value and the time it was first stored.
type Record[T any] struct {
	Value    T
	CachedAt time.Time
}

// Expired reports whether the record is older than ttl at now.
func (r Record[T]) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.CachedAt) > ttl
}

// Store reads and writes the cache files. The zero Now uses time.Now.
type Store struct {
	EphemeralDir string
	DurableDir   string
	Now          func() time.Time
	Events       *otel.Logger
}

// New creates a Store rooted at the given directories.
func New(ephemeralDir, durableDir string, events *otel.Logger) *Store {
	return &Store{
		EphemeralDir: ephemeralDir,
		DurableDir:   durableDir,
		Now:          time.Now,
		Events:       events,
	}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Store) sessionPath() string   { return filepath.Join(s.EphemeralDir, sessionFile) }
func (s *Store) summariesPath() string { return filepath.Join(s.DurableDir, summariesFile) }
func (s *Store) chatsPath() string     { return filepath.Join(s.DurableDir, chatsFile) }

// Clear removes every cache file. Missing files are not an error.
func (s *Store) Clear() {
	for _, p := range []string{s.sessionPath(), s.summariesPath(), s.chatsPath()} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.fail("clear", p, err)
		}
	}
}

// readJSON decodes path into dst and reports whether it succeeded. A
// missing file is silent; anything else is logged.
func (s *Store) readJSON(path string, dst any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.fail("read", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.fail("parse", path, err)
		return false
	}
	return true
}

// writeJSON replaces path via a temp file and rename so a crash mid-write
// leaves the previous contents intact.
func (s *Store) writeJSON(path string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.fail("encode", path, err)
		return
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.fail("write", path, err)
		return
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		s.fail("write", path, err)
		return
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.fail("write", path, err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.fail("write", path, err)
		return
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		s.fail("write", path, err)
	}
}

func (s *Store) fail(op, path string, err error) {
	logging.Warn("cache: "+op+" failed", "path", path, "error", err)
	s.Events.Emit(otel.Event{
		Level: otel.LevelWarn,
		Kind:  otel.KindCacheError,
		Comp:  "cache",
		Err:   err.Error(),
		Extra: map[string]any{"op": op, "path": path},
	})
}

// parseID converts a JSON object key back to an item id.
func parseID(key string) (int, bool) {
	id, err := strconv.Atoi(key)
	return id, err == nil
}

// keepTimes stamps next with the cachedAt of matching keys in prev and now
// for new keys.
func keepTimes[T any](next map[int]T, prev map[int]Record[T], now time.Time) map[int]Record[T] {
	out := make(map[int]Record[T], len(next))
	for id, v := range next {
		at := now
		if old, ok := prev[id]; ok {
			at = old.CachedAt
		}
		out[id] = Record[T]{Value: v, CachedAt: at}
	}
	return out
}

// Values drops the timestamps.
func Values[T any](records map[int]Record[T]) map[int]T {
	out := make(map[int]T, len(records))
	for id, r := range records {
		out[id] = r.Value
	}
	return out
}
