package cache

import (
	"strconv"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
	"github.com/brianlovin/hn-cli-sub000/internal/otel"
)

type summaryEntry struct {
	Result   model.SummaryResult `json:"result"`
	CachedAt time.Time           `json:"cachedAt"`
}

type summaryFile struct {
	Entries map[string]summaryEntry `json:"entries"`
}

type chatEntry struct {
	model.ChatSession
	CachedAt time.Time `json:"cachedAt"`
}

type chatFile struct {
	Sessions map[string]chatEntry `json:"sessions"`
}

// LoadSummaryRecords returns unexpired summary records.
func (s *Store) LoadSummaryRecords() map[int]Record[model.SummaryResult] {
	out := make(map[int]Record[model.SummaryResult])
	var f summaryFile
	if !s.readJSON(s.summariesPath(), &f) {
		return out
	}
	now := s.now()
	for key, e := range f.Entries {
		id, ok := parseID(key)
		if !ok {
			continue
		}
		r := Record[model.SummaryResult]{Value: e.Result, CachedAt: e.CachedAt}
		if r.Expired(now, DurableTTL) {
			continue
		}
		out[id] = r
	}
	s.loaded("summaries", len(f.Entries), len(out))
	return out
}

// LoadSummaries returns unexpired summaries keyed by item id.
func (s *Store) LoadSummaries() map[int]model.SummaryResult {
	return Values(s.LoadSummaryRecords())
}

// SaveSummaries writes summaries. Keys already on disk keep their
// cachedAt; expired entries not in the map are gone after this call.
func (s *Store) SaveSummaries(summaries map[int]model.SummaryResult) {
	records := keepTimes(summaries, s.LoadSummaryRecords(), s.now())
	f := summaryFile{Entries: make(map[string]summaryEntry, len(records))}
	for id, r := range records {
		f.Entries[strconv.Itoa(id)] = summaryEntry{Result: r.Value, CachedAt: r.CachedAt}
	}
	s.writeJSON(s.summariesPath(), f)
}

// LoadChatRecords returns unexpired chat records.
func (s *Store) LoadChatRecords() map[int]Record[model.ChatSession] {
	out := make(map[int]Record[model.ChatSession])
	var f chatFile
	if !s.readJSON(s.chatsPath(), &f) {
		return out
	}
	now := s.now()
	for key, e := range f.Sessions {
		id, ok := parseID(key)
		if !ok {
			continue
		}
		r := Record[model.ChatSession]{Value: e.ChatSession, CachedAt: e.CachedAt}
		if r.Expired(now, DurableTTL) {
			continue
		}
		out[id] = r
	}
	s.loaded("chats", len(f.Sessions), len(out))
	return out
}

// LoadChats returns unexpired chat sessions keyed by item id.
func (s *Store) LoadChats() map[int]model.ChatSession {
	return Values(s.LoadChatRecords())
}

// SaveChats writes chat sessions with the same timestamp rules as
// SaveSummaries.
func (s *Store) SaveChats(chats map[int]model.ChatSession) {
	records := keepTimes(chats, s.LoadChatRecords(), s.now())
	f := chatFile{Sessions: make(map[string]chatEntry, len(records))}
	for id, r := range records {
		f.Sessions[strconv.Itoa(id)] = chatEntry{ChatSession: r.Value, CachedAt: r.CachedAt}
	}
	s.writeJSON(s.chatsPath(), f)
}

// MergeChats unions the session and durable chat maps. The durable entry
// wins on collision: the ephemeral directory may have been wiped by a
// reboot while the durable one was not.
func MergeChats(session, durable map[int]model.ChatSession) map[int]model.ChatSession {
	out := make(map[int]model.ChatSession, len(session)+len(durable))
	for id, c := range session {
		out[id] = c
	}
	for id, c := range durable {
		out[id] = c
	}
	return out
}

func (s *Store) loaded(name string, onDisk, kept int) {
	s.Events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindCacheLoad,
		Comp:  "cache",
		Count: kept,
		Msg:   name,
		Extra: map[string]any{"expired": onDisk - kept},
	})
}
