package cache

import (
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// SessionSnapshot is the restorable UI state.
type SessionSnapshot struct {
	Items            []model.Item              `json:"items"`
	SelectedIndex    int                       `json:"selectedIndex"`
	SelectedItem     *model.Item               `json:"selectedItem,omitempty"`
	RootCommentIndex int                       `json:"rootCommentIndex"`
	ChatMode         bool                      `json:"chatMode"`
	ShowSettings     bool                      `json:"showSettings"`
	ChatSessions     map[int]model.ChatSession `json:"chatSessions"`
	ViewModes        map[int]model.ViewMode    `json:"viewModes"`
	FetchedAt        time.Time                 `json:"fetchedAt"`
	SavedAt          time.Time                 `json:"savedAt"`
}

// EmptySession returns a snapshot with no items and no selection.
func EmptySession() SessionSnapshot {
	return SessionSnapshot{
		SelectedIndex: -1,
		ChatSessions:  map[int]model.ChatSession{},
		ViewModes:     map[int]model.ViewMode{},
	}
}

// HasItems reports whether the snapshot carries a usable item list.
func (s SessionSnapshot) HasItems() bool { return len(s.Items) > 0 }

// LoadSession reads the session snapshot. When the item list is older than
// ttl the items and selection are dropped; chats and view modes are kept.
// The second result is false when there was no readable snapshot at all.
func (s *Store) LoadSession(ttl time.Duration) (SessionSnapshot, bool) {
	snap := EmptySession()
	if !s.readJSON(s.sessionPath(), &snap) {
		return EmptySession(), false
	}
	if snap.ChatSessions == nil {
		snap.ChatSessions = map[int]model.ChatSession{}
	}
	if snap.ViewModes == nil {
		snap.ViewModes = map[int]model.ViewMode{}
	}

	if s.now().Sub(snap.FetchedAt) > ttl {
		snap.Items = nil
		snap.SelectedIndex = -1
		snap.SelectedItem = nil
		snap.RootCommentIndex = 0
	}
	return snap, true
}

// SaveSession writes the snapshot with SavedAt set to now.
func (s *Store) SaveSession(snap SessionSnapshot) {
	snap.SavedAt = s.now()
	s.writeJSON(s.sessionPath(), snap)
}
