package cache

import (
	"testing"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

func sampleSession() SessionSnapshot {
	item := model.Item{ID: 10, Title: "hello", Type: model.StoryType, Score: model.IntPtr(5)}
	snap := EmptySession()
	snap.Items = []model.Item{item, {ID: 9, Title: "older"}}
	snap.SelectedIndex = 0
	snap.SelectedItem = &item
	snap.RootCommentIndex = 2
	snap.ChatMode = true
	snap.ChatSessions[10] = model.ChatSession{Messages: []model.Message{{Role: model.RoleUser, Content: "q"}}}
	snap.ViewModes[10] = model.ViewChat
	snap.FetchedAt = t0
	return snap
}

func TestSessionRoundTrip(t *testing.T) {
	s, c := newTestStore(t)
	s.SaveSession(sampleSession())

	c.now = t0.Add(10 * time.Minute)
	snap, ok := s.LoadSession(30 * time.Minute)
	if !ok {
		t.Fatal("expected session")
	}
	if len(snap.Items) != 2 || snap.SelectedItem == nil || snap.SelectedItem.ID != 10 {
		t.Errorf("items not restored: %+v", snap)
	}
	if snap.RootCommentIndex != 2 || !snap.ChatMode {
		t.Errorf("view state not restored: %+v", snap)
	}
	if snap.ViewModes[10] != model.ViewChat {
		t.Errorf("view mode = %q", snap.ViewModes[10])
	}
	if !snap.SavedAt.Equal(t0) {
		t.Errorf("savedAt = %v, want %v", snap.SavedAt, t0)
	}
}

func TestSessionExpiredDropsItemsKeepsChats(t *testing.T) {
	s, c := newTestStore(t)
	s.SaveSession(sampleSession())

	c.now = t0.Add(31 * time.Minute)
	snap, ok := s.LoadSession(30 * time.Minute)
	if !ok {
		t.Fatal("expected session")
	}
	if snap.HasItems() || snap.SelectedItem != nil || snap.SelectedIndex != -1 || snap.RootCommentIndex != 0 {
		t.Errorf("stale items should be dropped: %+v", snap)
	}
	if len(snap.ChatSessions[10].Messages) != 1 {
		t.Error("chat sessions should survive item expiry")
	}
	if snap.ViewModes[10] != model.ViewChat {
		t.Error("view modes should survive item expiry")
	}
}

func TestSaveSessionRefreshesSavedAt(t *testing.T) {
	s, c := newTestStore(t)
	snap := sampleSession()
	snap.SavedAt = t0.Add(-time.Hour)

	c.now = t0.Add(5 * time.Minute)
	s.SaveSession(snap)

	got, _ := s.LoadSession(time.Hour)
	if !got.SavedAt.Equal(t0.Add(5 * time.Minute)) {
		t.Errorf("savedAt = %v", got.SavedAt)
	}
	if !got.FetchedAt.Equal(t0) {
		t.Errorf("fetchedAt should be untouched, got %v", got.FetchedAt)
	}
}
