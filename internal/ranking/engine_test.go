package ranking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/fetch"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// mockSource serves items from a map, with optional per-id failures and
// random latency to shuffle completion order.
type mockSource struct {
	ids     []int
	listErr error
	items   map[int]model.Item
	fail    map[int]bool
	jitter  bool

	mu        sync.Mutex
	requested []int
}

func (m *mockSource) ListCandidateIDs(ctx context.Context) ([]int, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.ids, nil
}

func (m *mockSource) GetItem(ctx context.Context, id int) (model.Item, error) {
	m.mu.Lock()
	m.requested = append(m.requested, id)
	m.mu.Unlock()

	if m.jitter {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
	}
	if m.fail[id] {
		return model.Item{}, fmt.Errorf("boom %d", id)
	}
	item, ok := m.items[id]
	if !ok {
		return model.Item{}, fetch.ErrNotFound
	}
	return item, nil
}

func newEngine(src fetch.Source, cfg config.FilterConfig) *Engine {
	return &Engine{
		Source:   src,
		Settings: func() config.FilterConfig { return cfg },
		Now:      func() time.Time { return now },
	}
}

func storyAt(id, score, comments int, age time.Duration) model.Item {
	return model.Item{
		ID:           id,
		Type:         model.StoryType,
		Score:        model.IntPtr(score),
		CommentCount: comments,
		CreatedAt:    now.Add(-age),
	}
}

func TestRankListFailureIsFatal(t *testing.T) {
	src := &mockSource{listErr: errors.New("firebase down")}

	_, err := newEngine(src, config.DefaultFilterConfig()).Rank(context.Background())
	if err == nil {
		t.Fatal("expected candidate list failure to be returned")
	}
}

func TestRankToleratesItemFailures(t *testing.T) {
	src := &mockSource{
		ids: []int{30, 20, 10},
		items: map[int]model.Item{
			30: storyAt(30, 100, 10, time.Hour),
			10: storyAt(10, 90, 10, time.Hour),
		},
		fail: map[int]bool{20: true},
	}

	items, err := newEngine(src, config.DefaultFilterConfig()).Rank(context.Background())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != 30 || items[1].ID != 10 {
		t.Errorf("unexpected order: %d, %d", items[0].ID, items[1].ID)
	}
}

func TestRankAppliesFetchLimit(t *testing.T) {
	cfg := config.DefaultFilterConfig()
	cfg.FetchLimit = 20

	src := &mockSource{items: map[int]model.Item{}}
	for id := 100; id > 0; id-- {
		src.ids = append(src.ids, id)
		src.items[id] = storyAt(id, 100, 10, time.Hour)
	}

	if _, err := newEngine(src, cfg).Rank(context.Background()); err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(src.requested) != 20 {
		t.Errorf("expected 20 fetches, got %d", len(src.requested))
	}
	for _, id := range src.requested {
		if id <= 80 {
			t.Errorf("fetched %d, outside the first 20 candidates", id)
		}
	}
}

func TestRankFiltersAndOrders(t *testing.T) {
	cfg := config.DefaultFilterConfig()
	cfg.MinScore = 50
	cfg.MinComments = 20
	cfg.HoursWindow = 24

	job := storyAt(6, 900, 0, time.Hour)
	job.Type = "job"

	src := &mockSource{
		ids: []int{6, 5, 4, 3, 2, 1},
		items: map[int]model.Item{
			6: job,
			5: storyAt(5, 60, 5, 2*time.Hour),     // score alone qualifies
			4: storyAt(4, 10, 5, time.Hour),       // below both thresholds
			3: storyAt(3, 500, 100, 30*time.Hour), // outside window
			2: storyAt(2, 5, 200, 3*time.Hour),    // comments alone qualify
			1: storyAt(1, 300, 0, 20*time.Hour),
		},
	}

	items, err := newEngine(src, cfg).Rank(context.Background())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	// 1: 300 + 0 + 50*(4/24) ≈ 308.3
	// 2: 5 + 100 + 50*(21/24) = 148.75
	// 5: 60 + 2.5 + 50*(22/24) ≈ 108.3
	want := []int{1, 2, 5}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %d, want %d", i, items[i].ID, id)
		}
	}
}

func TestRankDeterministicUnderJitter(t *testing.T) {
	src := &mockSource{items: map[int]model.Item{}, jitter: true}
	for id := 40; id > 0; id-- {
		src.ids = append(src.ids, id)
		// identical scores force the id tie-break
		src.items[id] = storyAt(id, 100, 10, time.Hour)
	}

	cfg := config.DefaultFilterConfig()
	first, err := newEngine(src, cfg).Rank(context.Background())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := newEngine(src, cfg).Rank(context.Background())
		if err != nil {
			t.Fatalf("Rank failed: %v", err)
		}
		for i := range first {
			if first[i].ID != again[i].ID {
				t.Fatalf("run %d: position %d differs (%d vs %d)", run, i, first[i].ID, again[i].ID)
			}
		}
	}
	if first[0].ID != 40 {
		t.Errorf("expected newest id first on ties, got %d", first[0].ID)
	}
}

func TestRankRereadsSettingsEachPass(t *testing.T) {
	src := &mockSource{items: map[int]model.Item{}}
	for id := 30; id > 0; id-- {
		src.ids = append(src.ids, id)
		src.items[id] = storyAt(id, 100, 10, time.Hour)
	}

	calls := 0
	e := &Engine{
		Source: src,
		Now:    func() time.Time { return now },
		Settings: func() config.FilterConfig {
			calls++
			cfg := config.DefaultFilterConfig()
			cfg.MaxStories = 5 * calls
			return cfg
		},
	}

	a, _ := e.Rank(context.Background())
	b, _ := e.Rank(context.Background())
	if len(a) != 5 || len(b) != 10 {
		t.Errorf("expected 5 then 10 items, got %d then %d", len(a), len(b))
	}
}

func TestNewEngineReadsSettingsFile(t *testing.T) {
	path := t.TempDir() + "/settings.json"
	cfg := config.DefaultFilterConfig()
	cfg.MaxStories = 6
	if err := config.SaveFilterConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	e := NewEngine(&mockSource{}, path, nil)
	if got := e.Settings().MaxStories; got != 6 {
		t.Errorf("MaxStories = %d, want 6", got)
	}
}
