package coord

import (
	"context"
	"errors"
	"testing"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

type fakeRanker struct {
	items []model.Item
	err   error
}

func (r fakeRanker) Rank(context.Context) ([]model.Item, error) { return r.items, r.err }

type fakeGetter map[int]model.Item

func (g fakeGetter) GetItem(_ context.Context, id int) (model.Item, error) {
	it, ok := g[id]
	if !ok {
		return model.Item{}, errors.New("not found")
	}
	return it, nil
}

func ids(items []model.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestRefresh(t *testing.T) {
	msg := Refresh(fakeRanker{items: []model.Item{testItem(1)}})().(ItemsLoaded)
	if msg.Err != nil || len(msg.Items) != 1 || msg.FetchedAt.IsZero() {
		t.Errorf("loaded = %+v", msg)
	}

	msg = Refresh(fakeRanker{err: errors.New("offline")})().(ItemsLoaded)
	if msg.Err == nil {
		t.Error("expected error")
	}
}

func TestPinFirst(t *testing.T) {
	ranked := []model.Item{testItem(3), testItem(2), testItem(1)}

	tests := []struct {
		name string
		id   int
		src  fakeGetter
		want []int
	}{
		{"already ranked moves to front", 2, nil, []int{2, 3, 1}},
		{"first stays first", 3, nil, []int{3, 2, 1}},
		{"fetched when not ranked", 9, fakeGetter{9: testItem(9)}, []int{9, 3, 2, 1}},
		{"missing story ignored", 9, fakeGetter{}, []int{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := PinFirst(fakeRanker{items: ranked}, tt.src, tt.id).Rank(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			got := ids(items)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
	if ids(ranked)[0] != 3 {
		t.Error("input slice must not be reordered")
	}
}

func TestPinFirstPassesRankError(t *testing.T) {
	_, err := PinFirst(fakeRanker{err: errors.New("down")}, fakeGetter{}, 1).Rank(context.Background())
	if err == nil {
		t.Error("ranking errors should surface")
	}
}
