package coord

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// refreshTimeout bounds one ranking pass end to end.
const refreshTimeout = 2 * time.Minute

// Ranker produces the ranked story list.
type Ranker interface {
	Rank(ctx context.Context) ([]model.Item, error)
}

// Refresh runs a ranking pass and reports it as ItemsLoaded.
func Refresh(r Ranker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		items, err := r.Rank(ctx)
		if err != nil {
			logging.Error("coord: refresh failed", "error", err)
			return ItemsLoaded{Err: err}
		}
		return ItemsLoaded{Items: items, FetchedAt: time.Now()}
	}
}

// ItemGetter fetches a single item.
type ItemGetter interface {
	GetItem(ctx context.Context, id int) (model.Item, error)
}

type pinned struct {
	Ranker
	src ItemGetter
	id  int
}

// PinFirst wraps r so that item id leads every result. When ranking did
// not select it, it is fetched from src; a failed fetch leaves the ranked
// list unchanged.
func PinFirst(r Ranker, src ItemGetter, id int) Ranker {
	return pinned{Ranker: r, src: src, id: id}
}

func (p pinned) Rank(ctx context.Context) ([]model.Item, error) {
	items, err := p.Ranker.Rank(ctx)
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		if it.ID == p.id {
			out := make([]model.Item, 0, len(items))
			out = append(out, it)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), nil
		}
	}
	item, err := p.src.GetItem(ctx, p.id)
	if err != nil {
		logging.Warn("coord: pinned story unavailable", "id", p.id, "error", err)
		return items, nil
	}
	return append([]model.Item{item}, items...), nil
}
