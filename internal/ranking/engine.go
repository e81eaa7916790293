package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/fetch"
	"github.com/brianlovin/hn-cli-sub000/internal/filter"
	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
	"github.com/brianlovin/hn-cli-sub000/internal/otel"
)

// maxConcurrentFetches limits parallel item fetches in one pass.
const maxConcurrentFetches = 16

// itemTimeout bounds a single item fetch.
const itemTimeout = 20 * time.Second

// Engine runs one ranking pass per call to Rank.
type Engine struct {
	Source fetch.Source

	// Settings is called at the start of every pass. Nil means defaults.
	Settings func() config.FilterConfig

	Now    func() time.Time
	Events *otel.Logger

	// Concurrency caps parallel fetches; 0 means maxConcurrentFetches.
	Concurrency int
}

// NewEngine creates an Engine that re-reads settings from settingsPath on
// every pass.
func NewEngine(src fetch.Source, settingsPath string, events *otel.Logger) *Engine {
	return &Engine{
		Source: src,
		Settings: func() config.FilterConfig {
			cfg, err := config.LoadFilterConfig(settingsPath)
			if err != nil {
				logging.Warn("ranking: settings unreadable, using defaults", "path", settingsPath, "error", err)
			}
			return cfg
		},
		Now:    time.Now,
		Events: events,
	}
}

// Rank fetches candidates, filters, scores and truncates them. A failed
// candidate list is returned as an error; individual item failures only
// shrink the result.
func (e *Engine) Rank(ctx context.Context) ([]model.Item, error) {
	start := time.Now()
	cfg := config.DefaultFilterConfig()
	if e.Settings != nil {
		cfg = e.Settings()
	}
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}

	e.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFetchStart, Comp: "rank", Count: cfg.FetchLimit})

	ids, err := e.Source.ListCandidateIDs(ctx)
	if err != nil {
		e.Events.Error(otel.KindFetchError, "rank", err)
		return nil, fmt.Errorf("rank: %w", err)
	}
	if len(ids) > cfg.FetchLimit {
		ids = ids[:cfg.FetchLimit]
	}

	items, dropped := e.fetchAll(ctx, ids)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eligible := filter.Eligible(items, cfg, now)
	result := RankItems(eligible, cfg, now)

	e.Events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindRankComplete,
		Comp:  "rank",
		Dur:   time.Since(start),
		Count: len(result),
		Extra: map[string]any{
			"candidates": len(ids),
			"dropped":    dropped,
			"eligible":   len(eligible),
		},
	})
	return result, nil
}

// fetchAll fetches every id in parallel. Results keep the candidate order
// so downstream steps see the same input regardless of timing.
func (e *Engine) fetchAll(ctx context.Context, ids []int) ([]model.Item, int) {
	limit := e.Concurrency
	if limit <= 0 {
		limit = maxConcurrentFetches
	}

	slots := make([]*model.Item, len(ids))
	var (
		mu      sync.Mutex
		dropped int
	)

	var g errgroup.Group
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			itemCtx, cancel := context.WithTimeout(ctx, itemTimeout)
			defer cancel()

			item, err := e.Source.GetItem(itemCtx, id)
			if err != nil {
				mu.Lock()
				dropped++
				mu.Unlock()
				if !errors.Is(err, context.Canceled) {
					logging.Debug("ranking: item dropped", "id", id, "error", err)
					e.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindItemDropped, Comp: "rank", ItemID: id, Err: err.Error()})
				}
				return nil // never fail the group
			}
			slots[i] = &item
			return nil
		})
	}
	_ = g.Wait()

	items := make([]model.Item, 0, len(ids))
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items, dropped
}
