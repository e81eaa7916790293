// Package ranking turns the candidate pool into the displayed story list.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// RecencyBonus decays linearly from maxBonus at age 0 to 0 at the window
// edge, and stays 0 beyond it.
func RecencyBonus(ageHours, windowHours, maxBonus float64) float64 {
	if windowHours <= 0 {
		return 0
	}
	return math.Max(0, maxBonus*(1-ageHours/windowHours))
}

// Score is score + comments*weight + recency bonus.
func Score(item model.Item, cfg config.FilterConfig, now time.Time) float64 {
	ageHours := item.Age(now).Hours()
	return float64(item.Points()) +
		float64(item.CommentCount)*cfg.CommentWeight +
		RecencyBonus(ageHours, float64(cfg.HoursWindow), cfg.MaxRecencyBonus)
}

// Scored pairs an item with its rank.
type Scored struct {
	Item model.Item
	Rank float64
}

// Sort orders by rank descending. Equal ranks fall back to id descending so
// the output never depends on fetch completion order.
func Sort(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Rank != scored[j].Rank {
			return scored[i].Rank > scored[j].Rank
		}
		return scored[i].Item.ID > scored[j].Item.ID
	})
}

// RankItems scores, sorts and truncates already-filtered items.
func RankItems(items []model.Item, cfg config.FilterConfig, now time.Time) []model.Item {
	scored := make([]Scored, len(items))
	for i, item := range items {
		scored[i] = Scored{Item: item, Rank: Score(item, cfg, now)}
	}
	Sort(scored)

	n := min(len(scored), cfg.MaxStories)
	result := make([]model.Item, n)
	for i := 0; i < n; i++ {
		result[i] = scored[i].Item
	}
	return result
}
