// Package filter provides pure filter functions for items.
// All functions are simple: []Item in, []Item out. No side effects.
package filter

import (
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// ByType keeps only items whose type tag equals typ.
func ByType(items []model.Item, typ string) []model.Item {
	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.Type == typ {
			result = append(result, item)
		}
	}
	return result
}

// WithinWindow reports whether item is no older than window at now.
func WithinWindow(item model.Item, window time.Duration, now time.Time) bool {
	return item.Age(now) <= window
}

// ByAge removes items older than maxAge relative to now.
func ByAge(items []model.Item, maxAge time.Duration, now time.Time) []model.Item {
	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if WithinWindow(item, maxAge, now) {
			result = append(result, item)
		}
	}
	return result
}

// MeetsEngagement reports whether the item clears either threshold.
// Score and comment count are alternatives, not both required.
func MeetsEngagement(item model.Item, minScore, minComments int) bool {
	return item.Points() >= minScore || item.CommentCount >= minComments
}

// ByEngagement keeps items that clear the score or comment threshold.
func ByEngagement(items []model.Item, minScore, minComments int) []model.Item {
	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if MeetsEngagement(item, minScore, minComments) {
			result = append(result, item)
		}
	}
	return result
}

// IsEligible applies every display filter from cfg to a single item.
func IsEligible(item model.Item, cfg config.FilterConfig, now time.Time) bool {
	return item.Type == model.StoryType &&
		WithinWindow(item, time.Duration(cfg.HoursWindow)*time.Hour, now) &&
		MeetsEngagement(item, cfg.MinScore, cfg.MinComments)
}

// Eligible is the list form of IsEligible. Input order is preserved.
func Eligible(items []model.Item, cfg config.FilterConfig, now time.Time) []model.Item {
	items = ByType(items, model.StoryType)
	items = ByAge(items, time.Duration(cfg.HoursWindow)*time.Hour, now)
	return ByEngagement(items, cfg.MinScore, cfg.MinComments)
}
