package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// FilterConfig holds the user-adjustable ranking knobs.
// Always obtain it through LoadFilterConfig so values are normalized.
type FilterConfig struct {
	MaxStories          int     `json:"maxStories"`
	FetchLimit          int     `json:"fetchLimit"`
	HoursWindow         int     `json:"hoursWindow"`
	MinScore            int     `json:"minScore"`
	MinComments         int     `json:"minComments"`
	CommentWeight       float64 `json:"commentWeight"`
	MaxRecencyBonus     float64 `json:"maxRecencyBonus"`
	MaxRootComments     int     `json:"maxRootComments"`
	MaxChildComments    int     `json:"maxChildComments"`
	MaxCommentLevel     int     `json:"maxCommentLevel"`
	SessionCacheMinutes int     `json:"sessionCacheMinutes"`
}

// Knob describes one FilterConfig field: its range, step and default.
type Knob struct {
	Key     string
	Label   string
	Min     float64
	Max     float64
	Step    float64
	Default float64

	get func(*FilterConfig) float64
	set func(*FilterConfig, float64)
}

func intKnob(key, label string, min, max, step, def float64, f func(*FilterConfig) *int) Knob {
	return Knob{
		Key: key, Label: label, Min: min, Max: max, Step: step, Default: def,
		get: func(c *FilterConfig) float64 { return float64(*f(c)) },
		set: func(c *FilterConfig, v float64) { *f(c) = int(math.Round(v)) },
	}
}

func floatKnob(key, label string, min, max, step, def float64, f func(*FilterConfig) *float64) Knob {
	return Knob{
		Key: key, Label: label, Min: min, Max: max, Step: step, Default: def,
		get: func(c *FilterConfig) float64 { return *f(c) },
		set: func(c *FilterConfig, v float64) { *f(c) = v },
	}
}

var knobs = []Knob{
	intKnob("maxStories", "Stories shown", 5, 50, 1, 12, func(c *FilterConfig) *int { return &c.MaxStories }),
	intKnob("fetchLimit", "Candidates fetched", 20, 500, 10, 100, func(c *FilterConfig) *int { return &c.FetchLimit }),
	intKnob("hoursWindow", "Time window (hours)", 1, 72, 1, 24, func(c *FilterConfig) *int { return &c.HoursWindow }),
	intKnob("minScore", "Minimum score", 0, 500, 5, 20, func(c *FilterConfig) *int { return &c.MinScore }),
	intKnob("minComments", "Minimum comments", 0, 200, 1, 5, func(c *FilterConfig) *int { return &c.MinComments }),
	floatKnob("commentWeight", "Comment weight", 0, 5, 0.1, 0.5, func(c *FilterConfig) *float64 { return &c.CommentWeight }),
	floatKnob("maxRecencyBonus", "Max recency bonus", 0, 200, 5, 50, func(c *FilterConfig) *float64 { return &c.MaxRecencyBonus }),
	intKnob("maxRootComments", "Root comments", 1, 50, 1, 12, func(c *FilterConfig) *int { return &c.MaxRootComments }),
	intKnob("maxChildComments", "Replies per comment", 0, 20, 1, 5, func(c *FilterConfig) *int { return &c.MaxChildComments }),
	intKnob("maxCommentLevel", "Max comment depth", 0, 10, 1, 3, func(c *FilterConfig) *int { return &c.MaxCommentLevel }),
	intKnob("sessionCacheMinutes", "Session cache (minutes)", 0, 240, 5, 30, func(c *FilterConfig) *int { return &c.SessionCacheMinutes }),
}

// Knobs returns the knob table in display order.
func Knobs() []Knob {
	return append([]Knob(nil), knobs...)
}

// Value reads this knob's value from c.
func (k Knob) Value(c *FilterConfig) float64 { return k.get(c) }

// Normalize clamps v to [Min, Max] and snaps it to the nearest step.
// NaN and infinities yield the default.
func (k Knob) Normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return k.Default
	}
	v = math.Max(k.Min, math.Min(k.Max, v))
	if k.Step > 0 {
		v = k.Min + math.Round((v-k.Min)/k.Step)*k.Step
		v = math.Max(k.Min, math.Min(k.Max, v))
	}
	// strip float noise from step arithmetic (0.1 steps)
	return math.Round(v*1e6) / 1e6
}

// DefaultFilterConfig returns every knob at its default.
func DefaultFilterConfig() FilterConfig {
	var c FilterConfig
	for _, k := range knobs {
		k.set(&c, k.Default)
	}
	return c
}

// Step moves the named knob dir steps (negative to decrease) and returns
// false for an unknown key.
func (c *FilterConfig) Step(key string, dir int) bool {
	for _, k := range knobs {
		if k.Key == key {
			k.set(c, k.Normalize(k.get(c)+float64(dir)*k.Step))
			return true
		}
	}
	return false
}

// Normalized returns a copy with every knob clamped and snapped.
func (c FilterConfig) Normalized() FilterConfig {
	for _, k := range knobs {
		k.set(&c, k.Normalize(k.get(&c)))
	}
	return c
}

// ParseFilterConfig decodes settings JSON (comments allowed). Each knob
// that is missing or not a number falls back to its default. Malformed
// input yields the defaults and the parse error.
func ParseFilterConfig(data []byte) (FilterConfig, error) {
	cfg := DefaultFilterConfig()

	var raw map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return cfg, fmt.Errorf("parse settings: %w", err)
	}

	for _, k := range knobs {
		v, ok := raw[k.Key].(float64)
		if !ok {
			continue
		}
		k.set(&cfg, k.Normalize(v))
	}
	return cfg, nil
}

// LoadFilterConfig reads settings from path. Any failure yields defaults;
// the error is returned for logging only.
func LoadFilterConfig(path string) (FilterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultFilterConfig(), nil
		}
		return DefaultFilterConfig(), fmt.Errorf("read settings: %w", err)
	}
	return ParseFilterConfig(data)
}

// SaveFilterConfig writes normalized settings to path.
func SaveFilterConfig(path string, cfg FilterConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg.Normalized(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
