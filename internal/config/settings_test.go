package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFilterConfig(t *testing.T) {
	c := DefaultFilterConfig()
	if c.MaxStories != 12 {
		t.Errorf("MaxStories = %d, want 12", c.MaxStories)
	}
	if c.CommentWeight != 0.5 {
		t.Errorf("CommentWeight = %v, want 0.5", c.CommentWeight)
	}
	if c.MaxCommentLevel != 3 {
		t.Errorf("MaxCommentLevel = %d, want 3", c.MaxCommentLevel)
	}
}

func TestKnobNormalize(t *testing.T) {
	k := Knob{Min: 20, Max: 500, Step: 10, Default: 100}

	tests := []struct {
		in, want float64
	}{
		{in: 100, want: 100},
		{in: 104, want: 100},
		{in: 106, want: 110},
		{in: 5, want: 20},
		{in: 9000, want: 500},
	}
	for _, tt := range tests {
		if got := k.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKnobNormalizeFractionalStep(t *testing.T) {
	k := Knob{Min: 0, Max: 5, Step: 0.1, Default: 0.5}
	if got := k.Normalize(0.33); got != 0.3 {
		t.Errorf("Normalize(0.33) = %v, want 0.3", got)
	}
	if got := k.Normalize(0.1 + 0.2); got != 0.3 {
		t.Errorf("Normalize(0.1+0.2) = %v, want 0.3", got)
	}
}

func TestParseFilterConfigClampsAndFallsBack(t *testing.T) {
	data := []byte(`{
		// comments are allowed
		"maxStories": 1000,
		"minScore": 23,
		"hoursWindow": "lots",
		"commentWeight": 1.26,
	}`)

	c, err := ParseFilterConfig(data)
	if err != nil {
		t.Fatalf("ParseFilterConfig: %v", err)
	}
	if c.MaxStories != 50 {
		t.Errorf("MaxStories = %d, want clamped 50", c.MaxStories)
	}
	if c.MinScore != 25 {
		t.Errorf("MinScore = %d, want snapped 25", c.MinScore)
	}
	if c.HoursWindow != 24 {
		t.Errorf("HoursWindow = %d, want default 24 for invalid value", c.HoursWindow)
	}
	if c.CommentWeight != 1.3 {
		t.Errorf("CommentWeight = %v, want 1.3", c.CommentWeight)
	}
	if c.MaxRootComments != 12 {
		t.Errorf("MaxRootComments = %d, want default 12 when missing", c.MaxRootComments)
	}
}

func TestParseFilterConfigMalformed(t *testing.T) {
	c, err := ParseFilterConfig([]byte(`{not json`))
	if err == nil {
		t.Error("expected parse error")
	}
	if c != DefaultFilterConfig() {
		t.Errorf("malformed settings should yield defaults, got %+v", c)
	}
}

func TestLoadFilterConfigMissingFile(t *testing.T) {
	c, err := LoadFilterConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if c != DefaultFilterConfig() {
		t.Errorf("got %+v, want defaults", c)
	}
}

func TestSaveAndLoadFilterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.json")

	c := DefaultFilterConfig()
	c.MaxStories = 20
	c.CommentWeight = 2
	if err := SaveFilterConfig(path, c); err != nil {
		t.Fatalf("SaveFilterConfig: %v", err)
	}

	got, err := LoadFilterConfig(path)
	if err != nil {
		t.Fatalf("LoadFilterConfig: %v", err)
	}
	if got != c {
		t.Errorf("got %+v, want %+v", got, c)
	}
}

func TestFilterConfigStep(t *testing.T) {
	c := DefaultFilterConfig()

	if !c.Step("maxStories", 1) {
		t.Fatal("Step returned false for known key")
	}
	if c.MaxStories != 13 {
		t.Errorf("MaxStories = %d, want 13", c.MaxStories)
	}

	c.MaxStories = 50
	c.Step("maxStories", 1)
	if c.MaxStories != 50 {
		t.Errorf("Step past max should clamp, got %d", c.MaxStories)
	}

	c.Step("commentWeight", -1)
	if c.CommentWeight != 0.4 {
		t.Errorf("CommentWeight = %v, want 0.4", c.CommentWeight)
	}

	if c.Step("bogus", 1) {
		t.Error("Step should return false for unknown key")
	}
}

func TestLoadFilterConfigUnreadable(t *testing.T) {
	dir := t.TempDir()
	// a directory where the file should be makes ReadFile fail
	path := filepath.Join(dir, "settings.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFilterConfig(path)
	if err == nil {
		t.Error("expected read error")
	}
	if c != DefaultFilterConfig() {
		t.Errorf("got %+v, want defaults", c)
	}
}
