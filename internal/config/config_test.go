package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HN_CLI_PROVIDER", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-ant" {
		t.Errorf("APIKey = %q, want from env", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model == "" || cfg.Anthropic.CheapModel == "" {
		t.Error("default models should be filled")
	}
	if got := cfg.ActiveProvider(); got != ProviderAnthropic {
		t.Errorf("ActiveProvider = %q, want anthropic", got)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HN_CLI_PROVIDER", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `provider: openai
openai:
  api_key: sk-oai
  cheap_model: gpt-4.1-nano
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.CheapModel != "gpt-4.1-nano" {
		t.Errorf("CheapModel = %q", cfg.OpenAI.CheapModel)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("Model = %q, want default gpt-4o", cfg.OpenAI.Model)
	}
	if got := cfg.ActiveProvider(); got != ProviderOpenAI {
		t.Errorf("ActiveProvider = %q, want openai", got)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestActiveProviderWithoutKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	if got := cfg.ActiveProvider(); got != "" {
		t.Errorf("ActiveProvider = %q, want empty without key", got)
	}
}

func TestDefaultPathsHomeOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HN_CLI_HOME", home)

	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths: %v", err)
	}
	if p.ConfigDir != home || p.DataDir != home {
		t.Errorf("paths = %+v, want both under %s", p, home)
	}
	if p.SettingsFile() != filepath.Join(home, "settings.json") {
		t.Errorf("SettingsFile = %s", p.SettingsFile())
	}
}
