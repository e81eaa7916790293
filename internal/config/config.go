package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config holds AI backend credentials. It is read from config.yaml and
// overridden by environment variables.
type Config struct {
	// Provider selects the backend: "anthropic" or "openai".
	// Empty means the first one with an API key.
	Provider  string        `yaml:"provider"`
	Anthropic ModelSettings `yaml:"anthropic"`
	OpenAI    ModelSettings `yaml:"openai"`
}

// ModelSettings for a single AI provider
type ModelSettings struct {
	APIKey     string `yaml:"api_key,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"` // custom base URL (proxies, compatible APIs)
	Model      string `yaml:"model,omitempty"`    // primary tier: chat
	CheapModel string `yaml:"cheap_model,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Anthropic: ModelSettings{
			Model:      "claude-sonnet-4-5-20250929",
			CheapModel: "claude-haiku-4-5-20251001",
		},
		OpenAI: ModelSettings{
			Model:      "gpt-4o",
			CheapModel: "gpt-4o-mini",
		},
	}
}

// Load reads credentials from path, or returns defaults when the file is
// missing. Environment variables are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.fillDefaults()
	cfg.AutoPopulateFromEnv()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = def.Anthropic.Model
	}
	if c.Anthropic.CheapModel == "" {
		c.Anthropic.CheapModel = def.Anthropic.CheapModel
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = def.OpenAI.Model
	}
	if c.OpenAI.CheapModel == "" {
		c.OpenAI.CheapModel = def.OpenAI.CheapModel
	}
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Anthropic.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.OpenAI.APIKey = key
	}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		c.OpenAI.Endpoint = base
	}
	if p := os.Getenv("HN_CLI_PROVIDER"); p != "" {
		c.Provider = p
	}
}

// ActiveProvider returns the provider to use, or "" when nothing is configured.
func (c *Config) ActiveProvider() string {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey != "" {
			return ProviderAnthropic
		}
		return ""
	case ProviderOpenAI:
		if c.OpenAI.APIKey != "" {
			return ProviderOpenAI
		}
		return ""
	}
	if c.Anthropic.APIKey != "" {
		return ProviderAnthropic
	}
	if c.OpenAI.APIKey != "" {
		return ProviderOpenAI
	}
	return ""
}
