package brain

import (
	"github.com/brianlovin/hn-cli-sub000/internal/config"
)

// New returns the backend for cfg's active provider, or ErrNotConfigured.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.ActiveProvider() {
	case config.ProviderAnthropic:
		return NewHTTPProvider(AnthropicConfig(cfg.Anthropic)), nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI), nil
	}
	return nil, ErrNotConfigured
}
