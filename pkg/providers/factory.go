package providers

import (
	"fmt"
	"time"

	"github.com/docportal/docportal/pkg/config"
	"github.com/docportal/docportal/pkg/domain"
)

// provider is the pairing of capabilities every variant must supply.
type provider interface {
	domain.Embedder
	domain.Generator
}

type builder func(cfg *config.ProviderConfig) (provider, error)

// registry is the closed set of provider variants, keyed by the name used
// in configuration. Resolution happens once at startup.
var registry = map[string]builder{
	"openai": func(cfg *config.ProviderConfig) (provider, error) {
		return NewOpenAIProvider(cfg.OpenAI)
	},
	"ollama": func(cfg *config.ProviderConfig) (provider, error) {
		return NewOllamaProvider(cfg.Ollama)
	},
}

// New resolves the configured provider variant and wraps it in the
// timeout-enforcing gateway. Unknown provider names fail fast.
func New(cfg *config.Config) (*Gateway, error) {
	build, ok := registry[cfg.Provider.Default]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrConfig, cfg.Provider.Default)
	}

	p, err := build(&cfg.Provider)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Timeout()) * time.Second
	return NewGateway(p, p, timeout), nil
}
