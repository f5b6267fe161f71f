package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docportal/docportal/pkg/domain"
)

// Gateway bounds every provider call with a deadline and folds transport
// failures into the portal error taxonomy. Generation calls dominate
// request latency, so an unbounded call would pin the serving goroutine.
type Gateway struct {
	embedder  domain.Embedder
	generator domain.Generator
	timeout   time.Duration
}

func NewGateway(embedder domain.Embedder, generator domain.Generator, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Gateway{embedder: embedder, generator: generator, timeout: timeout}
}

func (g *Gateway) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vec, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return nil, wrapProviderErr(err)
	}
	return vec, nil
}

func (g *Gateway) Generate(ctx context.Context, prompt string, opts *domain.GenerationOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.generator.Generate(ctx, prompt, opts)
	if err != nil {
		return "", wrapProviderErr(err)
	}
	return out, nil
}

func wrapProviderErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrProviderTimeout, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
}
