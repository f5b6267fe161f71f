package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docportal/docportal/pkg/config"
	"github.com/docportal/docportal/pkg/domain"
)

type stubProvider struct {
	embedErr    error
	generateErr error
	delay       time.Duration
}

func (s *stubProvider) Embed(ctx context.Context, _ string) ([]float64, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return []float64{1, 2, 3}, nil
}

func (s *stubProvider) Generate(ctx context.Context, _ string, _ *domain.GenerationOptions) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "generated", nil
}

func TestGateway_PassThrough(t *testing.T) {
	p := &stubProvider{}
	g := NewGateway(p, p, time.Second)

	vec, err := g.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vec)

	out, err := g.Generate(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "generated", out)
}

func TestGateway_TimeoutMapsToProviderTimeout(t *testing.T) {
	p := &stubProvider{delay: 200 * time.Millisecond}
	g := NewGateway(p, p, 10*time.Millisecond)

	_, err := g.Generate(context.Background(), "prompt", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderTimeout)

	_, err = g.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderTimeout)
}

func TestGateway_TransportErrorMapsToProvider(t *testing.T) {
	p := &stubProvider{generateErr: errors.New("connection refused")}
	g := NewGateway(p, p, time.Second)

	_, err := g.Generate(context.Background(), "prompt", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestGateway_InvalidInputPassesThrough(t *testing.T) {
	p := &stubProvider{embedErr: domain.ErrInvalidInput}
	g := NewGateway(p, p, time.Second)

	_, err := g.Embed(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrProvider)
}

func testConfig(provider string) *config.Config {
	cfg := &config.Config{}
	cfg.Provider.Default = provider
	return cfg
}

func TestNew_UnknownProviderFailsFast(t *testing.T) {
	cfg := testConfig("does-not-exist")
	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestNew_OpenAIWithoutKeyFails(t *testing.T) {
	cfg := testConfig("openai")
	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}
