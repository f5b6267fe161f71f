package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docportal/docportal/pkg/domain"
	"github.com/docportal/docportal/pkg/prompt"
)

type scriptedGenerator struct {
	responses []string
	calls     int
	err       error
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string, _ *domain.GenerationOptions) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	resp := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return resp, nil
}

func newService(gen domain.Generator) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(gen, prompt.NewManager(), logger)
}

const validMetadata = `{
	"title": "Quarterly Report",
	"summary": "Revenue grew in Q3.",
	"detected_language": "en",
	"key_entities": ["Acme Corp"],
	"page_count_estimate": 12
}`

func TestAnalyze_ParsesMetadata(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validMetadata}}
	meta, err := newService(gen).Analyze(context.Background(), "some document text")
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Report", meta.Title)
	assert.Equal(t, "en", meta.DetectedLanguage)
	assert.Equal(t, []string{"Acme Corp"}, meta.KeyEntities)
	assert.Equal(t, 12, meta.PageCountEstimate)
	assert.Equal(t, 1, gen.calls)
}

func TestAnalyze_UnwrapsCodeFences(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"```json\n" + validMetadata + "\n```"}}
	meta, err := newService(gen).Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", meta.Title)
}

func TestAnalyze_RetriesOnceOnMalformedOutput(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"I cannot produce JSON", validMetadata}}
	meta, err := newService(gen).Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", meta.Title)
	assert.Equal(t, 2, gen.calls, "exactly one retry")
}

func TestAnalyze_DoubleFailureSurfacesMalformedResponse(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"garbage", "still garbage"}}
	_, err := newService(gen).Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Equal(t, 2, gen.calls)
}

func TestAnalyze_ProviderErrorNotRetried(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("connection refused")}
	_, err := newService(gen).Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Equal(t, 1, gen.calls, "transport failures must not trigger the strict retry")
}

func TestAnalyze_EmptyText(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validMetadata}}
	_, err := newService(gen).Analyze(context.Background(), "   \n ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, gen.calls)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare json", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "plain fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "padded", in: "  ```json\n{\"a\":1}\n```  ", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
