package comparator

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

const validRows = `[
	{"section": "Pricing", "reference": "USD 100", "actual": "USD 120", "change_type": "modified"},
	{"section": "Appendix B", "reference": "present", "actual": "", "change_type": "removed"}
]`

func TestCompare_ParsesRows(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validRows}}
	rows, err := newService(gen).Compare(context.Background(), "reference text", "actual text")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Pricing", rows[0].Section)
	assert.Equal(t, "modified", rows[0].ChangeType)
	assert.Equal(t, "removed", rows[1].ChangeType)
}

func TestCompare_UnwrapsCodeFences(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"```json\n" + validRows + "\n```"}}
	rows, err := newService(gen).Compare(context.Background(), "ref", "act")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCompare_RetriesOnceOnMalformedOutput(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"not json at all", validRows}}
	rows, err := newService(gen).Compare(context.Background(), "ref", "act")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, gen.calls)
}

func TestCompare_DoubleFailureSurfacesMalformedResponse(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"garbage", "more garbage"}}
	_, err := newService(gen).Compare(context.Background(), "ref", "act")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Equal(t, 2, gen.calls)
}

func TestCompare_ProviderErrorNotRetried(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("timeout")}
	_, err := newService(gen).Compare(context.Background(), "ref", "act")
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestCompare_EmptyDocuments(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validRows}}
	svc := newService(gen)

	_, err := svc.Compare(context.Background(), "", "actual")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Compare(context.Background(), "reference", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, gen.calls)
}

func TestCompare_EmptyRowSet(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"[]"}}
	rows, err := newService(gen).Compare(context.Background(), "same text", "same text")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
