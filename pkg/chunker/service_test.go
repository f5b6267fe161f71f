package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docportal/docportal/pkg/domain"
)

func pagesFrom(text string) []domain.PageRecord {
	return []domain.PageRecord{{Source: "doc.txt", Page: 1, Text: text}}
}

func TestSplit_OverlapInvariant(t *testing.T) {
	service := New()

	// No natural boundaries, so every cut is a hard cut.
	text := strings.Repeat("a", 2500)
	chunks, err := service.Split(pagesFrom(text), 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), 1000)
		assert.Equal(t, i, c.Seq)
		assert.Equal(t, "doc.txt", c.Source)
	}

	for i := 0; i < len(chunks)-1; i++ {
		prev := []rune(chunks[i].Content)
		next := []rune(chunks[i+1].Content)
		tail := string(prev[len(prev)-200:])
		head := string(next[:200])
		assert.Equal(t, tail, head, "chunks %d and %d must share exactly 200 runes", i, i+1)
	}
}

func TestSplit_InvalidParameters(t *testing.T) {
	service := New()

	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{name: "overlap equals size", size: 100, overlap: 100},
		{name: "overlap exceeds size", size: 100, overlap: 150},
		{name: "negative overlap", size: 100, overlap: -1},
		{name: "zero size", size: 0, overlap: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Split(pagesFrom("some text"), tt.size, tt.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidChunking)
		})
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	service := New()

	text := strings.Repeat("a", 600) + "\n\n" + strings.Repeat("b", 600)
	chunks, err := service.Split(pagesFrom(text), 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.True(t, strings.HasSuffix(chunks[0].Content, "\n\n"),
		"first chunk should end at the paragraph break")
	assert.LessOrEqual(t, len([]rune(chunks[1].Content)), 1000)
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	service := New()

	text := "First sentence here. " + strings.Repeat("word ", 300)
	chunks, err := service.Split(pagesFrom(text), 100, 10)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, "First sentence here.", chunks[0].Content,
		"first chunk should end at the sentence boundary")
}

func TestSplit_ShortText(t *testing.T) {
	service := New()

	chunks, err := service.Split(pagesFrom("tiny"), 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0].Content)
}

func TestSplit_NoPages(t *testing.T) {
	service := New()

	chunks, err := service.Split(nil, 1000, 200)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ConcatenatesPages(t *testing.T) {
	service := New()

	pages := []domain.PageRecord{
		{Source: "doc.pdf", Page: 1, Text: "page one"},
		{Source: "doc.pdf", Page: 2, Text: "page two"},
	}
	chunks, err := service.Split(pages, 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "page one\n\npage two", chunks[0].Content)
}
