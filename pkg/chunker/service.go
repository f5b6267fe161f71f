// Package chunker splits extracted page text into overlapping segments
// sized for embedding.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/docportal/docportal/pkg/domain"
)

type Service struct{}

func New() *Service {
	return &Service{}
}

// Split concatenates the pages of one source file and cuts the text into
// chunks of at most size runes. Each chunk after the first starts exactly
// overlap runes before the end of the previous one. Cut points prefer a
// paragraph break, then a sentence end, then a word boundary, and fall back
// to a hard cut when the window contains none.
func (s *Service) Split(pages []domain.PageRecord, size, overlap int) ([]domain.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidChunking, overlap, size)
	}
	if len(pages) == 0 {
		return []domain.Chunk{}, nil
	}

	source := pages[0].Source
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	runes := []rune(strings.Join(parts, "\n\n"))

	var chunks []domain.Chunk
	pos := 0
	for pos < len(runes) {
		end := pos + size
		if end >= len(runes) {
			chunks = append(chunks, domain.Chunk{
				Source:  source,
				Seq:     len(chunks),
				Content: string(runes[pos:]),
			})
			break
		}

		cut := findCut(runes, pos, end, overlap)
		chunks = append(chunks, domain.Chunk{
			Source:  source,
			Seq:     len(chunks),
			Content: string(runes[pos:cut]),
		})
		pos = cut - overlap
	}

	return chunks, nil
}

// findCut searches backward inside (pos+overlap, end] for the best natural
// boundary. The lower bound keeps each chunk longer than the overlap so the
// walk always advances.
func findCut(runes []rune, pos, end, overlap int) int {
	min := pos + overlap + 1

	for i := end - 1; i >= min; i-- {
		if runes[i] == '\n' && i > 0 && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i >= min; i-- {
		if isSentenceEnd(runes[i]) && (i+1 >= len(runes) || unicode.IsSpace(runes[i+1])) {
			return i + 1
		}
	}
	for i := end - 1; i >= min; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
