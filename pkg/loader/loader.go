// Package loader extracts page-level text from uploaded documents.
package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/docportal/docportal/pkg/domain"
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Load dispatches on the file extension and returns the document's pages.
// Whitespace-only pages are dropped. Formats without page structure (text,
// word-processor documents) yield a single page record.
func (s *Service) Load(path string) ([]domain.PageRecord, error) {
	name := filepath.Base(path)

	var (
		pages []domain.PageRecord
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		pages, err = s.loadPDF(path, name)
	case ".txt", ".md", ".markdown":
		pages, err = s.loadText(path, name)
	case ".docx":
		pages, err = s.loadDocx(path, name)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	kept := pages[:0]
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		kept = append(kept, p)
	}

	s.logger.Info("document loaded", "file", name, "pages", len(kept))
	return kept, nil
}

// SupportedExtension reports whether the loader can handle the file.
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md", ".markdown", ".docx":
		return true
	}
	return false
}
