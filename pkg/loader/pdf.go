package loader

import (
	"errors"
	"fmt"
	"strings"

	pdf "github.com/dslipak/pdf"

	"github.com/docportal/docportal/pkg/domain"
)

func (s *Service) loadPDF(path, name string) ([]domain.PageRecord, error) {
	r, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) || strings.Contains(err.Error(), "encrypted") {
			return nil, fmt.Errorf("%w: %s", domain.ErrEncryptedDocument, name)
		}
		return nil, fmt.Errorf("opening pdf %s: %w", name, err)
	}

	var pages []domain.PageRecord
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			s.logger.Warn("skipping unreadable page", "file", name, "page", i, "error", err)
			continue
		}
		pages = append(pages, domain.PageRecord{
			Source: name,
			Page:   i,
			Text:   strings.TrimSpace(text),
		})
	}
	return pages, nil
}
