package loader

import (
	"fmt"
	"os"

	"github.com/docportal/docportal/pkg/domain"
)

func (s *Service) loadText(path, name string) ([]domain.PageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return []domain.PageRecord{{Source: name, Page: 1, Text: string(data)}}, nil
}
