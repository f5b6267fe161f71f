// Package comparator produces a row-oriented diff of two documents
// through the generation provider.
package comparator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docportal/docportal/pkg/domain"
	"github.com/docportal/docportal/pkg/prompt"
)

type Service struct {
	generator domain.Generator
	prompts   *prompt.Manager
	logger    *slog.Logger
}

func New(generator domain.Generator, prompts *prompt.Manager, logger *slog.Logger) *Service {
	return &Service{generator: generator, prompts: prompts, logger: logger}
}

type promptData struct {
	Reference string
	Actual    string
}

// Compare sends both texts to the generator with a structured-output
// prompt and parses the response into comparison rows. An unparseable
// response is retried once with a stricter prompt.
func (s *Service) Compare(ctx context.Context, reference, actual string) ([]domain.ComparisonRow, error) {
	if strings.TrimSpace(reference) == "" || strings.TrimSpace(actual) == "" {
		return nil, fmt.Errorf("%w: both documents must have text", domain.ErrInvalidInput)
	}

	rows, err := s.attempt(ctx, prompt.KeyCompare, reference, actual)
	if err == nil {
		return rows, nil
	}
	if !errors.Is(err, domain.ErrMalformedResponse) {
		return nil, err
	}

	s.logger.Warn("comparison response unparseable, retrying with strict prompt", "error", err)
	rows, err = s.attempt(ctx, prompt.KeyCompareStrict, reference, actual)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			return nil, fmt.Errorf("%w: comparison output after retry: %v", domain.ErrMalformedResponse, err)
		}
		return nil, err
	}
	return rows, nil
}

func (s *Service) attempt(ctx context.Context, promptKey, reference, actual string) ([]domain.ComparisonRow, error) {
	p, err := s.prompts.Render(promptKey, promptData{Reference: reference, Actual: actual})
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, p, &domain.GenerationOptions{Temperature: 0.2, MaxTokens: 4096})
	if err != nil {
		return nil, err
	}

	var rows []domain.ComparisonRow
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return rows, nil
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
