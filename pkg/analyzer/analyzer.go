// Package analyzer extracts structured metadata from a single document's
// text through the generation provider.
package analyzer

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
	Text string
}

// Analyze asks the generator for document metadata as JSON. A response
// that fails to parse is retried once with a stricter prompt before the
// parse failure is surfaced.
func (s *Service) Analyze(ctx context.Context, text string) (domain.DocumentMetadata, error) {
	if strings.TrimSpace(text) == "" {
		return domain.DocumentMetadata{}, fmt.Errorf("%w: empty document text", domain.ErrInvalidInput)
	}

	meta, err := s.attempt(ctx, prompt.KeyAnalyze, text)
	if err == nil {
		return meta, nil
	}
	if !isParseFailure(err) {
		return domain.DocumentMetadata{}, err
	}

	s.logger.Warn("analysis response unparseable, retrying with strict prompt", "error", err)
	meta, err = s.attempt(ctx, prompt.KeyAnalyzeStrict, text)
	if err != nil {
		if isParseFailure(err) {
			return domain.DocumentMetadata{}, fmt.Errorf("%w: analysis output after retry: %v", domain.ErrMalformedResponse, err)
		}
		return domain.DocumentMetadata{}, err
	}
	return meta, nil
}

func (s *Service) attempt(ctx context.Context, promptKey, text string) (domain.DocumentMetadata, error) {
	p, err := s.prompts.Render(promptKey, promptData{Text: text})
	if err != nil {
		return domain.DocumentMetadata{}, err
	}

	raw, err := s.generator.Generate(ctx, p, &domain.GenerationOptions{Temperature: 0.2, MaxTokens: 1024})
	if err != nil {
		return domain.DocumentMetadata{}, err
	}

	var meta domain.DocumentMetadata
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &meta); err != nil {
		return domain.DocumentMetadata{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return meta, nil
}

func isParseFailure(err error) bool {
	return errors.Is(err, domain.ErrMalformedResponse)
}

// stripCodeFences unwraps ```json fenced blocks that models wrap around
// structured output.
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
