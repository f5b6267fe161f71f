// Package rag composes query rewriting, retrieval and grounded answering
// into one invocable chain bound to a loaded index.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docportal/docportal/pkg/domain"
	"github.com/docportal/docportal/pkg/prompt"
)

// NoAnswer is returned when the generator produces empty output. It is a
// sentinel answer for the caller, not an error.
const NoAnswer = "No answer generated"

type Chain struct {
	generator domain.Generator
	retriever domain.Retriever
	prompts   *prompt.Manager
	logger    *slog.Logger
	sessionID string
}

func NewChain(generator domain.Generator, retriever domain.Retriever, prompts *prompt.Manager, logger *slog.Logger, sessionID string) (*Chain, error) {
	if retriever == nil {
		return nil, fmt.Errorf("%w: retriever cannot be nil", domain.ErrInvalidInput)
	}
	return &Chain{
		generator: generator,
		retriever: retriever,
		prompts:   prompts,
		logger:    logger,
		sessionID: sessionID,
	}, nil
}

type promptData struct {
	Input   string
	Context string
	History []domain.ChatTurn
}

// Invoke runs rewrite, retrieve and answer in order. Failure at any stage
// aborts the call; no partial answer is returned.
func (c *Chain) Invoke(ctx context.Context, input string, history []domain.ChatTurn) (string, error) {
	rewritten, err := c.rewrite(ctx, input, history)
	if err != nil {
		return "", c.fail("rewrite", err)
	}

	chunks, err := c.retriever.Retrieve(ctx, rewritten)
	if err != nil {
		return "", c.fail("retrieve", err)
	}

	answer, err := c.answer(ctx, input, formatContext(chunks), history)
	if err != nil {
		return "", c.fail("answer", err)
	}

	if strings.TrimSpace(answer) == "" {
		c.logger.Warn("no answer generated", "session_id", c.sessionID, "input", input)
		return NoAnswer, nil
	}

	c.logger.Info("answer generated", "session_id", c.sessionID, "retrieved", len(chunks))
	return strings.TrimSpace(answer), nil
}

// rewrite turns the input into a standalone question conditioned on the
// history. The template handles empty history by passing the input through.
func (c *Chain) rewrite(ctx context.Context, input string, history []domain.ChatTurn) (string, error) {
	p, err := c.prompts.Render(prompt.KeyContextualize, promptData{Input: input, History: history})
	if err != nil {
		return "", err
	}

	rewritten, err := c.generator.Generate(ctx, p, &domain.GenerationOptions{Temperature: 0})
	if err != nil {
		return "", err
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return input, nil
	}
	return rewritten, nil
}

func (c *Chain) answer(ctx context.Context, input, contextText string, history []domain.ChatTurn) (string, error) {
	p, err := c.prompts.Render(prompt.KeyContextQA, promptData{
		Input:   input,
		Context: contextText,
		History: history,
	})
	if err != nil {
		return "", err
	}
	return c.generator.Generate(ctx, p, &domain.GenerationOptions{Temperature: 0.2})
}

func (c *Chain) fail(stage string, err error) error {
	c.logger.Error("retrieval chain failed", "session_id", c.sessionID, "stage", stage, "error", err)
	return fmt.Errorf("%w: %s: %w", domain.ErrRetrievalChain, stage, err)
}

// formatContext joins retrieved chunk texts with blank-line separators,
// preserving retrieval order.
func formatContext(chunks []domain.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, "\n\n")
}
