package providers

import (
	"context"
	"fmt"

	"github.com/liliang-cn/ollama-go"

	"github.com/docportal/docportal/pkg/config"
	"github.com/docportal/docportal/pkg/domain"
)

// OllamaProvider implements Embedder and Generator against a local Ollama
// daemon. Endpoint selection follows the client library's environment
// handling (OLLAMA_HOST).
type OllamaProvider struct {
	client *ollama.Client
	cfg    *config.OllamaConfig
}

func NewOllamaProvider(cfg *config.OllamaConfig) (*OllamaProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: ollama config missing", domain.ErrConfig)
	}

	client, err := ollama.NewClient()
	if err != nil {
		return nil, fmt.Errorf("%w: creating ollama client: %v", domain.ErrConfig, err)
	}

	return &OllamaProvider{client: client, cfg: cfg}, nil
}

func (p *OllamaProvider) llmModel() string {
	if p.cfg.LLMModel != "" {
		return p.cfg.LLMModel
	}
	return "qwen3"
}

func (p *OllamaProvider) embeddingModel() string {
	if p.cfg.EmbeddingModel != "" {
		return p.cfg.EmbeddingModel
	}
	return "nomic-embed-text"
}

func (p *OllamaProvider) Generate(ctx context.Context, prompt string, opts *domain.GenerationOptions) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}

	stream := false
	req := &ollama.GenerateRequest{
		Model:  p.llmModel(),
		Prompt: prompt,
		Stream: &stream,
	}
	if opts != nil {
		options := &ollama.Options{}
		if opts.Temperature >= 0 {
			options.Temperature = &opts.Temperature
		}
		if opts.MaxTokens > 0 {
			numPredict := opts.MaxTokens
			options.NumPredict = &numPredict
		}
		req.Options = options
	}

	resp, err := p.client.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ollama generation: %w", err)
	}
	return resp.Response, nil
}

func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}

	req := &ollama.EmbedRequest{
		Model: p.embeddingModel(),
		Input: text,
	}

	resp, err := p.client.Embed(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama embedding: empty response")
	}
	return resp.Embeddings[0], nil
}
