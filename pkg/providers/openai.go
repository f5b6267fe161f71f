package providers

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/docportal/docportal/pkg/config"
	"github.com/docportal/docportal/pkg/domain"
)

// OpenAIProvider implements Embedder and Generator against the OpenAI API
// or any OpenAI-compatible endpoint.
type OpenAIProvider struct {
	client openai.Client
	cfg    *config.OpenAIConfig
}

func NewOpenAIProvider(cfg *config.OpenAIConfig) (*OpenAIProvider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key missing", domain.ErrConfig)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}, nil
}

func (p *OpenAIProvider) llmModel() string {
	if p.cfg.LLMModel != "" {
		return p.cfg.LLMModel
	}
	return "gpt-4o-mini"
}

func (p *OpenAIProvider) embeddingModel() string {
	if p.cfg.EmbeddingModel != "" {
		return p.cfg.EmbeddingModel
	}
	return "text-embedding-3-small"
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts *domain.GenerationOptions) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.llmModel()),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if opts != nil {
		if opts.Temperature >= 0 {
			params.Temperature = openai.Float(opts.Temperature)
		}
		if opts.MaxTokens > 0 {
			params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
		}
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai generation: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai generation: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.embeddingModel()),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	}

	embedding, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(embedding.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: no data returned")
	}

	vec := make([]float64, len(embedding.Data[0].Embedding))
	for i, v := range embedding.Data[0].Embedding {
		vec[i] = float64(v)
	}
	return vec, nil
}
