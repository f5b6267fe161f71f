package domain

import (
	"context"
	"time"
)

// PageRecord is the text of a single page extracted from one source file.
// Pages containing only whitespace are dropped by the loader.
type PageRecord struct {
	Source string `json:"source"`
	Page   int    `json:"page"` // 1-based
	Text   string `json:"text"`
}

// Chunk is an immutable slice of document text prepared for embedding.
// Fingerprint is the SHA-256 hex digest over the normalized chunk text;
// the index manager fills it in before insertion.
type Chunk struct {
	Fingerprint string    `json:"fingerprint,omitempty"`
	Source      string    `json:"source"`
	Seq         int       `json:"seq"`
	Content     string    `json:"content"`
	Vector      []float64 `json:"vector,omitempty"`
	Score       float64   `json:"score,omitempty"`
}

// AddResult reports how many chunks an index update embedded and how many
// were skipped because their fingerprint was already in the ledger.
type AddResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// LedgerEntry records a fingerprint already embedded into an index.
type LedgerEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	FirstSeen   time.Time `json:"first_seen"`
}

// ChatTurn is one turn of conversation history supplied with a query.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// DocumentMetadata is the structured result of single-document analysis.
type DocumentMetadata struct {
	Title             string   `json:"title"`
	Summary           string   `json:"summary"`
	DetectedLanguage  string   `json:"detected_language"`
	KeyEntities       []string `json:"key_entities"`
	PageCountEstimate int      `json:"page_count_estimate"`
}

// ComparisonRow is one detected difference between a reference and an
// actual document.
type ComparisonRow struct {
	Section    string `json:"section"`
	Reference  string `json:"reference"`
	Actual     string `json:"actual"`
	ChangeType string `json:"change_type"`
}

// UploadedFile abstracts uploaded content away from the transport that
// delivered it. Implemented once per upload adapter.
type UploadedFile interface {
	Name() string
	Bytes() ([]byte, error)
}

// Embedder maps text to an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts *GenerationOptions) (string, error)
}

// GenerationOptions tunes a single generation call.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// Retriever maps a query to the most similar stored chunks, best first.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Chunk, error)
}
