package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/docportal/docportal/pkg/domain"
)

// Retriever returns a capability that maps a query to the top-k most
// similar chunks in the index, highest cosine similarity first.
func (m *Manager) Retriever(idx *Index, k int) domain.Retriever {
	if k <= 0 {
		k = 5
	}
	return &retriever{manager: m, index: idx, k: k}
}

type retriever struct {
	manager *Manager
	index   *Index
	k       int
}

func (r *retriever) Retrieve(ctx context.Context, query string) ([]domain.Chunk, error) {
	queryVec, err := r.manager.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := r.index.db.QueryContext(ctx,
		`SELECT fingerprint, source, seq, content, vector FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("scanning index: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			c          domain.Chunk
			vectorJSON string
		)
		if err := rows.Scan(&c.Fingerprint, &c.Source, &c.Seq, &c.Content, &vectorJSON); err != nil {
			return nil, fmt.Errorf("reading chunk row: %w", err)
		}
		if err := json.Unmarshal([]byte(vectorJSON), &c.Vector); err != nil {
			return nil, fmt.Errorf("%w: undecodable vector for %s", domain.ErrCorruptIndex, c.Fingerprint)
		}
		c.Score = cosineSimilarity(queryVec, c.Vector)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning index: %w", err)
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
	if len(chunks) > r.k {
		chunks = chunks[:r.k]
	}
	return chunks, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
