package vector

import (
	"fmt"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// VectorRecord is a stored embedding with its source text and the canonical
// entity it was derived from. ID is a surrogate key owned by the vector
// store; Ref is the canonical recipe id and is the handle every caller
// outside this package uses.
type VectorRecord struct {
	ID        string         `json:"id"`
	Ref       string         `json:"ref"`
	Content   string         `json:"content"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewVectorRecord creates a record with the current timestamp.
func NewVectorRecord(id, ref, content string, embedding []float64, metadata map[string]any) *VectorRecord {
	return &VectorRecord{
		ID:        id,
		Ref:       ref,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}

// Validate ensures the record has valid fields.
func (vr *VectorRecord) Validate() error {
	if vr.ID == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "vector record ID cannot be empty")
	}
	if vr.Ref == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "vector record ref cannot be empty")
	}
	if vr.Content == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "vector record content cannot be empty")
	}
	if len(vr.Embedding) == 0 {
		return types.NewError(ErrCodeVectorStoreFailed, "vector record embedding cannot be empty")
	}
	return nil
}

// Dimensions returns the dimensionality of the embedding vector.
func (vr *VectorRecord) Dimensions() int {
	return len(vr.Embedding)
}

// VectorQuery is a nearest-neighbour search request. ExcludeRefs drops
// records whose Ref matches, which is how a candidate recipe is kept out of
// its own neighbour list. MinScore zero means no cutoff; negative-similarity
// hits still rank and still count toward TopK.
type VectorQuery struct {
	Embedding   []float64 `json:"embedding"`
	TopK        int       `json:"top_k"`
	ExcludeRefs []string  `json:"exclude_refs,omitempty"`
	MinScore    float64   `json:"min_score,omitempty"`
}

// NewVectorQuery creates a query from a pre-computed embedding.
func NewVectorQuery(embedding []float64, topK int) *VectorQuery {
	return &VectorQuery{
		Embedding: embedding,
		TopK:      topK,
	}
}

// WithExcludeRefs drops records for the given canonical ids from results.
func (vq *VectorQuery) WithExcludeRefs(refs ...string) *VectorQuery {
	vq.ExcludeRefs = append(vq.ExcludeRefs, refs...)
	return vq
}

// Validate ensures the query has valid fields.
func (vq *VectorQuery) Validate() error {
	if len(vq.Embedding) == 0 {
		return types.NewError(ErrCodeVectorSearchFailed, "vector query must have an embedding")
	}
	if vq.TopK <= 0 {
		return types.NewError(ErrCodeVectorSearchFailed,
			fmt.Sprintf("vector query top_k must be greater than 0, got %d", vq.TopK))
	}
	if vq.MinScore < 0 || vq.MinScore > 1 {
		return types.NewError(ErrCodeVectorSearchFailed,
			fmt.Sprintf("vector query min_score must be between 0 and 1, got %f", vq.MinScore))
	}
	return nil
}

func (vq *VectorQuery) excludes(ref string) bool {
	for _, r := range vq.ExcludeRefs {
		if r == ref {
			return true
		}
	}
	return false
}

// VectorResult is a search hit with its cosine similarity score.
type VectorResult struct {
	Record VectorRecord `json:"record"`
	Score  float64      `json:"score"`
}
