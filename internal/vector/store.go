package vector

import (
	"context"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// VectorStore provides vector-based similarity search over recipe
// projections. Implementations must be thread-safe for concurrent access.
type VectorStore interface {
	// Store adds a single vector record.
	Store(ctx context.Context, record VectorRecord) error

	// StoreBatch adds multiple vector records efficiently.
	StoreBatch(ctx context.Context, records []VectorRecord) error

	// Update overwrites the mutable fields (content, embedding, metadata)
	// of every record held for the given canonical ref. It returns the
	// number of records touched; zero is not an error.
	Update(ctx context.Context, ref, content string, embedding []float64, metadata map[string]any) (int, error)

	// Search finds similar records by embedding vector.
	Search(ctx context.Context, query VectorQuery) ([]VectorResult, error)

	// Get retrieves a specific record by its surrogate ID.
	Get(ctx context.Context, id string) (*VectorRecord, error)

	// ListByRef returns every record held for the given canonical ref.
	ListByRef(ctx context.Context, ref string) ([]VectorRecord, error)

	// DeleteByRef removes every record held for the given canonical ref.
	DeleteByRef(ctx context.Context, ref string) error

	// Health returns the health status of the vector store.
	Health(ctx context.Context) types.HealthStatus

	// Close releases all resources held by the vector store.
	Close() error
}
