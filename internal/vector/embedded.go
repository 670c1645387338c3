package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// EmbeddedVectorStore is an in-memory vector store. It uses brute-force
// search with cosine similarity, suitable for development, tests, and
// small-to-medium catalogs. For larger deployments use the sqlite backend.
type EmbeddedVectorStore struct {
	mu      sync.RWMutex
	records map[string]VectorRecord
	dims    int
}

// NewEmbeddedVectorStore creates a new in-memory vector store.
// dims specifies the expected dimensionality of embedding vectors.
func NewEmbeddedVectorStore(dims int) *EmbeddedVectorStore {
	return &EmbeddedVectorStore{
		records: make(map[string]VectorRecord),
		dims:    dims,
	}
}

// Store adds a single vector record to the store.
func (s *EmbeddedVectorStore) Store(ctx context.Context, record VectorRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != s.dims {
		return types.NewError(ErrCodeVectorStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(record.Embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record
	return nil
}

// StoreBatch adds multiple vector records atomically.
func (s *EmbeddedVectorStore) StoreBatch(ctx context.Context, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	for i, record := range records {
		if err := record.Validate(); err != nil {
			return types.WrapError(ErrCodeVectorStoreFailed,
				fmt.Sprintf("invalid record at index %d", i), err)
		}
		if len(record.Embedding) != s.dims {
			return types.NewError(ErrCodeVectorStoreFailed,
				fmt.Sprintf("record %d: embedding dimensions mismatch: expected %d, got %d",
					i, s.dims, len(record.Embedding)))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.records[record.ID] = record
	}
	return nil
}

// Update overwrites the mutable fields of every record held for ref.
func (s *EmbeddedVectorStore) Update(ctx context.Context, ref, content string, embedding []float64, metadata map[string]any) (int, error) {
	if len(embedding) != s.dims {
		return 0, types.NewError(ErrCodeVectorStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	touched := 0
	for id, record := range s.records {
		if record.Ref != ref {
			continue
		}
		record.Content = content
		record.Embedding = embedding
		record.Metadata = metadata
		s.records[id] = record
		touched++
	}
	return touched, nil
}

// Search finds similar records by embedding vector using brute-force
// cosine similarity, sorted by descending score.
func (s *EmbeddedVectorStore) Search(ctx context.Context, query VectorQuery) ([]VectorResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(query.Embedding) != s.dims {
		return nil, types.NewError(ErrCodeVectorSearchFailed,
			fmt.Sprintf("query embedding dimensions mismatch: expected %d, got %d",
				s.dims, len(query.Embedding)))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]VectorResult, 0, len(s.records))
	for _, record := range s.records {
		if query.excludes(record.Ref) {
			continue
		}
		score := cosineSimilarity(query.Embedding, record.Embedding)
		if query.MinScore > 0 && score < query.MinScore {
			continue
		}
		results = append(results, VectorResult{Record: record, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > query.TopK {
		results = results[:query.TopK]
	}
	return results, nil
}

// Get retrieves a specific record by its surrogate ID.
func (s *EmbeddedVectorStore) Get(ctx context.Context, id string) (*VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[id]
	if !exists {
		return nil, types.NewError(ErrCodeVectorNotFound,
			fmt.Sprintf("vector record not found: %s", id))
	}
	return &record, nil
}

// ListByRef returns every record held for ref.
func (s *EmbeddedVectorStore) ListByRef(ctx context.Context, ref string) ([]VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []VectorRecord
	for _, record := range s.records {
		if record.Ref == ref {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// DeleteByRef removes every record held for ref. Removing an absent ref
// is not an error.
func (s *EmbeddedVectorStore) DeleteByRef(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, record := range s.records {
		if record.Ref == ref {
			delete(s.records, id)
		}
	}
	return nil
}

// Health returns the current health status of the vector store.
func (s *EmbeddedVectorStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	count := len(s.records)
	s.mu.RUnlock()

	return types.NewHealthStatus(
		types.HealthStateHealthy,
		fmt.Sprintf("embedded vector store operational with %d records (dims: %d)", count, s.dims),
	)
}

// Close releases all resources held by the vector store.
func (s *EmbeddedVectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

// cosineSimilarity computes the cosine similarity between two embedding
// vectors: (a . b) / (||a|| * ||b||). Zero vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
