package vector

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"sync"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// MockEmbedder generates deterministic embeddings derived from a SHA256
// hash of the text, so the same text always produces the same vector. It
// is the default provider for tests and offline environments.
type MockEmbedder struct {
	mu         sync.RWMutex
	dimensions int
	embedError error
	batchError error
	callCount  int
}

// NewMockEmbedder creates a deterministic embedder with the given
// dimensionality.
func NewMockEmbedder(dims int) *MockEmbedder {
	if dims <= 0 {
		dims = 1536
	}
	return &MockEmbedder{dimensions: dims}
}

// Embed generates a deterministic embedding for a single text.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	if m.embedError != nil {
		return nil, m.embedError
	}
	return m.generateEmbedding(text), nil
}

// EmbedBatch generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	if m.batchError != nil {
		return nil, m.batchError
	}

	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embeddings[i] = m.generateEmbedding(text)
	}
	return embeddings, nil
}

// generateEmbedding seeds a PRNG from the text hash and emits a unit
// vector, so textual similarity is not meaningful but identity is stable.
func (m *MockEmbedder) generateEmbedding(text string) []float64 {
	hash := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	rng := rand.New(rand.NewSource(seed))

	embedding := make([]float64, m.dimensions)
	for i := range embedding {
		embedding[i] = (rng.Float64() * 2) - 1
	}
	return normalizeVector(embedding)
}

// Dimensions returns the dimensionality of the embedding vectors.
func (m *MockEmbedder) Dimensions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimensions
}

// Model returns the name of the mock embedding model.
func (m *MockEmbedder) Model() string {
	return "mock-embedder"
}

// Health always reports healthy.
func (m *MockEmbedder) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("mock embedder")
}

// SetEmbedError makes subsequent Embed calls fail with err.
func (m *MockEmbedder) SetEmbedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedError = err
}

// SetBatchError makes subsequent EmbedBatch calls fail with err.
func (m *MockEmbedder) SetBatchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchError = err
}

// CallCount returns how many embed calls have been made.
func (m *MockEmbedder) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount
}

func normalizeVector(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}
