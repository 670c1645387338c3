package vector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/config"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// NewVectorStore creates a vector store from configuration.
// Supported backends:
//   - "embedded": in-memory store (non-persistent, brute-force search)
//   - "sqlite": SQLite-backed store (persistent)
func NewVectorStore(cfg config.VectorConfig) (VectorStore, error) {
	if cfg.Dimensions <= 0 {
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("dimensions must be positive, got %d", cfg.Dimensions))
	}

	switch cfg.Backend {
	case "embedded", "":
		return NewEmbeddedVectorStore(cfg.Dimensions), nil

	case "sqlite":
		if cfg.Path == "" {
			return nil, types.NewError(ErrCodeInvalidConfig,
				"path is required for sqlite backend")
		}

		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, types.WrapError(ErrCodeVectorStoreFailed,
				"failed to create storage directory", err)
		}

		tableName := cfg.Collection
		if tableName == "" {
			tableName = "vectors"
		}

		store, err := NewSqliteVecStore(SqliteVecConfig{
			DBPath:    cfg.Path,
			TableName: tableName,
			Dims:      cfg.Dimensions,
		})
		if err != nil {
			return nil, types.WrapError(ErrCodeVectorStoreFailed,
				"failed to create sqlite vector store", err)
		}
		return store, nil

	default:
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("unknown backend %q, must be one of: embedded, sqlite", cfg.Backend))
	}
}

// NewEmbedder creates an embedder from configuration.
// Supported providers:
//   - "mock": deterministic hash-based embeddings (offline, default)
//   - "openai": OpenAI embeddings API (requires API key)
func NewEmbedder(cfg config.EmbedderConfig, dims int) (Embedder, error) {
	switch cfg.Provider {
	case "mock", "":
		return NewMockEmbedder(dims), nil

	case "openai":
		return NewOpenAIEmbedder(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})

	default:
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("unknown embedder provider %q, must be 'mock' or 'openai'", cfg.Provider))
	}
}
