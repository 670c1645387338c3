package config

import (
	"log/slog"
	"os"
	"time"
)

// DefaultConfig returns the configuration used when no config file exists.
// The defaults assume a local Neo4j and an in-process vector store, with
// passive mode derived from the environment.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			DataDir:     ".agelgil",
			Timeout:     30 * time.Second,
			PassiveMode: "auto",
		},
		Database: DBConfig{
			Path:           ".agelgil/agelgil.db",
			MaxConnections: 10,
			BusyTimeout:    5 * time.Second,
		},
		Graph: GraphConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Password: "password",
			PoolSize: 50,
		},
		Vector: VectorConfig{
			Backend:    "sqlite",
			Path:       ".agelgil/vectors.db",
			Collection: "recipes",
			Dimensions: 1536,
		},
		Embedder: EmbedderConfig{
			Provider: "mock",
			Model:    "text-embedding-3-small",
			Timeout:  15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// NewLogger builds a slog.Logger from the logging configuration.
func (c LoggingConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
