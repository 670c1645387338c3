package config

import (
	"os"
	"time"
)

// Config is the root configuration for the Agelgil recipe-hub core.
type Config struct {
	Core     CoreConfig     `mapstructure:"core" yaml:"core" validate:"required"`
	Database DBConfig       `mapstructure:"database" yaml:"database" validate:"required"`
	Graph    GraphConfig    `mapstructure:"graph" yaml:"graph"`
	Vector   VectorConfig   `mapstructure:"vector" yaml:"vector"`
	Embedder EmbedderConfig `mapstructure:"embedder" yaml:"embedder"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// CoreConfig contains core application settings.
type CoreConfig struct {
	DataDir string        `mapstructure:"data_dir" yaml:"data_dir"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=1s"`
	Debug   bool          `mapstructure:"debug" yaml:"debug"`

	// PassiveMode controls whether auxiliary-store calls are stubbed out.
	// "on" and "off" are explicit overrides; "auto" derives the value from
	// the AGELGIL_ENV environment variable (test/offline => passive).
	PassiveMode string `mapstructure:"passive_mode" yaml:"passive_mode" validate:"omitempty,oneof=on off auto"`
}

// ResolvePassive resolves the passive-mode switch once. Adapters capture the
// result at construction time; it never changes for the life of the process.
func (c CoreConfig) ResolvePassive() bool {
	switch c.PassiveMode {
	case "on":
		return true
	case "off":
		return false
	}
	switch os.Getenv("AGELGIL_ENV") {
	case "test", "offline":
		return true
	}
	return false
}

// DBConfig contains primary-store (SQLite) configuration.
type DBConfig struct {
	Path           string        `mapstructure:"path" yaml:"path"`
	MaxConnections int           `mapstructure:"max_connections" yaml:"max_connections" validate:"min=1,max=100"`
	BusyTimeout    time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout"`
}

// GraphConfig contains relationship-store (Neo4j) configuration.
type GraphConfig struct {
	URI      string `mapstructure:"uri" yaml:"uri"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
	PoolSize int    `mapstructure:"pool_size" yaml:"pool_size" validate:"min=0,max=500"`
}

// VectorConfig contains similarity-store configuration.
type VectorConfig struct {
	// Backend selects the vector store implementation: "embedded" keeps
	// vectors in memory, "sqlite" persists them next to the primary store.
	Backend    string `mapstructure:"backend" yaml:"backend" validate:"omitempty,oneof=embedded sqlite"`
	Path       string `mapstructure:"path" yaml:"path"`
	Collection string `mapstructure:"collection" yaml:"collection"`
	Dimensions int    `mapstructure:"dimensions" yaml:"dimensions" validate:"min=1"`
}

// EmbedderConfig contains embedding-provider configuration.
type EmbedderConfig struct {
	// Provider specifies which embedder implementation to use.
	// Options: "openai", "mock"
	Provider string `mapstructure:"provider" yaml:"provider" validate:"omitempty,oneof=openai mock"`

	// Model is the specific embedding model to use.
	// For OpenAI: "text-embedding-3-small" (1536 dims).
	Model string `mapstructure:"model" yaml:"model"`

	// APIKey is the API key for the embedding provider.
	// Can also be provided via ${OPENAI_API_KEY} interpolation.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// BaseURL overrides the embedding API endpoint.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}
