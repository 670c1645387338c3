package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigValidator validates configuration values.
type ConfigValidator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements ConfigValidator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a new ConfigValidator instance.
func NewValidator() ConfigValidator {
	return &validatorImpl{
		validate: validator.New(),
	}
}

// Validate validates the configuration and returns detailed error messages.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validation error: %w", err)
		}

		var errorMessages []string
		for _, e := range validationErrs {
			errorMessages = append(errorMessages, formatValidationError(e))
		}

		return fmt.Errorf("configuration validation failed:\n  - %s",
			strings.Join(errorMessages, "\n  - "))
	}

	// The graph section is required unless passive mode is forced on.
	if cfg.Core.PassiveMode != "on" {
		if cfg.Graph.URI == "" {
			return fmt.Errorf("configuration validation failed:\n  - graph.uri is required unless core.passive_mode is 'on'")
		}
		if cfg.Graph.Username == "" || cfg.Graph.Password == "" {
			return fmt.Errorf("configuration validation failed:\n  - graph.username and graph.password are required unless core.passive_mode is 'on'")
		}
	}

	// OpenAI embedder needs a key to be usable.
	if cfg.Embedder.Provider == "openai" && cfg.Embedder.APIKey == "" {
		return fmt.Errorf("configuration validation failed:\n  - embedder.api_key is required when embedder.provider is 'openai'")
	}

	if cfg.Vector.Backend == "sqlite" && cfg.Vector.Path == "" {
		return fmt.Errorf("configuration validation failed:\n  - vector.path is required when vector.backend is 'sqlite'")
	}

	return nil
}

// formatValidationError converts a validator.FieldError into a readable message.
func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", field, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation rule %q", field, e.Tag())
	}
}
