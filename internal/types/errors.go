package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Agelgil core errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Primary store error codes
const (
	DB_OPEN_FAILED      ErrorCode = "DB_OPEN_FAILED"
	DB_MIGRATION_FAILED ErrorCode = "DB_MIGRATION_FAILED"
	DB_QUERY_FAILED     ErrorCode = "DB_QUERY_FAILED"
	DB_TX_FAILED        ErrorCode = "DB_TX_FAILED"
)

// Entity error codes
const (
	USER_NOT_FOUND       ErrorCode = "USER_NOT_FOUND"
	RECIPE_NOT_FOUND     ErrorCode = "RECIPE_NOT_FOUND"
	INGREDIENT_NOT_FOUND ErrorCode = "INGREDIENT_NOT_FOUND"
	REVIEW_INVALID       ErrorCode = "REVIEW_INVALID"
	ENTITY_INVALID       ErrorCode = "ENTITY_INVALID"
)

// Search error codes
const (
	SEARCH_INVALID_PAGE     ErrorCode = "SEARCH_INVALID_PAGE"
	SEARCH_INVALID_CRITERIA ErrorCode = "SEARCH_INVALID_CRITERIA"
)

// Recommendation error codes
const (
	RECOMMEND_QUERY_FAILED ErrorCode = "RECOMMEND_QUERY_FAILED"
	SIMILAR_QUERY_FAILED   ErrorCode = "SIMILAR_QUERY_FAILED"
)

// AgelgilError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type AgelgilError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *AgelgilError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *AgelgilError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is an AgelgilError with the same Code.
func (e *AgelgilError) Is(target error) bool {
	var appErr *AgelgilError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// NewError creates a new non-retryable AgelgilError with the given code and message.
func NewError(code ErrorCode, message string) *AgelgilError {
	return &AgelgilError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable AgelgilError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *AgelgilError {
	return &AgelgilError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable AgelgilError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *AgelgilError {
	return &AgelgilError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapRetryableError creates a retryable AgelgilError that wraps an existing
// error. Use this for transient failures of downstream systems.
func WrapRetryableError(code ErrorCode, message string, cause error) *AgelgilError {
	return &AgelgilError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// IsRetryable reports whether err carries a retryable AgelgilError anywhere
// in its chain.
func IsRetryable(err error) bool {
	var appErr *AgelgilError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or returns an empty code if err is
// not an AgelgilError.
func CodeOf(err error) ErrorCode {
	var appErr *AgelgilError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
