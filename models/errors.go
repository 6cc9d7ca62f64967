package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports a user-correctable problem with the submitted
// image or request parameters.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// NewValidationError creates a ValidationError with a formatted detail.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConfigurationError reports that a provider cannot be used because its
// required credentials are not configured. Distinct from ProviderError so
// callers can tell "feature unavailable" apart from a transient failure.
type ConfigurationError struct {
	Provider string
	Detail   string
}

func (e *ConfigurationError) Error() string {
	return e.Detail
}

// IsConfigurationError checks if an error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ProviderError reports a failed exchange with an upstream provider. For
// non-2xx responses StatusCode carries the upstream status; for transport
// failures (connection, DNS, timeout) StatusCode is zero and Err wraps the
// underlying error.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError checks if an error is a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// NewProviderError builds a ProviderError from a non-2xx response body.
// The body is parsed as JSON for a structured error message; when that
// fails the first 200 characters of raw text are used instead.
func NewProviderError(provider string, statusCode int, body []byte) *ProviderError {
	msg := parseErrorMessage(body)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &ProviderError{Provider: provider, StatusCode: statusCode, Message: msg}
}

// parseErrorMessage extracts an error message from the common provider
// error shapes: {"message": ...}, {"error": "..."} and
// {"error": {"message": ...}}.
func parseErrorMessage(body []byte) string {
	var parsed struct {
		Message string      `json:"message"`
		Error   interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	switch e := parsed.Error.(type) {
	case string:
		return e
	case map[string]interface{}:
		if msg, ok := e["message"].(string); ok {
			return msg
		}
	}
	return ""
}
