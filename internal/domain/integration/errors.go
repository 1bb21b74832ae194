package integration

import (
	"errors"
	"fmt"
)

var (
	// Provider errors
	ErrProviderUnavailable  = errors.New("integration: provider temporarily unavailable")
	ErrAuthRetriesExhausted = errors.New("integration: authentication retries exhausted")

	// Filter errors
	ErrInvalidDateRange = errors.New("integration: date from must not be after date to")

	// Import errors
	ErrImportInvalidDocument = errors.New("integration: document is not importable")
)

// AuthError indicates that a login call failed or returned no usable token.
// It aborts the fetch chain in progress.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("integration: authentication failed (status %d): %s", e.StatusCode, e.Body)
}

// APIError indicates a non-success provider response other than an
// authentication rejection. Message is the best-effort parsed provider
// message, falling back to the raw body text.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("integration: provider request failed (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("integration: provider request failed (status %d): %s", e.StatusCode, e.Message)
}
