package spond

import (
	"errors"

	internalTypes "github.com/jtracey93/spond-payment-reporting/internal/types"
)

// Sentinel errors surfaced by the client
var (
	// ErrNotAuthenticated is returned when the API rejects the bearer token (401/403)
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrCredentialsMissing is returned when no bearer token or club ID was provided
	ErrCredentialsMissing = internalTypes.ErrCredentialsMissing

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError
)

// Error is the typed API error carrying status code and endpoint
type Error = internalTypes.Error

// AsAPIError extracts the typed API error, if any, from an error chain
func AsAPIError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthError reports whether the error is an unrecoverable credential failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrCredentialsMissing)
}

// IsRetryable reports whether a fresh attempt could plausibly succeed
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}
