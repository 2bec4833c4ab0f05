package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default Spond club API base URL
	DefaultBaseURL = "https://api.spond.com"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "spond-payment-reporting/1.0.0"

	// APILevel is the api-level header value the club web app sends
	APILevel = "4.72.0"

	// WebOrigin is the club web app origin, sent as origin/referer
	WebOrigin = "https://club.spond.com"
)

// Common errors
var (
	// ErrNotAuthenticated is returned when the API rejects the bearer token
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrCredentialsMissing is returned when no bearer token or club ID is available
	ErrCredentialsMissing = errors.New("credentials missing")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")
)
