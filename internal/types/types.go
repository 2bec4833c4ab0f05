package types

import (
	"context"
	"net/http"
	"time"
)

// Credentials identifies a club session against the Spond API
type Credentials struct {
	BearerToken string `json:"bearerToken"`
	ClubID      string `json:"clubId"`
}

// Club is one club membership from the user profile. The API is not
// consistent about field names, so both spellings are kept.
type Club struct {
	ID       string `json:"id"`
	ClubID   string `json:"clubId"`
	Name     string `json:"name"`
	ClubName string `json:"clubName"`
}

// Identifier returns the club ID from whichever field carries it
func (c *Club) Identifier() string {
	if c.ID != "" {
		return c.ID
	}
	return c.ClubID
}

// DisplayName returns the club name, falling back across field spellings
func (c *Club) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.ClubName != "" {
		return c.ClubName
	}
	return "Unknown Club"
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// SingleRetry is the default policy: one retry with a short wait on
// transient network errors and 5xx responses.
func SingleRetry() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 1,
		RetryWait:  500 * time.Millisecond,
		MaxWait:    time.Second,
	}
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}
