package spond

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jtracey93/spond-payment-reporting/internal/transport"
	internalTypes "github.com/jtracey93/spond-payment-reporting/internal/types"
)

const (
	// DefaultBaseURL is the default Spond club API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout
)

// Client is the Spond club API client
type Client struct {
	// Service interfaces
	Auth     AuthService
	Members  MemberService
	Payments PaymentService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// BearerToken authenticates API calls
	BearerToken string

	// ClubID identifies the club tenant
	ClubID string

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures retry behavior; nil disables retries
	RetryConfig *internalTypes.RetryConfig

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Transport handles HTTP communication with the API
type Transport interface {
	Execute(ctx context.Context, method, path string, body interface{}, result interface{}) error
	Download(ctx context.Context, method, path string, body interface{}) ([]byte, error)
	SetAuth(token string)
	SetClubID(clubID string)
}

// NewClient creates a new Spond club API client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		// Log error but don't fail client creation
		if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
			opts.Logger.Error("Failed to initialize Sentry", "error", err)
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	if opts.RetryConfig == nil {
		opts.RetryConfig = internalTypes.SingleRetry()
	}

	// Create transport using the internal package
	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
	})

	if opts.BearerToken != "" {
		trans.SetAuth(opts.BearerToken)
	}
	if opts.ClubID != "" {
		trans.SetClubID(opts.ClubID)
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		options:    opts,
	}

	c.initServices()

	return c, nil
}

// NewClientWithCredentials creates a client with a token and club ID
func NewClientWithCredentials(bearerToken, clubID string) (*Client, error) {
	return NewClient(&ClientOptions{
		BearerToken: bearerToken,
		ClubID:      clubID,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = newAuthService(c)
	c.Members = &memberService{client: c}
	c.Payments = &paymentService{client: c}
}

// SetCredentials replaces the bearer token and club ID
func (c *Client) SetCredentials(bearerToken, clubID string) {
	c.transport.SetAuth(bearerToken)
	c.transport.SetClubID(clubID)
}

// execute runs a JSON API call, reporting failures to Sentry when enabled
func (c *Client) execute(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	err := c.transport.Execute(ctx, method, path, body, result)
	if err != nil {
		c.captureError(ctx, err, method, path)
	}
	return err
}

// download runs a raw API call, reporting failures to Sentry when enabled
func (c *Client) download(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	data, err := c.transport.Download(ctx, method, path, body)
	if err != nil {
		c.captureError(ctx, err, method, path)
	}
	return data, err
}

func (c *Client) captureError(ctx context.Context, err error, method, path string) {
	if c.options.SentryDSN == "" && c.options.SentryOptions == nil {
		return
	}

	capture := func(scope *sentry.Scope) {
		scope.SetTag("api.endpoint", path)
		scope.SetContext("request", map[string]interface{}{
			"method": method,
			"path":   path,
		})
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			capture(scope)
			hub.CaptureException(err)
		})
	} else {
		sentry.WithScope(func(scope *sentry.Scope) {
			capture(scope)
			sentry.CaptureException(err)
		})
	}
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
