package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/jtracey93/spond-payment-reporting/internal/types"
	"github.com/pkg/errors"
)

const (
	authHeaderKey = "authorization"
	clubHeaderKey = "x-spond-clubid"
	contentType   = "application/json"
)

// RESTTransport executes requests against the Spond club API
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	creds       *types.Credentials
	logger      types.Logger
	hooks       *types.Hooks
}

// Options for the REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		// Hand back the final response once retries are exhausted so the
		// status mapping below still sees it.
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	// Default headers match what the club web app sends
	headers := map[string]string{
		"accept":                 contentType,
		"content-type":           contentType,
		"api-level":              types.APILevel,
		"origin":                 types.WebOrigin,
		"referer":                types.WebOrigin + "/",
		"x-spond-membershipauth": "undefined",
		"user-agent":             types.UserAgent,
	}

	// Merge custom headers
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &RESTTransport{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		headers:     headers,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
	}
}

// Execute performs a JSON API call and decodes the response into result
func (t *RESTTransport) Execute(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	respBody, err := t.roundTrip(ctx, method, path, body, true)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &types.Error{
				Code:     types.CodeMalformedResponse,
				Message:  "failed to decode response",
				Endpoint: path,
				Err:      err,
			}
		}
	}

	return nil
}

// Download performs an API call and returns the raw response body, for
// payloads like CSV exports that are not JSON.
func (t *RESTTransport) Download(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	return t.roundTrip(ctx, method, path, body, false)
}

// SetAuth sets the bearer token
func (t *RESTTransport) SetAuth(token string) {
	if t.creds == nil {
		t.creds = &types.Credentials{}
	}
	t.creds.BearerToken = token
}

// SetClubID sets the club identifier header value
func (t *RESTTransport) SetClubID(clubID string) {
	if t.creds == nil {
		t.creds = &types.Credentials{}
	}
	t.creds.ClubID = clubID
}

func (t *RESTTransport) roundTrip(ctx context.Context, method, path string, body interface{}, wantJSON bool) ([]byte, error) {
	// Check credentials
	if t.creds == nil || t.creds.BearerToken == "" || t.creds.ClubID == "" {
		return nil, types.ErrCredentialsMissing
	}

	// Marshal request body
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	// Create HTTP request
	httpReq, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	// Set headers
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(authHeaderKey, bearerValue(t.creds.BearerToken))
	httpReq.Header.Set(clubHeaderKey, t.creds.ClubID)
	httpReq.Header.Set("x-spond-requestid", uuid.New().String())

	// Call request hook
	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	// Log request
	if t.logger != nil {
		t.logger.Debug("API request", "method", method, "path", path)
	}

	// Execute request
	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return nil, errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	// Call response hook
	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	// Read response
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response from %s", path)
	}

	// Log response
	if t.logger != nil {
		t.logger.Debug("API response", "path", path, "status", resp.StatusCode, "duration", duration, "size", len(respBody))
	}

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, t.handleHTTPError(resp.StatusCode, path, respBody)
	}

	// A JSON call that comes back as something else is malformed
	if wantJSON {
		ct := resp.Header.Get("content-type")
		if ct != "" && !strings.Contains(ct, contentType) {
			return nil, &types.Error{
				Code:       types.CodeMalformedResponse,
				Message:    fmt.Sprintf("expected JSON but got content-type %q", ct),
				StatusCode: resp.StatusCode,
				Endpoint:   path,
			}
		}
	}

	return respBody, nil
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		// Convert to retryable request
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// handleHTTPError maps non-2xx responses to typed errors
func (t *RESTTransport) handleHTTPError(statusCode int, path string, body []byte) error {
	// Try to parse error response
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	_ = json.Unmarshal(body, &errResp)

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &types.Error{
			Code:       types.CodeHTTPError,
			Message:    fmt.Sprintf("authentication rejected (status %d)", statusCode),
			StatusCode: statusCode,
			Endpoint:   path,
			Body:       string(body),
			Err:        types.ErrNotAuthenticated,
		}
	case http.StatusNotFound:
		return &types.Error{
			Code:       types.CodeHTTPError,
			Message:    "resource not found",
			StatusCode: statusCode,
			Endpoint:   path,
			Err:        types.ErrNotFound,
		}
	case http.StatusTooManyRequests:
		return &types.Error{
			Code:       types.CodeHTTPError,
			Message:    "rate limited",
			StatusCode: statusCode,
			Endpoint:   path,
			Err:        types.ErrRateLimited,
		}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return &types.Error{
			Code:       types.CodeHTTPError,
			Message:    "request timed out",
			StatusCode: statusCode,
			Endpoint:   path,
			Err:        types.ErrTimeout,
		}
	case http.StatusBadRequest:
		if msg == "" {
			msg = "bad request"
		}
		return &types.Error{
			Code:       types.CodeBadRequest,
			Message:    msg,
			StatusCode: statusCode,
			Endpoint:   path,
			Body:       string(body),
		}
	default:
		if statusCode >= 500 {
			baseMsg := fmt.Sprintf("server error: %d", statusCode)
			if desc := httpStatusDescription(statusCode); desc != "" {
				baseMsg = fmt.Sprintf("server error: %d (%s)", statusCode, desc)
			}
			if msg != "" {
				baseMsg = fmt.Sprintf("%s: %s", baseMsg, msg)
			}

			return &types.Error{
				Code:       types.CodeServerError,
				Message:    baseMsg,
				StatusCode: statusCode,
				Endpoint:   path,
				Body:       string(body),
				Err:        types.ErrServerError,
			}
		}
		return &types.Error{
			Code:       types.CodeHTTPError,
			Message:    fmt.Sprintf("HTTP error: %d", statusCode),
			StatusCode: statusCode,
			Endpoint:   path,
			Body:       string(body),
		}
	}
}

// httpStatusDescription names the 5xx codes the Spond API and the CDN in
// front of it are known to return, so "server error: 525" becomes readable.
func httpStatusDescription(statusCode int) string {
	descriptions := map[int]string{
		500: "Internal Server Error",
		501: "Not Implemented",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
		520: "Web Server Error",
		521: "Web Server Is Down",
		522: "Connection Timed Out",
		523: "Origin Is Unreachable",
		524: "A Timeout Occurred",
		525: "SSL Handshake Failed",
		526: "Invalid SSL Certificate",
		527: "Railgun Error",
		530: "Origin DNS Error",
	}
	return descriptions[statusCode]
}

// bearerValue normalizes a token to the "Bearer <token>" header form
func bearerValue(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

// retryLogger exposes the transport's Logger under retryablehttp's
// LeveledLogger interface.
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
