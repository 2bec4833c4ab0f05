package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jtracey93/spond-payment-reporting/internal/types"
	"github.com/pkg/errors"
)

const (
	loginEndpoint   = "/auth/login"
	profileEndpoint = "/user/profile"
	clubsEndpoint   = "/clubs"
)

// Service turns a Spond login into a bearer token and club list. It drives
// the endpoints the club web app uses, which are not a published API, so
// callers should treat failures here as recoverable: the manual token flow
// still works.
type Service struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	token      string
	logger     types.Logger
}

// NewService creates a new auth service
func NewService(baseURL string, httpClient *http.Client, logger types.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: types.DefaultTimeout}
	}

	headers := map[string]string{
		"accept":       "application/json",
		"content-type": "application/json",
		"api-level":    types.APILevel,
		"origin":       types.WebOrigin,
		"referer":      types.WebOrigin + "/",
		"user-agent":   types.UserAgent,
	}

	return &Service{
		baseURL:    baseURL,
		httpClient: httpClient,
		headers:    headers,
		logger:     logger,
	}
}

// loginResponse covers the token field names the login endpoint has been
// seen to use
type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	BearerToken string `json:"bearerToken"`
}

func (r *loginResponse) token() string {
	switch {
	case r.Token != "":
		return r.Token
	case r.AccessToken != "":
		return r.AccessToken
	default:
		return r.BearerToken
	}
}

// Login authenticates with email and password and returns a bearer token.
// The token is also retained for subsequent Clubs calls.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	reqBody := map[string]string{
		"email":    email,
		"password": password,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create login request")
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	if s.logger != nil {
		s.logger.Debug("Login request", "email", email)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "login request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read login response")
	}

	if s.logger != nil {
		s.logger.Debug("Login response", "status", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", errors.Wrap(types.ErrNotAuthenticated, "invalid email or password")
	case http.StatusNotFound:
		return "", errors.New("login endpoint not found, the Spond authentication API may have changed")
	default:
		return "", &types.Error{
			Code:       types.CodeHTTPError,
			Message:    fmt.Sprintf("login failed: HTTP %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Endpoint:   loginEndpoint,
			Body:       string(respBody),
		}
	}

	var loginResp loginResponse
	if err := json.Unmarshal(respBody, &loginResp); err != nil {
		return "", errors.Wrap(err, "failed to parse login response")
	}

	token := loginResp.token()
	if token == "" {
		return "", errors.New("login succeeded but no token found in response")
	}

	s.token = token

	if s.logger != nil {
		s.logger.Info("Logged in", "email", email)
	}

	return token, nil
}

// Clubs returns the clubs the logged-in user can access. The user profile
// is tried first; accounts whose profile carries no club list fall back to
// the clubs endpoint.
func (s *Service) Clubs(ctx context.Context) ([]*types.Club, error) {
	if s.token == "" {
		return nil, types.ErrNotAuthenticated
	}

	var profile struct {
		Clubs []*types.Club `json:"clubs"`
	}
	if err := s.get(ctx, profileEndpoint, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to fetch user profile")
	}
	if len(profile.Clubs) > 0 {
		return profile.Clubs, nil
	}

	var clubs []*types.Club
	if err := s.get(ctx, clubsEndpoint, &clubs); err != nil {
		return nil, errors.Wrap(err, "failed to fetch clubs")
	}
	return clubs, nil
}

// get performs an authenticated GET and decodes the JSON response
func (s *Service) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return types.ErrNotAuthenticated
	case resp.StatusCode == http.StatusNotFound:
		return errors.Errorf("%s not found, the Spond authentication API may have changed", path)
	case resp.StatusCode != http.StatusOK:
		return &types.Error{
			Code:       types.CodeHTTPError,
			Message:    fmt.Sprintf("HTTP error: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Body:       string(respBody),
		}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &types.Error{
			Code:     types.CodeMalformedResponse,
			Message:  "failed to decode response",
			Endpoint: path,
			Err:      err,
		}
	}
	return nil
}
