package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jtracey93/spond-payment-reporting/internal/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(baseURL string, retry *types.RetryConfig) *RESTTransport {
	tr := NewRESTTransport(&Options{
		BaseURL:     baseURL,
		RetryConfig: retry,
	})
	tr.SetAuth("test-token")
	tr.SetClubID("club-123")
	return tr
}

func TestExecute_SetsRequiredHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, nil)

	var result struct {
		OK bool `json:"ok"`
	}
	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/members", nil, &result)

	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Bearer test-token", got.Get("authorization"))
	assert.Equal(t, "club-123", got.Get("x-spond-clubid"))
	assert.Equal(t, "application/json", got.Get("accept"))
	assert.Equal(t, types.APILevel, got.Get("api-level"))
	assert.NotEmpty(t, got.Get("x-spond-requestid"))
}

func TestExecute_KeepsExistingBearerPrefix(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("authorization")
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewRESTTransport(&Options{BaseURL: srv.URL})
	tr.SetAuth("Bearer already-prefixed")
	tr.SetClubID("club-123")

	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/members", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer already-prefixed", auth)
}

func TestExecute_MissingCredentials(t *testing.T) {
	tr := NewRESTTransport(&Options{BaseURL: "http://unused"})

	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/members", nil, nil)

	assert.ErrorIs(t, err, types.ErrCredentialsMissing)
}

func TestExecute_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, nil)

	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/payments/", nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "/club/v1/payments/", apiErr.Endpoint)
}

func TestExecute_ForbiddenAlsoMapsToNotAuthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, nil)

	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/members", nil, nil)

	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestExecute_RetriesOnceOnServerError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, &types.RetryConfig{
		MaxRetries: 1,
		RetryWait:  time.Millisecond,
		MaxWait:    5 * time.Millisecond,
	})

	var result []struct{}
	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/payments/", nil, &result)

	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestExecute_DoesNotRetryOnUnauthorized(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, &types.RetryConfig{
		MaxRetries: 1,
		RetryWait:  time.Millisecond,
		MaxWait:    5 * time.Millisecond,
	})

	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/members", nil, nil)

	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	assert.Equal(t, 1, hits)
}

func TestExecute_PersistentServerErrorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, &types.RetryConfig{
		MaxRetries: 1,
		RetryWait:  time.Millisecond,
		MaxWait:    5 * time.Millisecond,
	})

	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/payments/", nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrServerError)
	assert.Contains(t, err.Error(), "503")
}

func TestExecute_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"truncated":`))
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, nil)

	var result map[string]interface{}
	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/payments/pay-1", nil, &result)

	require.Error(t, err)
	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, types.CodeMalformedResponse, apiErr.Code)
	assert.Equal(t, "/club/v1/payments/pay-1", apiErr.Endpoint)
}

func TestExecute_UnexpectedContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.Write([]byte(`<html>login page</html>`))
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, nil)

	err := tr.Execute(context.Background(), http.MethodGet, "/club/v1/members", nil, nil)

	require.Error(t, err)
	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, types.CodeMalformedResponse, apiErr.Code)
}

func TestDownload_ReturnsRawBody(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("content-type", "text/csv")
		w.Write([]byte("name,amount\nA,10.00\n"))
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL, nil)

	data, err := tr.Download(context.Background(), http.MethodPost, "/club/v1/payments/pay-1/export", []string{"rcp-1", "rcp-2"})

	require.NoError(t, err)
	assert.Equal(t, "name,amount\nA,10.00\n", string(data))
	assert.JSONEq(t, `["rcp-1","rcp-2"]`, string(gotBody))
}
