package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jtracey93/spond-payment-reporting/pkg/spond"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *spond.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := spond.NewClient(&spond.ClientOptions{
		BaseURL:     srv.URL,
		BearerToken: "tok-1",
		ClubID:      "club-1",
	})
	require.NoError(t, err)
	return client
}

func TestGenerateReport_AuthFailureWritesNothing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))

	output := filepath.Join(t.TempDir(), "report.xlsx")

	code := generateReport(context.Background(), client, nil, output, nil, false)

	assert.Equal(t, 1, code)
	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err), "no workbook may be written after an auth failure")
}

func TestGenerateReport_WritesWorkbook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/club/v1/members", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"mem-1","firstName":"Alice","lastName":"Archer"}]`))
	})
	mux.HandleFunc("/club/v1/payments/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/club/v1/payments/" {
			w.Write([]byte(`[{"id":"pay-1","title":"Match Fee"}]`))
			return
		}
		w.Write([]byte(`{"id":"pay-1","title":"Match Fee","recipients":[{"id":"rec-1","memberId":"mem-1","status":"UNANSWERED","currency":"GBP","claims":[{"products":[{"price":1250}]}]}]}`))
	})

	client := newTestClient(t, mux)
	output := filepath.Join(t.TempDir(), "report.xlsx")

	code := generateReport(context.Background(), client, nil, output, nil, false)

	assert.Equal(t, 0, code)
	_, err := os.Stat(output)
	assert.NoError(t, err)
}

func TestGenerateReport_EmptyReportWritesNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/club/v1/members", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/club/v1/payments/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, mux)
	output := filepath.Join(t.TempDir(), "report.xlsx")

	code := generateReport(context.Background(), client, nil, output, nil, false)

	assert.Equal(t, 0, code)
	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}
