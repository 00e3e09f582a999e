// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package researchmap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/pdiddy/researchmap-site/pkg/types"
)

func newTestClient(ts *httptest.Server) *Client {
	return &Client{HTTP: ts.Client(), BaseURL: ts.URL, UserAgent: "researchmap-site/test", Logger: zap.NewNop()}
}

func TestNewClient(t *testing.T) {
	c := NewClient(types.APIConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "ua"},
		BaseURL:    "https://example.test/",
		MaxRetries: 2,
	}, nil)
	assert.Equal(t, "https://example.test", c.BaseURL)
	assert.Equal(t, 5*time.Second, c.HTTP.Timeout)
	assert.Equal(t, "ua", c.UserAgent)
	assert.Equal(t, 2, c.MaxRetries)

	assert.Equal(t, types.DefaultBaseURL, NewClient(types.APIConfig{}, nil).BaseURL)
}

func TestExchangeToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth2/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "researchmap-site/test", r.Header.Get("User-Agent"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, GrantTypeJWTBearer, r.PostForm.Get("grant_type"))
		assert.Equal(t, "signed.jwt.value", r.PostForm.Get("assertion"))
		assert.Equal(t, "read public_only researchers", r.PostForm.Get("scope"))
		assert.Equal(t, "2", r.PostForm.Get("version"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok-123", "token_type": "bearer", "expires_in": 3600}`))
	}))
	defer ts.Close()

	tok, err := newTestClient(ts).ExchangeToken(context.Background(), "signed.jwt.value")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiry, time.Minute)
}

func TestExchangeTokenUnauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer ts.Close()

	tok, err := newTestClient(ts).ExchangeToken(context.Background(), "bad")
	require.Error(t, err)
	assert.Nil(t, tok)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "token exchange", se.Op)
	assert.Contains(t, se.Body, "invalid_client")
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestExchangeTokenMissingAccessToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"token_type": "bearer"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).ExchangeToken(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access_token")
}

func TestFetchResearcherAuthenticated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kenjikun", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"@graph": [], "zeta": 1, "alpha": 2}`))
	}))
	defer ts.Close()

	body, err := newTestClient(ts).FetchResearcher(context.Background(), "kenjikun", &oauth2.Token{AccessToken: "tok-123", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, `{"@graph": [], "zeta": 1, "alpha": 2}`, string(body), "raw bytes are returned untouched")
}

func TestFetchResearcherAnonymous(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"@graph": []}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).FetchResearcher(context.Background(), "kenjikun", nil)
	require.NoError(t, err)
}

func TestFetchResearcherErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"not found", http.StatusNotFound, "no such researcher", "HTTP 404"},
		{"server error", http.StatusInternalServerError, "", "HTTP 500"},
		{"invalid json", http.StatusOK, "<html>", "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newTestClient(ts).FetchResearcher(context.Background(), "kenjikun", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFetchResearcherSingleAttemptByDefault(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).FetchResearcher(context.Background(), "kenjikun", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	err := &StatusError{Op: "researcher fetch", StatusCode: 502, Body: string(long)}
	assert.Len(t, err.Error(), len("researchmap researcher fetch: HTTP 502: ")+203)
}
