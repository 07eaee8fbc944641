package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mduret/dvdtheque-api/internal/api/middleware"
	"github.com/mduret/dvdtheque-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertJSONError(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()

	assert.Equal(t, status, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload), "body: %s", body)

	found := false
	for _, v := range payload {
		if v == message {
			found = true
		}
	}
	assert.True(t, found, "expected message %q in %s", message, body)
}

func TestRateLimit_SixthRequestRejected(t *testing.T) {
	limiter := ratelimit.NewWindow(15*time.Minute, 5)

	// The inner handler stands in for login: it always answers 401, so the
	// test can tell "evaluated but refused" apart from "rate limited".
	handler := middleware.RateLimit(limiter,
		map[string]string{"message": "Trop de tentatives de connexion, reessayez dans 15 minutes"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

	server := httptest.NewServer(handler)
	defer server.Close()

	for i := 0; i < 5; i++ {
		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "request %d should reach the handler", i+1)
	}

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assertJSONError(t, resp, http.StatusTooManyRequests, "Trop de tentatives de connexion, reessayez dans 15 minutes")
}

func TestRateLimit_PayloadSentVerbatim(t *testing.T) {
	limiter := ratelimit.NewWindow(15*time.Minute, 1)

	handler := middleware.RateLimit(limiter,
		map[string]string{"error": "Trop de requetes, reessayez plus tard"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	server := httptest.NewServer(handler)
	defer server.Close()

	first, err := http.Get(server.URL)
	require.NoError(t, err)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, map[string]string{"error": "Trop de requetes, reessayez plus tard"}, payload)
}

func TestRateLimit_KeyedByForwardedFor(t *testing.T) {
	limiter := ratelimit.NewWindow(15*time.Minute, 1)

	handler := middleware.RateLimit(limiter,
		map[string]string{"error": "Trop de requetes, reessayez plus tard"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	server := httptest.NewServer(handler)
	defer server.Close()

	get := func(ip string) int {
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", ip)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1"))
	// A different client IP has its own budget.
	assert.Equal(t, http.StatusOK, get("10.0.0.2"))
}
