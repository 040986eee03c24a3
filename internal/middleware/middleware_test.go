package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp := httptest.NewRecorder()
	CORS()(okHandler).ServeHTTP(resp, req)

	assert.GreaterOrEqual(t, resp.Code, 200)
	assert.Less(t, resp.Code, 300)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "300", resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORSPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	resp := httptest.NewRecorder()
	CORS()(okHandler).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSSkipsSameOriginRequests(t *testing.T) {
	resp := httptest.NewRecorder()
	CORS()(okHandler).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/languages", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterPerClient(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(time.Hour)
	rl.Allow("b")

	assert.Len(t, rl.clients, 1)
}

func TestRateLimiterMiddlewareRejects(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Middleware(okHandler)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/session", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/session", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}
