package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow(string) bool {
	return s.allow
}

func TestRateLimitMiddlewareBlocksWhenLimiterDenies(t *testing.T) {
	middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler should not execute when rate limited")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on rate limited response")
	}
}

func TestRateLimitMiddlewarePassesWhenLimiterAllows(t *testing.T) {
	var called bool
	middleware := rateLimitMiddleware(&staticLimiter{allow: true}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to execute when limiter allows")
	}
}

func TestNewTokenBucketLimiterUsesDefaults(t *testing.T) {
	limiter := newTokenBucketLimiter(0, 0)
	if limiter == nil {
		t.Fatalf("expected limiter instance")
	}
	if !limiter.Allow("192.0.2.1") {
		t.Fatalf("expected first request to be allowed")
	}
	if got := limiter.retryAfter(); got != 1 {
		t.Fatalf("expected retry after 1s, got %d", got)
	}
}

func TestClientLimiterKeepsSeparateBuckets(t *testing.T) {
	limiter := newTokenBucketLimiter(1, 1)
	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	if !limiter.Allow("192.0.2.1") {
		t.Fatalf("expected first request from client A to pass")
	}
	if limiter.Allow("192.0.2.1") {
		t.Fatalf("expected second request from client A to be limited")
	}
	if !limiter.Allow("192.0.2.2") {
		t.Fatalf("expected client B to have its own bucket")
	}

	now = now.Add(time.Second)
	if !limiter.Allow("192.0.2.1") {
		t.Fatalf("expected client A to be allowed after refill")
	}
}

func TestClientLimiterSweepsIdleClients(t *testing.T) {
	limiter := newTokenBucketLimiter(1, 1)
	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("192.0.2.1")
	limiter.Allow("192.0.2.2")
	if got := limiter.trackedClients(); got != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", got)
	}

	now = now.Add(clientIdleTTL)
	limiter.Allow("192.0.2.3")
	if got := limiter.trackedClients(); got != 1 {
		t.Fatalf("expected idle clients to be swept, got %d tracked", got)
	}
}

func TestRateLimitMiddlewareRetryAfterFollowsRate(t *testing.T) {
	limiter := newTokenBucketLimiter(0.2, 1)
	middleware := rateLimitMiddleware(limiter, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i, want := range []int{http.StatusNoContent, http.StatusTooManyRequests} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:4321"
		middleware.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rec.Code)
		}
		if want == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "5" {
			t.Fatalf("expected Retry-After 5, got %q", rec.Header().Get("Retry-After"))
		}
	}
}

func TestClientKeyUsesRemoteHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	if got := clientKey(req); got != "203.0.113.9" {
		t.Fatalf("expected remote host, got %q", got)
	}

	req.RemoteAddr = "pipe"
	if got := clientKey(req); got != "pipe" {
		t.Fatalf("expected raw remote address fallback, got %q", got)
	}
}
