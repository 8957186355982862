package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestGetLimiterReturnsSameLimiterPerIP(t *testing.T) {
	l := NewIPRateLimiter(1, 5)

	a := l.GetLimiter("192.0.2.1")
	b := l.GetLimiter("192.0.2.1")
	if a != b {
		t.Error("same IP should share one limiter")
	}

	c := l.GetLimiter("192.0.2.2")
	if a == c {
		t.Error("different IPs should get distinct limiters")
	}
}

func TestLimiterExhaustsBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)
	limiter := l.GetLimiter("192.0.2.1")

	if !limiter.Allow() || !limiter.Allow() {
		t.Fatal("burst tokens should be available")
	}
	if limiter.Allow() {
		t.Error("third request should be denied until the bucket refills")
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 1)

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = "192.0.2.1:50000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", code)
	}
}

func TestMiddlewareTracksIPsIndependently(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 1)

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	do("192.0.2.1:50000")
	if code := do("192.0.2.2:50000"); code != http.StatusOK {
		t.Errorf("fresh IP status = %d, want 200", code)
	}
}

func TestClientIP(t *testing.T) {
	cases := map[string]string{
		"192.0.2.1:50000": "192.0.2.1",
		"192.0.2.1":       "192.0.2.1",
		"":                "unknown_ip",
	}
	for addr, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if got := ClientIP(req); got != want {
			t.Errorf("ClientIP(%q) = %q, want %q", addr, got, want)
		}
	}
}
