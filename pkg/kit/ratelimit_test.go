package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatalf("first two hits must pass")
	}
	if l.Allow("10.0.0.1") {
		t.Fatalf("third hit inside window must be limited")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatalf("other ip must not be limited")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("10.0.0.1") {
		t.Fatalf("hit after window must pass")
	}
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", "192.0.2.7, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d", rec.Code)
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("retry-after=%q", rec.Header().Get("Retry-After"))
	}
}

func TestMetricsAuth(t *testing.T) {
	h := MetricsAuth("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := map[string]int{
		"":              http.StatusForbidden,
		"Bearer nope":   http.StatusForbidden,
		"s3cret":        http.StatusForbidden,
		"Bearer s3cret": http.StatusOK,
	}
	for authz, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("authz=%q status=%d want=%d", authz, rec.Code, want)
		}
	}
}
