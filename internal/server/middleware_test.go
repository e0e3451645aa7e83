package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benpsk/item-service/internal/config"
	"github.com/benpsk/item-service/internal/item"
	"github.com/rs/zerolog"
)

func TestFormRateLimitBlocksAfterLimit(t *testing.T) {
	t.Parallel()

	hitCount := 0
	handler := formRateLimit(config.RateLimitConfig{FormRequests: 2, FormWindow: time.Minute})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitCount++
		w.WriteHeader(http.StatusNoContent)
	}))

	req := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/items/add", nil)
		r.RemoteAddr = "203.0.113.5:54321"
		handler.ServeHTTP(rec, r)
		return rec
	}

	if got := req().Code; got != http.StatusNoContent {
		t.Fatalf("first request status = %d, want %d", got, http.StatusNoContent)
	}
	if got := req().Code; got != http.StatusNoContent {
		t.Fatalf("second request status = %d, want %d", got, http.StatusNoContent)
	}

	third := req()
	if third.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want %d", third.Code, http.StatusTooManyRequests)
	}
	if got := third.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After = %q, want 60", got)
	}
	if got := strings.TrimSpace(third.Body.String()); got != "rate limit exceeded" {
		t.Fatalf("throttled body = %q", got)
	}
	if hitCount != 2 {
		t.Fatalf("handler hit count = %d, want 2", hitCount)
	}
}

func TestFormRateLimitKeysByClientIP(t *testing.T) {
	t.Parallel()

	handler := formRateLimit(config.RateLimitConfig{FormRequests: 1, FormWindow: time.Minute})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	makeReq := func(remoteAddr string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/items/1/edit", nil)
		r.RemoteAddr = remoteAddr
		handler.ServeHTTP(rec, r)
		return rec
	}

	if got := makeReq("198.51.100.10:1000").Code; got != http.StatusNoContent {
		t.Fatalf("first ip status = %d, want %d", got, http.StatusNoContent)
	}
	if got := makeReq("198.51.100.10:1001").Code; got != http.StatusTooManyRequests {
		t.Fatalf("same ip second request status = %d, want %d", got, http.StatusTooManyRequests)
	}
	if got := makeReq("198.51.100.11:1002").Code; got != http.StatusNoContent {
		t.Fatalf("different ip status = %d, want %d", got, http.StatusNoContent)
	}
}

func TestAPIRateLimitResponseIsJSON(t *testing.T) {
	t.Parallel()

	handler := apiRateLimit(config.RateLimitConfig{APIRequests: 1, APIWindow: time.Minute})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		last = httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/items", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		handler.ServeHTTP(last, r)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}
	if ct := last.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q, want application/json", ct)
	}
	if !strings.Contains(last.Body.String(), `"error":"rate limit exceeded"`) {
		t.Fatalf("body = %s", last.Body.String())
	}
}

func TestLimitOrDefault(t *testing.T) {
	t.Parallel()

	requests, window := limitOrDefault(0, 0, defaultSubmissionRateLimitRequests, defaultSubmissionRateLimitWindow)
	if requests != defaultSubmissionRateLimitRequests || window != defaultSubmissionRateLimitWindow {
		t.Fatalf("defaults = %d/%s", requests, window)
	}
	requests, window = limitOrDefault(5, time.Second, defaultAPIRateLimitRequests, defaultAPIRateLimitWindow)
	if requests != 5 || window != time.Second {
		t.Fatalf("explicit = %d/%s", requests, window)
	}
}

func TestRouterThrottlesEachFormRouteSeparately(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimit.FormRequests = 1
	router := NewRouter(cfg, zerolog.Nop(), item.NewMemoryStore(), nil)

	if rec := postForm(t, router, "/items/add", itemValues("itemA", "10000", "10")); rec.Code == http.StatusTooManyRequests {
		t.Fatalf("first add was throttled")
	}
	if rec := postForm(t, router, "/items/add", itemValues("itemB", "10000", "10")); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second add status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec := postForm(t, router, "/items/1/edit", itemValues("itemC", "10000", "10")); rec.Code == http.StatusTooManyRequests {
		t.Fatalf("edit shares the add route budget")
	}
}
