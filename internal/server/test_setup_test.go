package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/benpsk/item-service/internal/config"
	"github.com/benpsk/item-service/internal/item"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func testConfig() config.Config {
	return config.Config{
		AppName: "Items",
		AppURL:  "http://127.0.0.1:8080",
		RateLimit: config.RateLimitConfig{
			FormRequests: 1000,
			FormWindow:   time.Minute,
			APIRequests:  1000,
			APIWindow:    time.Minute,
		},
	}
}

func newTestRouter(t *testing.T) (*chi.Mux, *item.MemoryStore) {
	t.Helper()
	store := item.NewMemoryStore()
	return NewRouter(testConfig(), zerolog.Nop(), store, nil), store
}

func serve(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

// csrfCookie fetches a page so the router issues a token cookie.
func csrfCookie(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/items/add", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			return c
		}
	}
	t.Fatalf("no csrf cookie issued")
	return nil
}

func postForm(t *testing.T, router http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	cookie := csrfCookie(t, router)
	values.Set("csrf_token", cookie.Value)

	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(cookie)
	return serve(router, r)
}

func itemValues(name, price, quantity string) url.Values {
	return url.Values{"itemName": {name}, "price": {price}, "quantity": {quantity}}
}
