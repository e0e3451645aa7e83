package server

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/benpsk/item-service/internal/config"
	"github.com/go-chi/httprate"
)

const csrfCookieName = "csrf_token"

const (
	defaultSubmissionRateLimitRequests = 30
	defaultSubmissionRateLimitWindow   = time.Minute
	defaultAPIRateLimitRequests        = 100
	defaultAPIRateLimitWindow          = time.Minute
)

type csrfTokenKey struct{}

// formRateLimit throttles one form submission route per client IP. Each call
// returns a limiter with its own counters.
func formRateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	requests, window := limitOrDefault(cfg.FormRequests, cfg.FormWindow, defaultSubmissionRateLimitRequests, defaultSubmissionRateLimitWindow)
	return rateLimitByIP(requests, window)
}

func apiRateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	requests, window := limitOrDefault(cfg.APIRequests, cfg.APIWindow, defaultAPIRateLimitRequests, defaultAPIRateLimitWindow)
	return rateLimitByIP(requests, window)
}

func rateLimitByIP(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

func limitOrDefault(requests int, window time.Duration, defaultRequests int, defaultWindow time.Duration) (int, time.Duration) {
	if requests <= 0 {
		requests = defaultRequests
	}
	if window <= 0 {
		window = defaultWindow
	}
	return requests, window
}

// rateLimited runs after httprate has set Retry-After and the X-RateLimit
// headers.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeErrorJSON(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		next.ServeHTTP(w, r)
	})
}

func csrfProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		token := ensureCSRFCookie(w, r)
		r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		cookieToken := currentCSRFCookie(r)
		headerToken := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
		candidate := headerToken
		if candidate == "" {
			limitRequestBody(w, r, defaultRequestBodyLimitBytes)
			candidate = strings.TrimSpace(r.FormValue("csrf_token"))
		}
		if !csrfTokensEqual(cookieToken, candidate) {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isSafeMethod(method string) bool {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) string {
	if token := currentCSRFCookie(r); token != "" {
		return token
	}

	token, err := newCSRFToken()
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // JS reads this to set htmx header and hidden form fields.
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return token
}

// csrfToken returns the token the form on this response must echo back.
func csrfToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return currentCSRFCookie(r)
}

func currentCSRFCookie(r *http.Request) string {
	c, err := r.Cookie(csrfCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

func newCSRFToken() (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

func csrfTokensEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
