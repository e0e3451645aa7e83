package server

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/benpsk/item-service/internal/config"
	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/logging"
	"github.com/benpsk/item-service/internal/validation"
	webstatic "github.com/benpsk/item-service/static"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, store item.Store, catalog *validation.Catalog) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appOrigins(cfg.AppURL),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token", "HX-Request", "HX-Target", "HX-Current-URL"},
		ExposedHeaders:   []string{"Location", "HX-Redirect"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger)...)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	staticFS := webstatic.FileSystem()
	if _, err := os.Stat("static"); err == nil {
		staticFS = http.Dir("static")
	}

	if catalog == nil {
		catalog = mustDefaultCatalog()
	}
	h := newHandler(item.NewService(store, nil), store, catalog, strings.TrimSpace(cfg.AppName), strings.TrimSpace(cfg.AppURL))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFS)))
	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(csrfProtection)

		r.Get("/", h.home)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.listItems)
			r.Get("/add", h.addForm)
			r.With(formRateLimit(cfg.RateLimit)).Post("/add", h.addItem)
			r.Get("/{itemID}", h.showItem)
			r.Get("/{itemID}/edit", h.editForm)
			r.With(formRateLimit(cfg.RateLimit)).Post("/{itemID}/edit", h.editItem)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apiRateLimit(cfg.RateLimit))

		r.Get("/health", h.healthz)
		r.Get("/items", h.apiListItems)
		r.Post("/items", h.apiCreateItem)
		r.Get("/items/{itemID}", h.apiGetItem)
		r.Put("/items/{itemID}", h.apiUpdateItem)
	})

	return r
}

func mustDefaultCatalog() *validation.Catalog {
	catalog, err := validation.DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

func appOrigins(appURL string) []string {
	appURL = strings.TrimSpace(appURL)
	if appURL == "" {
		return nil
	}
	parsed, err := url.Parse(appURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil
	}
	return []string{parsed.Scheme + "://" + parsed.Host}
}
