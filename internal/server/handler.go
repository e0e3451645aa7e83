package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/logging"
	"github.com/benpsk/item-service/internal/validation"
	"github.com/benpsk/item-service/internal/web/pages"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handler struct {
	items     *item.Service
	store     item.Store
	catalog   *validation.Catalog
	appName   string
	appURL    string
	bodyLimit int64
}

func newHandler(items *item.Service, store item.Store, catalog *validation.Catalog, appName, appURL string) handler {
	return handler{
		items:     items,
		store:     store,
		catalog:   catalog,
		appName:   appName,
		appURL:    appURL,
		bodyLimit: defaultRequestBodyLimitBytes,
	}
}

func (h handler) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/items", http.StatusFound)
}

func (h handler) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	payload := map[string]any{"status": "ok", "store": "up"}
	status := http.StatusOK

	if p, ok := h.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			payload["status"] = "degraded"
			payload["store"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, payload)
}

func isHtmx(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render writes the partial for htmx requests and the full page otherwise.
func (h handler) render(w http.ResponseWriter, r *http.Request, status int, full, partial templ.Component) {
	component := full
	if isHtmx(r) && partial != nil {
		component = partial
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		logging.FromRequest(r).Error().Err(err).Msg("render page")
	}
}

func (h handler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	h.render(w, r, http.StatusNotFound, pages.NotFoundPage(pages.NotFoundPageModel{
		AppName: h.appName,
		AppURL:  h.appURL,
		Message: message,
	}), nil)
}

func (h handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromRequest(r).Error().Err(err).Msg("request failed")
	if isAPIRequest(r) {
		writeErrorJSON(w, http.StatusInternalServerError, "internal server error")
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// bodyError answers a request whose body could not be read or parsed.
func (h handler) bodyError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	message := "invalid request body"
	if isRequestBodyTooLarge(err) {
		status = http.StatusRequestEntityTooLarge
		message = "request body too large"
	}
	if isAPIRequest(r) {
		writeErrorJSON(w, status, message)
		return
	}
	http.Error(w, message, status)
}

// recordSubmission logs and counts the terminal state of an add or edit.
func (h handler) recordSubmission(r *http.Request, route string, sub item.Submission) {
	itemSubmissionsTotal.WithLabelValues(route, string(sub.State)).Inc()

	logger := logging.FromRequest(r)
	if !sub.Rejected() {
		logger.Info().Str("route", route).Int64("item_id", sub.Item.ID).Msg("item persisted")
		return
	}
	for _, e := range sub.Errors.All() {
		field := e.Field
		if field == "" {
			field = "_object"
		}
		itemValidationErrorsTotal.WithLabelValues(field, e.Code).Inc()
	}
	logger.Info().Str("route", route).Str("errors", sub.Errors.Error()).Msg("item submission rejected")
}

func isNotFound(err error) bool {
	return errors.Is(err, item.ErrNotFound)
}
