package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/validation"
)

// apiError is a validation error as the API reports it, with the resolved
// message next to the raw error data.
type apiError struct {
	validation.Error
	Message string `json:"message"`
}

type apiErrorsResponse struct {
	Error  string     `json:"error"`
	Errors []apiError `json:"errors"`
}

func (h handler) apiListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if items == nil {
		items = []item.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h handler) apiGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	it, err := h.items.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeErrorJSON(w, http.StatusNotFound, item.ErrNotFound.Error())
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h handler) apiCreateItem(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	sub, err := h.items.Create(r.Context(), form, nil)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.recordSubmission(r, "api_create", sub)

	if sub.Rejected() {
		h.writeValidationErrors(w, sub.Errors)
		return
	}
	w.Header().Set("Location", "/api/items/"+formatItemID(sub.Item.ID))
	writeJSON(w, http.StatusCreated, sub.Item)
}

func (h handler) apiUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	sub, err := h.items.Update(r.Context(), id, form, nil)
	if err != nil {
		if isNotFound(err) {
			writeErrorJSON(w, http.StatusNotFound, item.ErrNotFound.Error())
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.recordSubmission(r, "api_update", sub)

	if sub.Rejected() {
		h.writeValidationErrors(w, sub.Errors)
		return
	}
	writeJSON(w, http.StatusOK, sub.Item)
}

// decodeForm reads the JSON body. A body that cannot be decoded is answered
// here and never reaches validation.
func (h handler) decodeForm(w http.ResponseWriter, r *http.Request) (item.Form, bool) {
	var form item.Form
	if err := decodeJSONWithLimit(w, r, &form, h.bodyLimit); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			writeErrorJSON(w, http.StatusBadRequest, "request body is empty")
		case isRequestBodyTooLarge(err):
			writeErrorJSON(w, http.StatusRequestEntityTooLarge, "request body too large")
		default:
			writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		}
		return item.Form{}, false
	}
	return form, true
}

func (h handler) writeValidationErrors(w http.ResponseWriter, errs *validation.Errors) {
	all := errs.All()
	out := make([]apiError, 0, len(all))
	for _, e := range all {
		out = append(out, apiError{Error: e, Message: h.catalog.Message(e)})
	}
	writeJSON(w, http.StatusBadRequest, apiErrorsResponse{Error: "validation failed", Errors: out})
}
