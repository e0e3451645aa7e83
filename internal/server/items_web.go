package server

import (
	"net/http"

	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/validation"
	"github.com/benpsk/item-service/internal/web/pages"
)

func (h handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	model := pages.ItemsPageModel{AppName: h.appName, AppURL: h.appURL, Items: items}
	h.render(w, r, http.StatusOK, pages.ItemsPage(model), pages.ItemsPartial(model))
}

func (h handler) showItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	it, err := h.items.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.notFound(w, r, "Item "+formatItemID(id)+" does not exist.")
			return
		}
		h.serverError(w, r, err)
		return
	}
	model := pages.ItemPageModel{
		AppName: h.appName,
		AppURL:  h.appURL,
		Item:    it,
		Saved:   r.URL.Query().Get("status") == "true",
	}
	h.render(w, r, http.StatusOK, pages.ItemPage(model), pages.ItemPartial(model))
}

func (h handler) addForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, pages.ItemFormPageModel{Mode: pages.FormModeAdd})
}

func (h handler) addItem(w http.ResponseWriter, r *http.Request) {
	if err := parseFormWithLimit(w, r, h.bodyLimit); err != nil {
		h.bodyError(w, r, err)
		return
	}
	form, raw, errs := bindItemForm(r.PostForm)

	sub, err := h.items.Create(r.Context(), form, errs)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.recordSubmission(r, "items_add", sub)

	if sub.Rejected() {
		h.renderForm(w, r, pages.ItemFormPageModel{Mode: pages.FormModeAdd, Values: raw, Errors: sub.Errors})
		return
	}
	h.redirect(w, r, itemPath(sub.Item.ID)+"?status=true")
}

func (h handler) editForm(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	it, err := h.items.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.notFound(w, r, "Item "+formatItemID(id)+" does not exist.")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.renderForm(w, r, pages.ItemFormPageModel{
		Mode:   pages.FormModeEdit,
		ItemID: id,
		Values: pages.FormValuesFromItem(it),
	})
}

func (h handler) editItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := parseFormWithLimit(w, r, h.bodyLimit); err != nil {
		h.bodyError(w, r, err)
		return
	}
	form, raw, errs := bindItemForm(r.PostForm)

	sub, err := h.items.Update(r.Context(), id, form, errs)
	if err != nil {
		if isNotFound(err) {
			h.notFound(w, r, "Item "+formatItemID(id)+" does not exist.")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.recordSubmission(r, "items_edit", sub)

	if sub.Rejected() {
		h.renderForm(w, r, pages.ItemFormPageModel{
			Mode:   pages.FormModeEdit,
			ItemID: id,
			Values: raw,
			Errors: sub.Errors,
		})
		return
	}
	h.redirect(w, r, itemPath(id))
}

// renderForm fills the shared page fields and writes the add or edit form.
// A form with errors is still a 200 so browsers and htmx swap it in.
func (h handler) renderForm(w http.ResponseWriter, r *http.Request, model pages.ItemFormPageModel) {
	model.AppName = h.appName
	model.AppURL = h.appURL
	model.Catalog = h.catalog
	model.CSRFToken = csrfToken(r)
	if model.Errors == nil {
		model.Errors = validation.NewErrors(item.ObjectName)
	}
	h.render(w, r, http.StatusOK, pages.ItemFormPage(model), pages.ItemFormPartial(model))
}

// redirect sends htmx clients to target with HX-Redirect and everyone else
// with a 303 so the browser follows it with a GET.
func (h handler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHtmx(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
