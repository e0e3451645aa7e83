package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/validation"
	"github.com/benpsk/item-service/internal/web/pages"
)

// bindItemForm converts submitted form values into an item form. Values that
// are not integers are recorded as binding failures and left nil; blank
// numbers are simply absent. The raw values are returned for re-display.
func bindItemForm(values url.Values) (item.Form, pages.FormValues, *validation.Errors) {
	raw := pages.FormValues{
		ItemName: values.Get("itemName"),
		Price:    values.Get("price"),
		Quantity: values.Get("quantity"),
	}
	errs := validation.NewErrors(item.ObjectName)

	form := item.Form{
		ItemName: raw.ItemName,
		Price:    bindInt(errs, "price", raw.Price),
		Quantity: bindInt(errs, "quantity", raw.Quantity),
	}
	return form, raw, errs
}

func bindInt(errs *validation.Errors, field, raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		errs.AddBindingFailure(field, "int", raw)
		return nil
	}
	return &n
}
