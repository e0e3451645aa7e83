package server

import (
	"net/url"
	"testing"
)

func TestBindItemForm(t *testing.T) {
	t.Parallel()

	form, raw, errs := bindItemForm(url.Values{
		"itemName": {"itemA"},
		"price":    {" 10000 "},
		"quantity": {""},
	})
	if errs.HasErrors() {
		t.Fatalf("unexpected binding errors: %v", errs)
	}
	if form.ItemName != "itemA" || form.Price == nil || *form.Price != 10000 {
		t.Fatalf("unexpected form: %+v", form)
	}
	if form.Quantity != nil {
		t.Fatalf("blank quantity must bind to nil")
	}
	if raw.Price != " 10000 " {
		t.Fatalf("raw price = %q", raw.Price)
	}
}

func TestBindItemFormTypeMismatch(t *testing.T) {
	t.Parallel()

	form, raw, errs := bindItemForm(url.Values{
		"itemName": {"itemA"},
		"price":    {"ten"},
		"quantity": {"1.5"},
	})
	if form.Price != nil || form.Quantity != nil {
		t.Fatalf("unbindable numbers must stay nil: %+v", form)
	}
	if errs.Len() != 2 {
		t.Fatalf("got %d errors, want 2", errs.Len())
	}
	fe, ok := errs.FieldError("price")
	if !ok || !fe.BindingFailure || fe.Code != "typeMismatch" || fe.RejectedValue != "ten" {
		t.Fatalf("unexpected price error: %+v", fe)
	}
	if fe.Codes[2] != "typeMismatch.int" {
		t.Fatalf("codes = %v", fe.Codes)
	}
	if raw.Quantity != "1.5" {
		t.Fatalf("raw quantity = %q", raw.Quantity)
	}
}
