package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/validation"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestItemFormShowsErrorsAndEchoesInput(t *testing.T) {
	t.Parallel()

	catalog, err := validation.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	errs := validation.NewErrors(item.ObjectName)
	errs.AddBindingFailure("price", "int", "ten")
	errs.RejectValue("quantity", "int", 10000, validation.KindMax, item.CodeMax, []any{item.QuantityMax}, "")
	errs.Reject(validation.KindCrossFieldMin, item.CodeTotalPriceMin, []any{item.TotalPriceMin, int64(500)}, "")

	out := render(t, ItemFormPage(ItemFormPageModel{
		AppName:   "Items",
		Mode:      FormModeAdd,
		Values:    FormValues{ItemName: `<script>`, Price: "ten", Quantity: "10000"},
		Errors:    errs,
		Catalog:   catalog,
		CSRFToken: "tok",
	}))

	for _, want := range []string{
		`action="/items/add"`,
		`value="&lt;script&gt;"`,
		`value="ten"`,
		"Please enter a number.",
		"Quantity may be at most 9,999.",
		"Price * quantity must be at least 10,000. Current value = 500",
		`name="csrf_token" value="tok"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, `id="itemName-error"`) {
		t.Fatalf("itemName has no error and must not render one")
	}
}

func TestItemFormEditModeTargetsItem(t *testing.T) {
	t.Parallel()

	out := render(t, ItemFormPartial(ItemFormPageModel{
		Mode:   FormModeEdit,
		ItemID: 7,
		Values: FormValuesFromItem(item.Item{ID: 7, ItemName: "book", Price: 1000, Quantity: 10}),
	}))
	if !strings.Contains(out, `action="/items/7/edit"`) || !strings.Contains(out, `value="1000"`) {
		t.Fatalf("unexpected edit form: %s", out)
	}
	if strings.Contains(out, "<html") {
		t.Fatalf("partial must not render the layout")
	}
}

func TestItemsContentListsItems(t *testing.T) {
	t.Parallel()

	out := render(t, ItemsContent(ItemsPageModel{Items: []item.Item{
		{ID: 1, ItemName: "itemA", Price: 10000, Quantity: 10},
		{ID: 2, ItemName: "itemB", Price: 20000, Quantity: 20},
	}}))
	if !strings.Contains(out, `href="/items/1"`) || !strings.Contains(out, "itemB") {
		t.Fatalf("unexpected list: %s", out)
	}

	empty := render(t, ItemsContent(ItemsPageModel{}))
	if !strings.Contains(empty, "No items yet.") {
		t.Fatalf("expected empty state: %s", empty)
	}
}

func TestItemContentShowsSavedNotice(t *testing.T) {
	t.Parallel()

	out := render(t, ItemContent(ItemPageModel{Item: item.Item{ID: 3, ItemName: "pen"}, Saved: true}))
	if !strings.Contains(out, "Saved.") || !strings.Contains(out, `href="/items/3/edit"`) {
		t.Fatalf("unexpected detail: %s", out)
	}
}

func TestItemsPageRendersLayoutAndEscapesNames(t *testing.T) {
	t.Parallel()

	out := render(t, ItemsPage(ItemsPageModel{
		AppName: "Items",
		AppURL:  "http://127.0.0.1:8080",
		Items:   []item.Item{{ID: 5, ItemName: "<b>pen</b>", Price: 100, Quantity: 100}},
	}))
	for _, want := range []string{
		"<!doctype html>",
		`<link rel="canonical" href="http://127.0.0.1:8080/items">`,
		`<a href="/items/5">&lt;b&gt;pen&lt;/b&gt;</a>`,
		"<td>100</td>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<b>pen</b>") {
		t.Fatalf("item name rendered unescaped")
	}
}

func TestItemFormFieldErrorMarkup(t *testing.T) {
	t.Parallel()

	catalog, err := validation.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	errs := validation.NewErrors(item.ObjectName)
	errs.AddBindingFailure("price", "int", "ten")

	out := render(t, ItemFormContent(ItemFormPageModel{
		Mode:    FormModeEdit,
		ItemID:  9,
		Values:  FormValues{ItemName: "pen", Price: "ten", Quantity: "1"},
		Errors:  errs,
		Catalog: catalog,
	}))
	for _, want := range []string{
		`<div class="field has-error"><label for="price">Price</label> <input id="price" name="price" type="text" value="ten" aria-describedby="price-error"><p class="field-error" id="price-error">Please enter a number.</p></div>`,
		`<div class="field"><label for="itemName">Name</label> <input id="itemName" name="itemName" type="text" value="pen"></div>`,
		`<input id="id" type="text" value="9" readonly>`,
		`<a href="/items/9">Cancel</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNotFoundPageDefaultMessage(t *testing.T) {
	t.Parallel()

	out := render(t, NotFoundPage(NotFoundPageModel{AppName: "Items"}))
	if !strings.Contains(out, "<p>The page you requested does not exist.</p>") || !strings.Contains(out, "<title>Not found | Items</title>") {
		t.Fatalf("unexpected not found page: %s", out)
	}
}
