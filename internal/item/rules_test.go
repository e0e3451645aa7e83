package item

import (
	"math"
	"testing"

	"github.com/benpsk/item-service/internal/validation"
)

func intPtr(v int) *int { return &v }

func validate(t *testing.T, form Form) *validation.Errors {
	t.Helper()
	errs := validation.NewErrors(ObjectName)
	NewValidator().Validate(&form, errs)
	return errs
}

func TestValidatorAcceptsValidItem(t *testing.T) {
	t.Parallel()

	errs := validate(t, Form{ItemName: "book", Price: intPtr(10000), Quantity: intPtr(2)})
	if errs.HasErrors() {
		t.Fatalf("expected valid item, got %v", errs)
	}
}

func TestValidatorItemNameRequired(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", " ", "\t\n "} {
		errs := validate(t, Form{ItemName: name, Price: intPtr(10000), Quantity: intPtr(1)})
		fe, ok := errs.FieldError("itemName")
		if !ok {
			t.Fatalf("itemName %q: expected error, got %v", name, errs)
		}
		if fe.Kind != validation.KindRequired || fe.Code != CodeRequired {
			t.Fatalf("itemName %q: unexpected error %+v", name, fe)
		}
		if fe.Codes[0] != "required.item.itemName" || fe.Codes[2] != "required.string" {
			t.Fatalf("unexpected codes: %v", fe.Codes)
		}
	}
}

func TestValidatorPriceRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price *int
		valid bool
	}{
		{price: nil, valid: false},
		{price: intPtr(0), valid: false},
		{price: intPtr(999), valid: false},
		{price: intPtr(1000), valid: true},
		{price: intPtr(1000000), valid: true},
		{price: intPtr(1000001), valid: false},
	}

	for _, tt := range tests {
		errs := validate(t, Form{ItemName: "book", Price: tt.price, Quantity: intPtr(9999)})
		fe, failed := errs.FieldError("price")
		if failed == tt.valid {
			t.Fatalf("price %v: valid=%v, errors=%v", deref(tt.price), tt.valid, errs)
		}
		if failed {
			if fe.Kind != validation.KindRange || fe.Code != CodeRange {
				t.Fatalf("price %v: unexpected error %+v", deref(tt.price), fe)
			}
			if len(fe.Args) != 2 || fe.Args[0] != PriceMin || fe.Args[1] != PriceMax {
				t.Fatalf("price %v: unexpected args %v", deref(tt.price), fe.Args)
			}
		}
	}
}

func TestValidatorQuantityBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quantity *int
		valid    bool
	}{
		{quantity: nil, valid: false},
		{quantity: intPtr(1), valid: true},
		{quantity: intPtr(9998), valid: true},
		{quantity: intPtr(9999), valid: true},
		{quantity: intPtr(10000), valid: false},
	}

	for _, tt := range tests {
		errs := validate(t, Form{ItemName: "book", Price: intPtr(100000), Quantity: tt.quantity})
		fe, failed := errs.FieldError("quantity")
		if failed == tt.valid {
			t.Fatalf("quantity %v: valid=%v, errors=%v", deref(tt.quantity), tt.valid, errs)
		}
		if failed && (fe.Kind != validation.KindMax || fe.Args[0] != QuantityMax) {
			t.Fatalf("quantity %v: unexpected error %+v", deref(tt.quantity), fe)
		}
	}
}

func TestValidatorTotalPriceMin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    int
		quantity int
		wantErr  bool
	}{
		{name: "below threshold", price: 1000, quantity: 9, wantErr: true},
		{name: "exactly threshold", price: 1000, quantity: 10, wantErr: false},
		{name: "above threshold", price: 10000, quantity: 2, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, Form{ItemName: "book", Price: intPtr(tt.price), Quantity: intPtr(tt.quantity)})
			globals := errs.GlobalErrors()
			if (len(globals) > 0) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, errs)
			}
			if !tt.wantErr {
				return
			}
			ge := globals[0]
			product := int64(tt.price) * int64(tt.quantity)
			if ge.Kind != validation.KindCrossFieldMin || ge.Code != CodeTotalPriceMin {
				t.Fatalf("unexpected global error: %+v", ge)
			}
			if ge.Args[0] != TotalPriceMin || ge.Args[1] != product {
				t.Fatalf("unexpected args: %v", ge.Args)
			}
		})
	}
}

func TestValidatorTotalPriceOverflow(t *testing.T) {
	t.Parallel()

	errs := validate(t, Form{ItemName: "book", Price: intPtr(math.MaxInt), Quantity: intPtr(4)})
	if len(errs.GlobalErrors()) != 0 {
		t.Fatalf("an overflowing positive product is above the minimum: %v", errs)
	}

	errs = validate(t, Form{ItemName: "book", Price: intPtr(math.MinInt), Quantity: intPtr(math.MaxInt)})
	globals := errs.GlobalErrors()
	if len(globals) != 1 || globals[0].Code != CodeTotalPriceMin {
		t.Fatalf("an overflowing negative product is below the minimum: %v", errs)
	}
	if total, ok := globals[0].Args[1].(int64); !ok || total >= 0 {
		t.Fatalf("unexpected reported product: %v", globals[0].Args)
	}
}

func TestMulClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b int64
		want int64
	}{
		{a: 1000, b: 10, want: 10000},
		{a: 0, b: math.MaxInt64, want: 0},
		{a: -3, b: 4, want: -12},
		{a: 1 << 62, b: 4, want: math.MaxInt64},
		{a: -(1 << 62), b: 4, want: math.MinInt64},
		{a: math.MinInt64, b: -1, want: math.MaxInt64},
		{a: -1, b: math.MinInt64, want: math.MaxInt64},
		{a: math.MinInt64, b: 1, want: math.MinInt64},
	}
	for _, tt := range tests {
		if got := mulClamped(tt.a, tt.b); got != tt.want {
			t.Fatalf("mulClamped(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValidatorTotalPriceSkippedWhenAbsent(t *testing.T) {
	t.Parallel()

	errs := validate(t, Form{ItemName: "book", Price: intPtr(1)})
	if len(errs.GlobalErrors()) != 0 {
		t.Fatalf("cross-field rule must not run without quantity: %v", errs)
	}
}

func TestValidatorBlankZeroOverflowReportsFourErrors(t *testing.T) {
	t.Parallel()

	errs := validate(t, Form{ItemName: " ", Price: intPtr(0), Quantity: intPtr(10000)})

	all := errs.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(all), errs)
	}
	wantKinds := []validation.Kind{
		validation.KindRequired,
		validation.KindRange,
		validation.KindMax,
		validation.KindCrossFieldMin,
	}
	for i, kind := range wantKinds {
		if all[i].Kind != kind {
			t.Fatalf("error %d kind = %s, want %s", i, all[i].Kind, kind)
		}
	}
	if all[3].Args[1] != int64(0) {
		t.Fatalf("expected product 0, got %v", all[3].Args[1])
	}
}

func TestValidatorIgnoresFieldsWithBindingFailure(t *testing.T) {
	t.Parallel()

	errs := validation.NewErrors(ObjectName)
	errs.AddBindingFailure("price", "int", "ten")
	NewValidator().Validate(&Form{ItemName: "book", Quantity: intPtr(10)}, errs)

	priceErrs := errs.FieldErrors("price")
	if len(priceErrs) != 1 || !priceErrs[0].BindingFailure {
		t.Fatalf("expected only the binding failure on price, got %v", errs)
	}
	if len(errs.GlobalErrors()) != 0 {
		t.Fatalf("unbound price must not trigger the cross-field rule")
	}
}

func deref(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
