package item

import (
	"fmt"

	"github.com/benpsk/item-service/internal/validation"
)

const (
	PriceMin      = 1000
	PriceMax      = 1000000
	QuantityMax   = 9999
	TotalPriceMin = 10000
)

const (
	CodeRequired      = "required"
	CodeRange         = "range"
	CodeMax           = "max"
	CodeTotalPriceMin = "totalPriceMin"
)

// Validator checks item forms.
type Validator = validation.Validator[Form]

// NewValidator builds the item rule set. Quantity accepts QuantityMax itself
// and rejects anything above it.
func NewValidator() *Validator {
	v, err := validation.New[Form]()
	if err != nil {
		panic(fmt.Sprintf("item: %v", err))
	}

	rules := []validation.FieldRule{
		{
			Tag:     validation.TagNotBlank,
			Kind:    validation.KindRequired,
			Code:    CodeRequired,
			Message: "Item name is required.",
		},
		{
			Tag:        "pricerange",
			Constraint: fmt.Sprintf("required,min=%d,max=%d", PriceMin, PriceMax),
			Kind:       validation.KindRange,
			Code:       CodeRange,
			Args:       []any{PriceMin, PriceMax},
			Message:    fmt.Sprintf("Price must be between %d and %d.", PriceMin, PriceMax),
		},
		{
			Tag:        "quantitymax",
			Constraint: fmt.Sprintf("required,max=%d", QuantityMax),
			Kind:       validation.KindMax,
			Code:       CodeMax,
			Args:       []any{QuantityMax},
			Message:    fmt.Sprintf("Quantity may be at most %d.", QuantityMax),
		},
	}
	for _, rule := range rules {
		if err := v.RegisterFieldRule(rule); err != nil {
			panic(fmt.Sprintf("item: register %s: %v", rule.Tag, err))
		}
	}

	v.RegisterObjectRule(checkTotalPrice)
	return v
}

// checkTotalPrice runs whenever price and quantity are both present, even if
// either already failed its own range check.
func checkTotalPrice(f *Form, errs *validation.Errors) {
	total, ok := f.TotalPrice()
	if !ok || total >= TotalPriceMin {
		return
	}
	errs.Reject(validation.KindCrossFieldMin, CodeTotalPriceMin, []any{TotalPriceMin, total},
		fmt.Sprintf("Price * quantity must be at least %d. Current value = %d", TotalPriceMin, total))
}
