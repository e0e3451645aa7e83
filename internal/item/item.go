package item

import (
	"context"
	"errors"
	"math"
	"time"
)

var ErrNotFound = errors.New("item not found")

// ObjectName is the name errors for a bound item are reported under.
const ObjectName = "item"

type Item struct {
	ID        int64     `json:"id"`
	ItemName  string    `json:"itemName"`
	Price     int       `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Form is the bound but unvalidated input for an item. Absent numbers are nil.
type Form struct {
	ItemName string `json:"itemName" validate:"notblank"`
	Price    *int   `json:"price" validate:"pricerange"`
	Quantity *int   `json:"quantity" validate:"quantitymax"`
}

// FormFrom prefills a form with the values of a stored item.
func FormFrom(it Item) Form {
	price, quantity := it.Price, it.Quantity
	return Form{ItemName: it.ItemName, Price: &price, Quantity: &quantity}
}

// Item converts a validated form. Absent numbers become zero.
func (f Form) Item() Item {
	it := Item{ItemName: f.ItemName}
	if f.Price != nil {
		it.Price = *f.Price
	}
	if f.Quantity != nil {
		it.Quantity = *f.Quantity
	}
	return it
}

// TotalPrice reports price * quantity when both are present. A product
// outside the int64 range is clamped to math.MaxInt64 or math.MinInt64.
func (f Form) TotalPrice() (int64, bool) {
	if f.Price == nil || f.Quantity == nil {
		return 0, false
	}
	return mulClamped(int64(*f.Price), int64(*f.Quantity)), true
}

func mulClamped(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	overflow := p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64)
	if !overflow {
		return p
	}
	if (a < 0) == (b < 0) {
		return math.MaxInt64
	}
	return math.MinInt64
}

type Store interface {
	Save(ctx context.Context, it Item) (Item, error)
	FindByID(ctx context.Context, id int64) (Item, error)
	FindAll(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, id int64, it Item) error
}
