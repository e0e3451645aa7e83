package item

import (
	"context"
	"errors"
	"testing"

	"github.com/benpsk/item-service/internal/validation"
)

func TestServiceCreatePersistsValidForm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	sub, err := svc.Create(ctx, Form{ItemName: "book", Price: intPtr(10000), Quantity: intPtr(2)}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub.Rejected() || sub.State != StatePersisted {
		t.Fatalf("expected persisted submission, got %+v", sub)
	}
	if sub.Item.ID != 1 || sub.Item.ItemName != "book" {
		t.Fatalf("unexpected saved item: %+v", sub.Item)
	}

	found, err := svc.Get(ctx, sub.Item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found != sub.Item {
		t.Fatalf("round trip mismatch: %+v vs %+v", found, sub.Item)
	}
}

func TestServiceCreateRejectsInvalidForm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, NewValidator())

	sub, err := svc.Create(ctx, Form{ItemName: " ", Price: intPtr(0), Quantity: intPtr(10000)}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !sub.Rejected() || sub.Errors.Len() != 4 {
		t.Fatalf("expected rejection with 4 errors, got %+v", sub)
	}

	items, _ := store.FindAll(ctx)
	if len(items) != 0 {
		t.Fatalf("rejected submission must not be saved")
	}
}

func TestServiceCreateKeepsBindingFailures(t *testing.T) {
	t.Parallel()

	errs := validation.NewErrors(ObjectName)
	errs.AddBindingFailure("quantity", "int", "many")

	sub, err := NewService(NewMemoryStore(), nil).Create(context.Background(), Form{ItemName: "book", Price: intPtr(10000)}, errs)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !sub.Rejected() || sub.Errors != errs || errs.Len() != 1 {
		t.Fatalf("expected rejection carrying only the binding failure, got %v", sub.Errors)
	}
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)
	created, err := svc.Create(ctx, Form{ItemName: "book", Price: intPtr(10000), Quantity: intPtr(2)}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rejected, err := svc.Update(ctx, created.Item.ID, Form{ItemName: "book", Price: intPtr(10000)}, nil)
	if err != nil {
		t.Fatalf("update invalid: %v", err)
	}
	if !rejected.Rejected() || !rejected.Errors.HasFieldErrors("quantity") {
		t.Fatalf("expected quantity rejection, got %+v", rejected)
	}

	updated, err := svc.Update(ctx, created.Item.ID, Form{ItemName: "pen", Price: intPtr(2000), Quantity: intPtr(9999)}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rejected() {
		t.Fatalf("unexpected rejection: %v", updated.Errors)
	}
	if updated.Item.ID != created.Item.ID || updated.Item.ItemName != "pen" || updated.Item.Quantity != 9999 {
		t.Fatalf("unexpected updated item: %+v", updated.Item)
	}
}

func TestServiceUpdateUnknownID(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore(), nil)
	_, err := svc.Update(context.Background(), 7, Form{ItemName: " "}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFormConversions(t *testing.T) {
	t.Parallel()

	it := Item{ID: 3, ItemName: "book", Price: 1500, Quantity: 7}
	form := FormFrom(it)
	if form.Price == nil || *form.Price != 1500 || form.Quantity == nil || *form.Quantity != 7 {
		t.Fatalf("unexpected form: %+v", form)
	}
	back := form.Item()
	if back.ID != 0 || back.ItemName != "book" || back.Price != 1500 || back.Quantity != 7 {
		t.Fatalf("unexpected item: %+v", back)
	}
	if total, ok := form.TotalPrice(); !ok || total != 10500 {
		t.Fatalf("unexpected total: %d %v", total, ok)
	}
	if _, ok := (Form{}).TotalPrice(); ok {
		t.Fatalf("empty form has no total")
	}
}
