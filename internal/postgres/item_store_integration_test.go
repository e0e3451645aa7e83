//go:build integration

package postgres

import (
	"errors"
	"testing"

	"github.com/benpsk/item-service/internal/item"
)

func TestItemStoreSaveFindAndList(t *testing.T) {
	ctx, cleanup := withTx(t)
	defer cleanup()

	store := NewItemStore(integrationPool)

	first, err := store.Save(ctx, item.Item{ItemName: "itemA", Price: 10000, Quantity: 10})
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := store.Save(ctx, item.Item{ItemName: "itemB", Price: 20000, Quantity: 20})
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}

	found, err := store.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ItemName != "itemA" || found.Price != 10000 || found.Quantity != 10 {
		t.Fatalf("unexpected item: %+v", found)
	}

	items, err := store.FindAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var idxFirst, idxSecond = -1, -1
	for i, it := range items {
		switch it.ID {
		case first.ID:
			idxFirst = i
		case second.ID:
			idxSecond = i
		}
	}
	if idxFirst < 0 || idxSecond < 0 || idxFirst > idxSecond {
		t.Fatalf("expected insertion order, got first=%d second=%d", idxFirst, idxSecond)
	}
}

func TestItemStoreUpdate(t *testing.T) {
	ctx, cleanup := withTx(t)
	defer cleanup()

	store := NewItemStore(integrationPool)
	saved, err := store.Save(ctx, item.Item{ItemName: "item1", Price: 10000, Quantity: 10})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Update(ctx, saved.ID, item.Item{ItemName: "item2", Price: 20000, Quantity: 30}); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, err := store.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != saved.ID || found.ItemName != "item2" || found.Price != 20000 || found.Quantity != 30 {
		t.Fatalf("unexpected updated item: %+v", found)
	}
}

func TestItemStoreNotFound(t *testing.T) {
	ctx, cleanup := withTx(t)
	defer cleanup()

	store := NewItemStore(integrationPool)
	if _, err := store.FindByID(ctx, -1); !errors.Is(err, item.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Update(ctx, -1, item.Item{ItemName: "x", Price: 1000, Quantity: 10}); !errors.Is(err, item.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}
