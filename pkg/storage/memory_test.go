package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_CartRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.CartByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("CartByID(missing) error = %v, want ErrNotFound", err)
	}

	cart := CartRecord{ID: "c-1"}
	if err := store.CreateCart(ctx, cart); err != nil {
		t.Fatalf("CreateCart() error = %v", err)
	}

	got, err := store.CartByID(ctx, "c-1")
	if err != nil {
		t.Fatalf("CartByID() error = %v", err)
	}
	if got.ID != "c-1" || got.UserID != "" {
		t.Errorf("CartByID() = %+v, want anonymous cart c-1", got)
	}

	if _, err := store.CartByUser(ctx, "john"); !errors.Is(err, ErrNotFound) {
		t.Errorf("CartByUser(john) error = %v, want ErrNotFound", err)
	}

	if err := store.SetCartUser(ctx, "c-1", "john"); err != nil {
		t.Fatalf("SetCartUser() error = %v", err)
	}
	got, err = store.CartByUser(ctx, "john")
	if err != nil {
		t.Fatalf("CartByUser() error = %v", err)
	}
	if got.ID != "c-1" {
		t.Errorf("CartByUser() = %+v, want cart c-1", got)
	}

	// An anonymous cart never matches an empty user ID lookup.
	if err := store.CreateCart(ctx, CartRecord{ID: "c-2"}); err != nil {
		t.Fatalf("CreateCart() error = %v", err)
	}
	if _, err := store.CartByUser(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("CartByUser(\"\") error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ItemsInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ids := []string{"i-1", "i-2", "i-3"}
	for _, id := range ids {
		item := ItemRecord{ID: id, CartID: "c-1", ProductID: "p-" + id, Quantity: 1}
		if err := store.InsertItem(ctx, item); err != nil {
			t.Fatalf("InsertItem(%s) error = %v", id, err)
		}
	}

	items, err := store.ItemsByCart(ctx, "c-1")
	if err != nil {
		t.Fatalf("ItemsByCart() error = %v", err)
	}
	if len(items) != len(ids) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(ids))
	}
	for i, id := range ids {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, id)
		}
	}
}

func TestMemoryStore_ItemMutations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	item := ItemRecord{ID: "i-1", CartID: "c-1", ProductID: "p-1", Quantity: 1}
	if err := store.InsertItem(ctx, item); err != nil {
		t.Fatalf("InsertItem() error = %v", err)
	}

	if err := store.UpdateItemQuantity(ctx, "i-1", 5); err != nil {
		t.Fatalf("UpdateItemQuantity() error = %v", err)
	}
	if err := store.SetItemHeld(ctx, "i-1", true); err != nil {
		t.Fatalf("SetItemHeld() error = %v", err)
	}

	items, _ := store.ItemsByCart(ctx, "c-1")
	if items[0].Quantity != 5 || !items[0].Held {
		t.Errorf("item = %+v, want quantity 5 and held", items[0])
	}

	if err := store.UpdateItemQuantity(ctx, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateItemQuantity(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.DeleteItem(ctx, "i-1"); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	items, _ = store.ItemsByCart(ctx, "c-1")
	if len(items) != 0 {
		t.Errorf("len(items) after DeleteItem = %d, want 0", len(items))
	}
}

func TestMemoryStore_DeleteItems(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item := ItemRecord{ID: string(rune('a' + i)), CartID: "c-1", ProductID: "p", Quantity: 1}
		if err := store.InsertItem(ctx, item); err != nil {
			t.Fatalf("InsertItem() error = %v", err)
		}
	}

	if err := store.DeleteItems(ctx, "c-1"); err != nil {
		t.Fatalf("DeleteItems() error = %v", err)
	}
	items, _ := store.ItemsByCart(ctx, "c-1")
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestMemoryStore_OpCounters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.CreateCart(ctx, CartRecord{ID: "c-1"})
	_, _ = store.ItemsByCart(ctx, "c-1")
	_, _ = store.ItemsByCart(ctx, "c-1")

	if n := store.OpCount("ItemsByCart"); n != 2 {
		t.Errorf("OpCount(ItemsByCart) = %d, want 2", n)
	}
	if n := store.TotalOps(); n != 3 {
		t.Errorf("TotalOps() = %d, want 3", n)
	}

	store.ResetOps()
	if n := store.TotalOps(); n != 0 {
		t.Errorf("TotalOps() after reset = %d, want 0", n)
	}
}
