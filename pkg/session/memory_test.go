package session

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_GetAbsent(t *testing.T) {
	sess := NewMemory()

	_, err := sess.Get(context.Background(), "cart")
	if !errors.Is(err, ErrNoValue) {
		t.Errorf("Get(absent) error = %v, want ErrNoValue", err)
	}
}

func TestMemory_SetGet(t *testing.T) {
	sess := NewMemory()
	ctx := context.Background()

	if err := sess.Set(ctx, "cart", "c-1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := sess.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "c-1" {
		t.Errorf("Get() = %q, want %q", got, "c-1")
	}

	// Overwrite replaces the stored value.
	if err := sess.Set(ctx, "cart", "c-2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err = sess.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "c-2" {
		t.Errorf("Get() after overwrite = %q, want %q", got, "c-2")
	}
}

func TestMemory_Delete(t *testing.T) {
	sess := NewMemory()
	ctx := context.Background()

	if err := sess.Set(ctx, "cart", "c-1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := sess.Delete(ctx, "cart"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := sess.Get(ctx, "cart"); !errors.Is(err, ErrNoValue) {
		t.Errorf("Get() after Delete error = %v, want ErrNoValue", err)
	}

	// Deleting an absent key is not an error.
	if err := sess.Delete(ctx, "cart"); err != nil {
		t.Errorf("Delete(absent) error = %v, want nil", err)
	}
}
