package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Sternrassler/cart-engine/pkg/cart"
	"github.com/Sternrassler/cart-engine/pkg/pricing"
	"github.com/Sternrassler/cart-engine/pkg/session"
)

func sessionToken(t *testing.T, sess session.Session) (string, bool) {
	t.Helper()
	token, err := sess.Get(context.Background(), cart.SessionKey)
	if errors.Is(err, session.ErrNoValue) {
		return "", false
	}
	if err != nil {
		t.Fatalf("session Get() error = %v", err)
	}
	return token, true
}

func TestResolve_AnonymousNew(t *testing.T) {
	e := newEngine(t, pricing.Config{})
	sess := session.NewMemory()
	ctx := context.Background()

	c, err := e.resolver.Resolve(ctx, sess, cart.Actor{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if c.Owned() {
		t.Error("anonymous cart should have no owner")
	}
	token, ok := sessionToken(t, sess)
	if !ok {
		t.Fatal("session should carry the cart token")
	}
	if token != c.ID() {
		t.Errorf("session token = %s, want cart ID %s", token, c.ID())
	}
}

func TestResolve_AnonymousIdempotent(t *testing.T) {
	e := newEngine(t, pricing.Config{})
	sess := session.NewMemory()
	ctx := context.Background()

	first, err := e.resolver.Resolve(ctx, sess, cart.Actor{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := e.resolver.Resolve(ctx, sess, cart.Actor{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first.ID() != second.ID() {
		t.Errorf("repeated anonymous resolution: got carts %s and %s, want the same", first.ID(), second.ID())
	}

	// Losing the session token means losing the cart.
	if err := sess.Delete(ctx, cart.SessionKey); err != nil {
		t.Fatalf("session Delete() error = %v", err)
	}
	third, err := e.resolver.Resolve(ctx, sess, cart.Actor{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if third.ID() == first.ID() {
		t.Error("resolution after clearing the token should yield a different cart")
	}
}

func TestResolve_AnonymousStaleToken(t *testing.T) {
	e := newEngine(t, pricing.Config{})
	sess := session.NewMemory()
	ctx := context.Background()

	if err := sess.Set(ctx, cart.SessionKey, "no-such-cart"); err != nil {
		t.Fatalf("session Set() error = %v", err)
	}

	c, err := e.resolver.Resolve(ctx, sess, cart.Actor{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	token, ok := sessionToken(t, sess)
	if !ok {
		t.Fatal("session should carry a fresh cart token")
	}
	if token == "no-such-cart" {
		t.Error("stale token should be overwritten")
	}
	if token != c.ID() {
		t.Errorf("session token = %s, want cart ID %s", token, c.ID())
	}
}

func TestResolve_AuthenticatedNew(t *testing.T) {
	e := newEngine(t, pricing.Config{})
	sess := session.NewMemory()
	ctx := context.Background()

	c, err := e.resolver.Resolve(ctx, sess, cart.Actor{UserID: "john"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if c.UserID() != "john" {
		t.Errorf("UserID() = %s, want john", c.UserID())
	}
	if _, ok := sessionToken(t, sess); ok {
		t.Error("authenticated resolution should leave no session token")
	}

	again, err := e.resolver.Resolve(ctx, sess, cart.Actor{UserID: "john"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if again.ID() != c.ID() {
		t.Errorf("repeated authenticated resolution: got carts %s and %s, want the same", c.ID(), again.ID())
	}
}

func TestResolve_LoginMerge(t *testing.T) {
	e := newEngine(t, pricing.Config{})
	sess := session.NewMemory()
	ctx := context.Background()

	anonymous, err := e.resolver.Resolve(ctx, sess, cart.Actor{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := anonymous.Add(ctx, e.shirt("shirt-1"), 2); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Same logical session, now authenticated: the anonymous cart is
	// adopted, keeping its identity and contents.
	merged, err := e.resolver.Resolve(ctx, sess, cart.Actor{UserID: "john"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if merged.ID() != anonymous.ID() {
		t.Errorf("merged cart = %s, want adopted anonymous cart %s", merged.ID(), anonymous.ID())
	}
	if merged.UserID() != "john" {
		t.Errorf("merged cart UserID() = %s, want john", merged.UserID())
	}
	if _, ok := sessionToken(t, sess); ok {
		t.Error("session token should be stripped after adoption")
	}

	items, err := merged.Items(ctx)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != 1 || items[0].Quantity() != 2 {
		t.Errorf("adopted cart items = %+v, want the anonymous cart's contents", items)
	}

	// The adoption is persisted: a later identity-only resolution finds it.
	later, err := e.resolver.Resolve(ctx, session.NewMemory(), cart.Actor{UserID: "john"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if later.ID() != anonymous.ID() {
		t.Errorf("later resolution = %s, want %s", later.ID(), anonymous.ID())
	}
}

func TestResolve_AuthenticatedIgnoresSessionCart(t *testing.T) {
	e := newEngine(t, pricing.Config{})
	ctx := context.Background()

	// john already owns a cart.
	owned, err := e.resolver.Resolve(ctx, session.NewMemory(), cart.Actor{UserID: "john"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// A different anonymous session cart exists when john logs in there.
	sess := session.NewMemory()
	if _, err := e.resolver.Resolve(ctx, sess, cart.Actor{}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	c, err := e.resolver.Resolve(ctx, sess, cart.Actor{UserID: "john"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.ID() != owned.ID() {
		t.Errorf("resolution = %s, want the identity's existing cart %s", c.ID(), owned.ID())
	}
	if _, ok := sessionToken(t, sess); ok {
		t.Error("the now-meaningless session token should be stripped")
	}
}

func TestResolve_AuthenticatedStaleToken(t *testing.T) {
	e := newEngine(t, pricing.Config{})
	sess := session.NewMemory()
	ctx := context.Background()

	if err := sess.Set(ctx, cart.SessionKey, "no-such-cart"); err != nil {
		t.Fatalf("session Set() error = %v", err)
	}

	c, err := e.resolver.Resolve(ctx, sess, cart.Actor{UserID: "jane"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.UserID() != "jane" {
		t.Errorf("UserID() = %s, want jane", c.UserID())
	}
	if _, ok := sessionToken(t, sess); ok {
		t.Error("stale session token should be removed")
	}
}

func TestNewResolver_Validation(t *testing.T) {
	if _, err := cart.NewResolver(cart.Deps{}); err == nil {
		t.Error("NewResolver with empty deps should fail")
	}
}
