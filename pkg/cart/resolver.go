package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Sternrassler/cart-engine/pkg/session"
	"github.com/Sternrassler/cart-engine/pkg/storage"
)

// SessionKey is the single session key the engine owns: the anonymous cart
// token.
const SessionKey = "cart"

// Actor is the identity a cart is resolved against. An empty UserID means
// anonymous.
type Actor struct {
	UserID string
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool { return a.UserID != "" }

// Resolver finds or creates the correct cart for an actor, handling the
// anonymous-to-authenticated merge.
type Resolver struct {
	deps Deps
}

// NewResolver creates a resolver over the given collaborators.
func NewResolver(deps Deps) (*Resolver, error) {
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("resolver deps: %w", err)
	}
	deps.Logger = deps.Logger.With().Str("component", "cart-resolver").Logger()
	return &Resolver{deps: deps}, nil
}

// Resolve returns the actor's cart, creating one when none exists.
//
// Anonymous actors are addressed via the session-carried cart token: a valid
// token resolves to its cart, a missing or stale token yields a fresh cart
// and a rewritten token. Authenticated actors resolve by identity; when the
// identity owns no cart yet but the session carries an anonymous cart, that
// cart is adopted (ownership assigned, token stripped), so the cart identity
// survives login. Resolving twice across that transition yields the same
// cart.
func (r *Resolver) Resolve(ctx context.Context, sess session.Session, actor Actor) (*Cart, error) {
	if actor.Authenticated() {
		return r.resolveUser(ctx, sess, actor.UserID)
	}
	return r.resolveAnonymous(ctx, sess)
}

func (r *Resolver) resolveAnonymous(ctx context.Context, sess session.Session) (*Cart, error) {
	token, err := sess.Get(ctx, SessionKey)
	if err != nil && !errors.Is(err, session.ErrNoValue) {
		return nil, fmt.Errorf("read session cart token: %w", err)
	}

	if err == nil {
		record, lookupErr := r.deps.Store.CartByID(ctx, token)
		if lookupErr == nil {
			resolutions.WithLabelValues("anonymous_existing").Inc()
			return newCart(record, r.deps, false), nil
		}
		if !errors.Is(lookupErr, storage.ErrNotFound) {
			return nil, fmt.Errorf("look up session cart: %w", lookupErr)
		}
		// Stale token: fall through to creation, overwriting it.
		r.deps.Logger.Debug().Str("cart_id", token).Msg("session cart token is stale")
	}

	record := storage.CartRecord{ID: uuid.NewString()}
	if err := r.deps.Store.CreateCart(ctx, record); err != nil {
		return nil, fmt.Errorf("create anonymous cart: %w", err)
	}
	if err := sess.Set(ctx, SessionKey, record.ID); err != nil {
		return nil, fmt.Errorf("store session cart token: %w", err)
	}
	resolutions.WithLabelValues("anonymous_new").Inc()
	r.deps.Logger.Debug().Str("cart_id", record.ID).Msg("created anonymous cart")
	return newCart(record, r.deps, true), nil
}

func (r *Resolver) resolveUser(ctx context.Context, sess session.Session, userID string) (*Cart, error) {
	record, err := r.deps.Store.CartByUser(ctx, userID)
	if err == nil {
		// A session token no longer means anything once the identity owns
		// a cart.
		if err := sess.Delete(ctx, SessionKey); err != nil {
			return nil, fmt.Errorf("strip session cart token: %w", err)
		}
		resolutions.WithLabelValues("user_existing").Inc()
		return newCart(record, r.deps, false), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("look up user cart: %w", err)
	}

	token, tokenErr := sess.Get(ctx, SessionKey)
	if tokenErr != nil && !errors.Is(tokenErr, session.ErrNoValue) {
		return nil, fmt.Errorf("read session cart token: %w", tokenErr)
	}

	if tokenErr == nil {
		record, lookupErr := r.deps.Store.CartByID(ctx, token)
		if lookupErr == nil {
			// Adopt the anonymous cart: same cart identity, now addressed
			// by user instead of session.
			if err := r.deps.Store.SetCartUser(ctx, record.ID, userID); err != nil {
				return nil, fmt.Errorf("adopt session cart: %w", err)
			}
			record.UserID = userID
			if err := sess.Delete(ctx, SessionKey); err != nil {
				return nil, fmt.Errorf("strip session cart token: %w", err)
			}
			resolutions.WithLabelValues("adopted").Inc()
			r.deps.Logger.Debug().
				Str("cart_id", record.ID).
				Str("user_id", userID).
				Msg("adopted anonymous cart for authenticated user")
			return newCart(record, r.deps, false), nil
		}
		if !errors.Is(lookupErr, storage.ErrNotFound) {
			return nil, fmt.Errorf("look up session cart: %w", lookupErr)
		}
		if err := sess.Delete(ctx, SessionKey); err != nil {
			return nil, fmt.Errorf("strip stale session cart token: %w", err)
		}
	}

	record = storage.CartRecord{ID: uuid.NewString(), UserID: userID}
	if err := r.deps.Store.CreateCart(ctx, record); err != nil {
		return nil, fmt.Errorf("create user cart: %w", err)
	}
	resolutions.WithLabelValues("user_new").Inc()
	r.deps.Logger.Debug().
		Str("cart_id", record.ID).
		Str("user_id", userID).
		Msg("created user cart")
	return newCart(record, r.deps, true), nil
}
