// Package session defines the actor-scoped key-value collaborator the cart
// resolver uses to carry the anonymous cart token, with an in-memory
// implementation for tests and single-process use and a Redis implementation
// for shared deployments.
package session

import (
	"context"
	"errors"
)

// ErrNoValue indicates the key has no value in the session.
var ErrNoValue = errors.New("session: no value")

// Session is a mutable key-value store scoped to one requesting actor. The
// cart engine reads and writes exactly one key (the anonymous cart token) and
// handles its absence gracefully.
type Session interface {
	// Get returns the value for key, or ErrNoValue if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
