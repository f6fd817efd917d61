// Package storage defines the persistence port for carts and cart items, and
// provides two implementations: an embedded SQLite store for deployments and
// an in-memory store with operation counters for tests.
//
// The engine treats storage as a synchronous collaborator. Lookup methods
// return ErrNotFound (check with errors.Is) rather than nil records; item
// retrieval preserves insertion order.
//
// # SQLite
//
//	store, err := storage.OpenSQLite("cart.db")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
// The SQLite store also persists a small product table and exposes product
// lookups, so a deployment without an external catalog service can serve the
// product capability contract from the same database.
//
// # Memory
//
//	store := storage.NewMemoryStore()
//	// ... exercise the engine ...
//	if n := store.OpCount("ItemsByCart"); n != 1 {
//		// the price memo contract was violated
//	}
package storage
