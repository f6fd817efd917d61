package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS carts (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS carts_user_id
	ON carts(user_id) WHERE user_id <> '';

CREATE TABLE IF NOT EXISTS cart_items (
	id         TEXT PRIMARY KEY,
	cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	quantity   INTEGER NOT NULL CHECK (quantity >= 1),
	held       INTEGER NOT NULL DEFAULT 0,
	UNIQUE (cart_id, product_id)
);

CREATE TABLE IF NOT EXISTS products (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	unit_price TEXT NOT NULL,
	available  INTEGER NOT NULL DEFAULT 1,
	stock      INTEGER NOT NULL DEFAULT -1
);
`

// SQLiteStore is a Store backed by an embedded SQLite database. It also
// persists products and serves as a catalog source for deployments without
// an external catalog service.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite database at path and runs
// the schema migration. WAL mode and a busy timeout are enabled for
// concurrent request handling.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=busy_timeout=5000&_pragma=journal_mode=WAL&_pragma=foreign_keys=on"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateCart implements Store.
func (s *SQLiteStore) CreateCart(ctx context.Context, cart CartRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO carts(id, user_id) VALUES (?, ?)`, cart.ID, cart.UserID)
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

// CartByID implements Store.
func (s *SQLiteStore) CartByID(ctx context.Context, id string) (CartRecord, error) {
	var cart CartRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM carts WHERE id = ?`, id).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CartRecord{}, ErrNotFound
	}
	if err != nil {
		return CartRecord{}, fmt.Errorf("select cart by id: %w", err)
	}
	return cart, nil
}

// CartByUser implements Store.
func (s *SQLiteStore) CartByUser(ctx context.Context, userID string) (CartRecord, error) {
	var cart CartRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM carts WHERE user_id = ? AND user_id <> ''`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CartRecord{}, ErrNotFound
	}
	if err != nil {
		return CartRecord{}, fmt.Errorf("select cart by user: %w", err)
	}
	return cart, nil
}

// SetCartUser implements Store.
func (s *SQLiteStore) SetCartUser(ctx context.Context, cartID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE carts SET user_id = ? WHERE id = ?`, userID, cartID)
	if err != nil {
		return fmt.Errorf("update cart user: %w", err)
	}
	return requireRow(res)
}

// ItemsByCart implements Store. Items come back in insertion order.
func (s *SQLiteStore) ItemsByCart(ctx context.Context, cartID string) ([]ItemRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cart_id, product_id, quantity, held
		FROM cart_items WHERE cart_id = ? ORDER BY rowid`, cartID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	var items []ItemRecord
	for rows.Next() {
		var item ItemRecord
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Held); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// InsertItem implements Store.
func (s *SQLiteStore) InsertItem(ctx context.Context, item ItemRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items(id, cart_id, product_id, quantity, held)
		VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.CartID, item.ProductID, item.Quantity, item.Held)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity implements Store.
func (s *SQLiteStore) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = ? WHERE id = ?`, quantity, itemID)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	return requireRow(res)
}

// SetItemHeld implements Store.
func (s *SQLiteStore) SetItemHeld(ctx context.Context, itemID string, held bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET held = ? WHERE id = ?`, held, itemID)
	if err != nil {
		return fmt.Errorf("update item held: %w", err)
	}
	return requireRow(res)
}

// DeleteItem implements Store.
func (s *SQLiteStore) DeleteItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// DeleteItems implements Store.
func (s *SQLiteStore) DeleteItems(ctx context.Context, cartID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	if err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}

// SaveProduct inserts or updates a product row.
func (s *SQLiteStore) SaveProduct(ctx context.Context, p *ProductRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products(id, name, unit_price, available, stock)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			unit_price = excluded.unit_price,
			available = excluded.available,
			stock = excluded.stock`,
		p.id, p.name, p.unitPrice.String(), p.available, p.stock)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// ProductByID returns the product with the given identifier, or ErrNotFound.
func (s *SQLiteStore) ProductByID(ctx context.Context, id string) (*ProductRecord, error) {
	var (
		p        ProductRecord
		priceStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, unit_price, available, stock FROM products WHERE id = ?`, id).
		Scan(&p.id, &p.name, &priceStr, &p.available, &p.stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	p.unitPrice, err = decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse product unit price: %w", err)
	}
	return &p, nil
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
