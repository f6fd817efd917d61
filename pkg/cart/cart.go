package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/cart-engine/pkg/pricing"
	"github.com/Sternrassler/cart-engine/pkg/storage"
)

// Deps are the collaborators the cart engine works against.
type Deps struct {
	Store    storage.Store
	Catalog  Catalog
	Registry *pricing.Registry
	Logger   zerolog.Logger
}

func (d Deps) validate() error {
	if d.Store == nil {
		return fmt.Errorf("store is required")
	}
	if d.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if d.Registry == nil {
		return fmt.Errorf("modifier registry is required")
	}
	return nil
}

// Cart owns an ordered collection of items and computes its aggregate price
// through the configured cart modifier chain. A Cart is a request-scoped
// object; it is not safe for concurrent mutation.
type Cart struct {
	id     string
	userID string

	deps   Deps
	logger zerolog.Logger

	// items is the lazily populated snapshot. It is kept coherent by Add,
	// Remove and Clear only; storage writes bypassing the cart require an
	// explicit ResetCachedItems.
	items       []*Item
	itemsLoaded bool

	price *decimal.Decimal
	trace pricing.Trace
}

// newCart builds a Cart over a stored record. freshlyCreated marks carts the
// resolver just inserted: their item snapshot is known to be empty, so the
// first Price call performs no storage read.
func newCart(record storage.CartRecord, deps Deps, freshlyCreated bool) *Cart {
	c := &Cart{
		id:     record.ID,
		userID: record.UserID,
		deps:   deps,
		logger: deps.Logger.With().Str("cart_id", record.ID).Logger(),
	}
	if freshlyCreated {
		c.items = []*Item{}
		c.itemsLoaded = true
	}
	return c
}

// ID returns the cart identifier.
func (c *Cart) ID() string { return c.id }

// UserID returns the owning identity, or "" for an anonymous cart.
func (c *Cart) UserID() string { return c.userID }

// Owned reports whether the cart belongs to an authenticated identity.
func (c *Cart) Owned() bool { return c.userID != "" }

// ItemCount returns the number of items in the current snapshot without
// touching storage.
func (c *Cart) ItemCount() int { return len(c.items) }

// Items returns the cart's item snapshot in insertion order, loading it from
// storage on first access. Product references are resolved through the
// catalog; a dangling reference yields an item that prices to zero rather
// than an error.
func (c *Cart) Items(ctx context.Context) ([]*Item, error) {
	if c.itemsLoaded {
		return c.items, nil
	}

	records, err := c.deps.Store.ItemsByCart(ctx, c.id)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	items := make([]*Item, 0, len(records))
	for _, rec := range records {
		product, err := c.deps.Catalog.Product(ctx, rec.ProductID)
		if err != nil || product == nil {
			// Degrade to unavailable instead of failing the cart.
			c.logger.Debug().
				Str("product_id", rec.ProductID).
				Err(err).
				Msg("product reference dangles; item treated as unavailable")
			product = nil
		}
		items = append(items, &Item{
			id:        rec.ID,
			productID: rec.ProductID,
			quantity:  rec.Quantity,
			held:      rec.Held,
			product:   product,
			cart:      c,
		})
	}

	c.items = items
	c.itemsLoaded = true
	return c.items, nil
}

// ResetCachedItems marks the item snapshot stale so the next access reloads
// it from storage. External collaborators mutating items without going
// through Add, Remove or Clear must call this to restore coherence. The
// price memo is dropped as well.
func (c *Cart) ResetCachedItems() {
	c.items = nil
	c.itemsLoaded = false
	c.invalidatePrice()
}

// Add puts quantity units of product into the cart. If an item for the same
// product already exists its quantity is incremented in place; otherwise a
// new item is appended, preserving insertion order. The snapshot and price
// memo are refreshed so the change is visible to the next Price call.
func (c *Cart) Add(ctx context.Context, product Product, quantity int) (*Item, error) {
	if product == nil {
		return nil, ErrNilProduct
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	items, err := c.Items(ctx)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.productID == product.ID() {
			newQuantity := item.quantity + quantity
			if err := c.deps.Store.UpdateItemQuantity(ctx, item.id, newQuantity); err != nil {
				return nil, fmt.Errorf("update item quantity: %w", err)
			}
			item.quantity = newQuantity
			item.product = product
			c.invalidatePrice()
			c.logger.Debug().
				Str("product_id", product.ID()).
				Int("quantity", newQuantity).
				Msg("incremented cart item")
			return item, nil
		}
	}

	record := storage.ItemRecord{
		ID:        uuid.NewString(),
		CartID:    c.id,
		ProductID: product.ID(),
		Quantity:  quantity,
	}
	if err := c.deps.Store.InsertItem(ctx, record); err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}

	item := &Item{
		id:        record.ID,
		productID: record.ProductID,
		quantity:  record.Quantity,
		product:   product,
		cart:      c,
	}
	c.items = append(c.items, item)
	c.invalidatePrice()
	c.logger.Debug().
		Str("product_id", product.ID()).
		Int("quantity", quantity).
		Msg("added cart item")
	return item, nil
}

// Remove takes quantity units of the given product out of the cart. If the
// remaining quantity would drop below one, or quantity is zero or negative,
// the item is removed entirely.
func (c *Cart) Remove(ctx context.Context, productID string, quantity int) error {
	items, err := c.Items(ctx)
	if err != nil {
		return err
	}

	for idx, item := range items {
		if item.productID != productID {
			continue
		}
		if quantity <= 0 || quantity >= item.quantity {
			if err := c.deps.Store.DeleteItem(ctx, item.id); err != nil {
				return fmt.Errorf("delete cart item: %w", err)
			}
			c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
		} else {
			newQuantity := item.quantity - quantity
			if err := c.deps.Store.UpdateItemQuantity(ctx, item.id, newQuantity); err != nil {
				return fmt.Errorf("update item quantity: %w", err)
			}
			item.quantity = newQuantity
		}
		c.invalidatePrice()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, productID)
}

// Clear removes all items, empties the snapshot and the modifier trace.
// Subsequent Price and TotalPrice calls report zero without invoking any
// modifier.
func (c *Cart) Clear(ctx context.Context) error {
	if err := c.deps.Store.DeleteItems(ctx, c.id); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	c.items = []*Item{}
	c.itemsLoaded = true
	c.trace = nil
	c.invalidatePrice()
	c.logger.Debug().Msg("cleared cart")
	return nil
}

// Price computes the cart's aggregate price: the sum of item totals folded
// through the ordered cart modifier chain, with each modifier's effect
// recorded in the trace. The result is memoized until the next mutating
// operation, so repeated calls perform no further storage reads. An empty
// cart short-circuits to zero without running any modifier.
func (c *Cart) Price(ctx context.Context) (decimal.Decimal, error) {
	if c.price != nil {
		priceMemoHits.Inc()
		return *c.price, nil
	}

	items, err := c.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if len(items) == 0 {
		zero := decimal.Zero
		c.price = &zero
		c.trace = pricing.Trace{}
		return zero, nil
	}

	total := decimal.Zero
	for _, item := range items {
		itemTotal, err := item.TotalPrice()
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(itemTotal)
	}

	chain, err := c.deps.Registry.CartChain()
	if err != nil {
		return decimal.Zero, err
	}

	trace := make(pricing.Trace, 0, len(chain))
	for _, m := range chain {
		next, err := m.ModifyCart(c, total)
		if err != nil {
			pricing.ModifierErrors.WithLabelValues("cart").Inc()
			return decimal.Zero, &pricing.ModifierError{Chain: "cart", Modifier: m.Name(), Err: err}
		}
		trace = append(trace, pricing.TraceEntry{Modifier: m.Name(), Before: total, After: next})
		total = next
	}

	c.trace = trace
	c.price = &total
	priceComputations.Inc()
	return total, nil
}

// TotalPrice returns the cart total. It is an alias of Price: the base
// design layers no second pass on top of the cart modifier chain.
func (c *Cart) TotalPrice(ctx context.Context) (decimal.Decimal, error) {
	return c.Price(ctx)
}

// Modifiers returns the applied-modifier trace of the last price
// computation. Empty after Clear or before the first computation.
func (c *Cart) Modifiers() pricing.Trace {
	return c.trace
}

// PartitionItems splits the snapshot for presentation: available items,
// unavailable items (dangling references included), and held-but-available
// items.
func (c *Cart) PartitionItems(ctx context.Context) (available, unavailable, held []*Item, err error) {
	items, err := c.Items(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, item := range items {
		switch {
		case !item.Available():
			unavailable = append(unavailable, item)
		case item.Held():
			held = append(held, item)
		default:
			available = append(available, item)
		}
	}
	return available, unavailable, held, nil
}

func (c *Cart) invalidatePrice() {
	c.price = nil
}
