package storage

import "github.com/shopspring/decimal"

// ProductRecord is a persisted product. It satisfies the cart engine's
// product capability contract (opaque ID, unit price, availability, stock on
// hand) so the SQLite store can double as a catalog source. A stock value of
// -1 means unlimited.
type ProductRecord struct {
	id        string
	name      string
	unitPrice decimal.Decimal
	available bool
	stock     int
}

// NewProductRecord creates a product record. Use stock -1 for unlimited.
func NewProductRecord(id, name string, unitPrice decimal.Decimal, available bool, stock int) *ProductRecord {
	return &ProductRecord{
		id:        id,
		name:      name,
		unitPrice: unitPrice,
		available: available,
		stock:     stock,
	}
}

// ID returns the product's opaque identifier.
func (p *ProductRecord) ID() string { return p.id }

// Name returns the product's display name.
func (p *ProductRecord) Name() string { return p.name }

// UnitPrice returns the product's current unit price.
func (p *ProductRecord) UnitPrice() decimal.Decimal { return p.unitPrice }

// Available reports whether the product can currently be purchased.
func (p *ProductRecord) Available() bool { return p.available }

// StockOnHand returns the units in stock, or -1 for unlimited.
func (p *ProductRecord) StockOnHand() int { return p.stock }
