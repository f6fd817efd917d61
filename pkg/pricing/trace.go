package pricing

import "github.com/shopspring/decimal"

// TraceEntry records one modifier's effect during a cart price computation.
type TraceEntry struct {
	// Modifier is the applied modifier's registered name.
	Modifier string `json:"modifier"`

	// Before is the price handed to the modifier.
	Before decimal.Decimal `json:"before"`

	// After is the price the modifier returned.
	After decimal.Decimal `json:"after"`
}

// Trace is the ordered applied-modifier record of the last cart price
// computation. It is rebuilt on each computation and emptied by Clear.
type Trace []TraceEntry
