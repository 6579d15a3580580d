// Package movement defines stock movements: the audit trail of every change
// to a product's stock level.
package movement

import "time"

// Type classifies a stock movement.
type Type string

const (
	// TypeEntry is stock received into inventory. Quantity is positive.
	TypeEntry Type = "ENTRADA"
	// TypeSale is stock leaving through a sale. Quantity is positive and is
	// subtracted from stock.
	TypeSale Type = "VENTA"
	// TypeAdjustment corrects stock after a physical count. Quantity is a
	// signed delta and may be negative.
	TypeAdjustment Type = "AJUSTE"
)

// Valid reports whether t is one of the known movement types.
func (t Type) Valid() bool {
	return t == TypeEntry || t == TypeSale || t == TypeAdjustment
}

// Movement records a single stock change for a product. Movements are
// immutable once recorded.
type Movement struct {
	// ID is the movement's ticket identifier (UUID).
	ID string

	// ProductID references the affected product.
	ProductID int64

	// Type is the kind of movement.
	Type Type

	// Quantity is the movement amount. Positive for entries and sales;
	// signed for adjustments.
	Quantity int

	// PreviousStock is the product stock before the movement was applied.
	PreviousStock int

	// NewStock is the product stock after the movement was applied.
	NewStock int

	// CreatedAt is when the movement was recorded.
	CreatedAt time.Time

	// Responsible is the user who registered the movement.
	Responsible string

	// Note is an optional free-form observation.
	Note string
}

// StockDelta returns the signed change this movement applies to stock.
func (m *Movement) StockDelta() int {
	switch m.Type {
	case TypeSale:
		return -m.Quantity
	default:
		return m.Quantity
	}
}
