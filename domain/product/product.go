// Package product defines the Product entity and related types.
package product

import "fmt"

// Product represents an inventory item identified by a unique code,
// typically the printed barcode.
type Product struct {
	// ID is the unique identifier assigned by the database.
	ID int64

	// Code is the barcode or internal code, unique among products.
	Code string

	// Name is the display name.
	Name string

	// CategoryID references the category the product belongs to.
	CategoryID int64

	// Stock is the current quantity on hand.
	Stock int

	// PurchasePrice is the unit cost paid to the supplier.
	PurchasePrice float64

	// SalePrice is the unit price charged to customers.
	SalePrice float64

	// TaxRate is the tax percentage applied on sale (e.g. 7 for 7%).
	TaxRate float64

	// Active marks whether the product is available for operations.
	// Inactive products are kept for movement history.
	Active bool
}

// Identity returns a human-readable identifier for the product.
func (p *Product) Identity() string {
	return fmt.Sprintf("%s - %s", p.Code, p.Name)
}

// HasStock reports whether the product can cover a withdrawal of quantity.
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// PriceWithTax returns the sale price including tax.
func (p *Product) PriceWithTax() float64 {
	return p.SalePrice * (1 + p.TaxRate/100)
}

// Clone creates a copy of the product.
func (p *Product) Clone() *Product {
	clone := *p
	return &clone
}
