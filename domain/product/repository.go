package product

import "context"

// Repository defines the interface for product persistence operations.
type Repository interface {
	// FindByID retrieves a product by its identifier.
	// Returns nil if not found.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByCode retrieves a product by its exact code.
	// Returns nil if not found.
	FindByCode(ctx context.Context, code string) (*Product, error)

	// Search retrieves products whose name contains term or whose code
	// equals it. An empty term returns all products.
	Search(ctx context.Context, term string) ([]*Product, error)

	// FindAll retrieves all products.
	FindAll(ctx context.Context) ([]*Product, error)

	// Insert creates a new product and fills in its assigned ID.
	Insert(ctx context.Context, p *Product) error

	// Update updates an existing product.
	Update(ctx context.Context, p *Product) error

	// Delete removes a product by its identifier.
	Delete(ctx context.Context, id int64) error
}
