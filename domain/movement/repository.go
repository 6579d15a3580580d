package movement

import "context"

// Repository defines the interface for movement persistence operations.
type Repository interface {
	// Apply atomically records the movement and sets the product's stock to
	// m.NewStock. Either both happen or neither does.
	Apply(ctx context.Context, m *Movement) error

	// FindByID retrieves a movement by its ticket identifier.
	// Returns nil if not found.
	FindByID(ctx context.Context, id string) (*Movement, error)

	// FindByProduct retrieves all movements for a product, newest first.
	FindByProduct(ctx context.Context, productID int64) ([]*Movement, error)
}
