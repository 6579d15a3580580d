package category

import "context"

// Repository defines the interface for category persistence operations.
type Repository interface {
	// FindByID retrieves a category by its identifier.
	// Returns nil if not found.
	FindByID(ctx context.Context, id int64) (*Category, error)

	// FindByName retrieves a category by its exact name.
	// Returns nil if not found.
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll retrieves all categories.
	FindAll(ctx context.Context) ([]*Category, error)

	// Insert creates a new category and fills in its assigned ID.
	Insert(ctx context.Context, c *Category) error

	// Update updates an existing category.
	Update(ctx context.Context, c *Category) error

	// Delete removes a category by its identifier.
	Delete(ctx context.Context, id int64) error
}
