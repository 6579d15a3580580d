package movement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inventario-go/domain/product"
)

// Common errors for movement operations.
var (
	ErrMovementNotFound  = errors.New("movement not found")
	ErrInvalidType       = errors.New("invalid movement type")
	ErrZeroQuantity      = errors.New("movement quantity cannot be zero")
	ErrNegativeQuantity  = errors.New("movement quantity cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Service provides business logic for registering stock movements.
type Service struct {
	movements Repository
	products  product.Repository
}

// NewService creates a new movement service.
func NewService(movements Repository, products product.Repository) *Service {
	return &Service{movements: movements, products: products}
}

// Register validates and applies a stock movement, returning the recorded
// movement with its assigned ticket ID and resulting stock.
func (s *Service) Register(ctx context.Context, productID int64, movementType Type, quantity int, responsible, note string) (*Movement, error) {
	if !movementType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, movementType)
	}
	if quantity == 0 {
		return nil, ErrZeroQuantity
	}
	if quantity < 0 && movementType != TypeAdjustment {
		return nil, fmt.Errorf("%w for type %s", ErrNegativeQuantity, movementType)
	}
	if strings.TrimSpace(responsible) == "" {
		return nil, errors.New("movement responsible cannot be empty")
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrProductNotFound
	}
	if !p.Active && movementType != TypeAdjustment {
		return nil, fmt.Errorf("%w: %s", product.ErrProductInactive, p.Identity())
	}

	m := &Movement{
		ID:            uuid.NewString(),
		ProductID:     productID,
		Type:          movementType,
		Quantity:      quantity,
		PreviousStock: p.Stock,
		CreatedAt:     time.Now(),
		Responsible:   responsible,
		Note:          note,
	}
	m.NewStock = m.PreviousStock + m.StockDelta()

	if m.NewStock < 0 {
		return nil, fmt.Errorf("%w: stock %d, requested %d", ErrInsufficientStock, p.Stock, quantity)
	}

	if err := s.movements.Apply(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMovement retrieves a movement by its ticket identifier.
func (s *Service) GetMovement(ctx context.Context, id string) (*Movement, error) {
	m, err := s.movements.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMovementNotFound
	}
	return m, nil
}

// History retrieves all movements for a product, newest first.
func (s *Service) History(ctx context.Context, productID int64) ([]*Movement, error) {
	return s.movements.FindByProduct(ctx, productID)
}
