package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors for product operations.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is inactive")
	ErrDuplicateCode   = errors.New("product with this code already exists")
)

// Service provides business logic for product management.
type Service struct {
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// GetByCode retrieves a product by its barcode or internal code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrProductNotFound
	}

	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Search retrieves active products matching term by name or exact code,
// sorted by name then code for stable ordering.
func (s *Service) Search(ctx context.Context, term string) ([]*Product, error) {
	products, err := s.repo.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, err
	}

	active := products[:0]
	for _, p := range products {
		if p.Active {
			active = append(active, p)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Name != active[j].Name {
			return active[i].Name < active[j].Name
		}
		return active[i].Code < active[j].Code
	})

	return active, nil
}

// ListProducts retrieves all products, active or not.
func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

// CreateProduct validates and creates a new product.
func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := s.validate(p); err != nil {
		return err
	}

	existing, err := s.repo.FindByCode(ctx, p.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, p.Code)
	}

	p.Active = true
	return s.repo.Insert(ctx, p)
}

// UpdateProduct validates and updates an existing product.
func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := s.validate(p); err != nil {
		return err
	}

	existing, err := s.repo.FindByCode(ctx, p.Code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != p.ID {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, p.Code)
	}

	return s.repo.Update(ctx, p)
}

// Deactivate marks a product as inactive, keeping its movement history.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	return s.repo.Update(ctx, p)
}

func (s *Service) validate(p *Product) error {
	if strings.TrimSpace(p.Code) == "" {
		return errors.New("product code cannot be empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name cannot be empty")
	}
	if p.CategoryID == 0 {
		return errors.New("product must belong to a category")
	}
	if p.SalePrice < 0 || p.PurchasePrice < 0 {
		return errors.New("product prices cannot be negative")
	}
	if p.TaxRate < 0 || p.TaxRate > 100 {
		return errors.New("tax rate must be between 0 and 100")
	}
	return nil
}
