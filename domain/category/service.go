package category

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors for category operations.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateName    = errors.New("category with this name already exists")
	ErrInvalidType      = errors.New("invalid category type")
)

// Service provides business logic for category management.
type Service struct {
	repo Repository
}

// NewService creates a new category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetCategory retrieves a category by ID.
func (s *Service) GetCategory(ctx context.Context, id int64) (*Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// ListCategories retrieves all categories, sorted by name.
func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}

// CreateCategory validates and creates a new category.
func (s *Service) CreateCategory(ctx context.Context, c *Category) error {
	if err := s.validate(c); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, c.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, c.Name)
	}

	return s.repo.Insert(ctx, c)
}

// UpdateCategory validates and updates an existing category.
func (s *Service) UpdateCategory(ctx context.Context, c *Category) error {
	if err := s.validate(c); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, c.Name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != c.ID {
		return fmt.Errorf("%w: %s", ErrDuplicateName, c.Name)
	}

	return s.repo.Update(ctx, c)
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(c *Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category name cannot be empty")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, c.Type)
	}
	return nil
}
