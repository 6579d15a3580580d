package application

import (
	"context"
	"fmt"
	"log/slog"

	"inventario-go/core/registry"
	"inventario-go/domain/category"
	"inventario-go/domain/movement"
	"inventario-go/domain/product"
	"inventario-go/infrastructure/repository"
)

// Service keys used across the application. Factories resolve their
// dependencies through these keys, never through direct references.
const (
	ServiceDatabase        = "database"
	ServiceCategoryService = "category_service"
	ServiceProductService  = "product_service"
	ServiceMovementService = "movement_service"
)

// BootstrapConfig holds configuration for Bootstrap.
type BootstrapConfig struct {
	Database *repository.SQLiteConfig
	Logger   *slog.Logger
}

// Bootstrap creates the service registry and registers the factories for
// every application service. Nothing is constructed here; services are
// built lazily on first Resolve, and the database connection only opens
// once something actually needs it.
func Bootstrap(ctx context.Context, cfg *BootstrapConfig) (*registry.Registry, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Database == nil {
		cfg.Database = repository.DefaultSQLiteConfig()
	}

	reg := registry.New(cfg.Logger)
	logger := cfg.Logger
	dbCfg := cfg.Database

	registrations := []struct {
		key     string
		factory registry.Factory
	}{
		{ServiceDatabase, func(r *registry.Registry) (any, error) {
			return repository.NewSQLiteDB(ctx, dbCfg, logger)
		}},
		{ServiceCategoryService, func(r *registry.Registry) (any, error) {
			db, err := registry.As[*repository.SQLiteDB](r, ServiceDatabase)
			if err != nil {
				return nil, err
			}
			return category.NewService(repository.NewSQLiteCategoryRepository(db, logger)), nil
		}},
		{ServiceProductService, func(r *registry.Registry) (any, error) {
			db, err := registry.As[*repository.SQLiteDB](r, ServiceDatabase)
			if err != nil {
				return nil, err
			}
			return product.NewService(repository.NewSQLiteProductRepository(db, logger)), nil
		}},
		{ServiceMovementService, func(r *registry.Registry) (any, error) {
			db, err := registry.As[*repository.SQLiteDB](r, ServiceDatabase)
			if err != nil {
				return nil, err
			}
			return movement.NewService(
				repository.NewSQLiteMovementRepository(db, logger),
				repository.NewSQLiteProductRepository(db, logger),
			), nil
		}},
	}

	for _, entry := range registrations {
		if err := reg.Register(entry.key, entry.factory); err != nil {
			return nil, fmt.Errorf("register %s: %w", entry.key, err)
		}
	}

	return reg, nil
}

// Services bundles the resolved domain services for the presentation layer.
type Services struct {
	Categories *category.Service
	Products   *product.Service
	Movements  *movement.Service
}

// ResolveServices resolves the three domain services from the registry.
func ResolveServices(reg *registry.Registry) (*Services, error) {
	categories, err := registry.As[*category.Service](reg, ServiceCategoryService)
	if err != nil {
		return nil, err
	}
	products, err := registry.As[*product.Service](reg, ServiceProductService)
	if err != nil {
		return nil, err
	}
	movements, err := registry.As[*movement.Service](reg, ServiceMovementService)
	if err != nil {
		return nil, err
	}
	return &Services{Categories: categories, Products: products, Movements: movements}, nil
}
