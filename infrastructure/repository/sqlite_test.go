package repository

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"inventario-go/domain/category"
	"inventario-go/domain/movement"
	"inventario-go/domain/product"
)

func openTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	cfg := &SQLiteConfig{Path: ":memory:", BusyTimeout: time.Second}
	db, err := NewSQLiteDB(context.Background(), cfg, slog.Default())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedCategory(t *testing.T, db *SQLiteDB) *category.Category {
	t.Helper()

	repo := NewSQLiteCategoryRepository(db, slog.Default())
	c := &category.Category{Name: "Cables", Type: category.TypeMaterial}
	if err := repo.Insert(context.Background(), c); err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	return c
}

func seedProduct(t *testing.T, db *SQLiteDB, categoryID int64, code string, stock int) *product.Product {
	t.Helper()

	repo := NewSQLiteProductRepository(db, slog.Default())
	p := &product.Product{
		Code:       code,
		Name:       "Cable UTP " + code,
		CategoryID: categoryID,
		Stock:      stock,
		SalePrice:  12.5,
		TaxRate:    7,
		Active:     true,
	}
	if err := repo.Insert(context.Background(), p); err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return p
}

func TestSQLiteCategoryRepository_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteCategoryRepository(db, slog.Default())
	ctx := context.Background()

	c := &category.Category{Name: "Pinturas", Type: category.TypeMaterial}
	if err := repo.Insert(ctx, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if c.ID == 0 {
		t.Fatalf("Expected assigned ID")
	}

	found, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil || found.Name != "Pinturas" || found.Type != category.TypeMaterial {
		t.Errorf("FindByID returned %+v", found)
	}

	byName, err := repo.FindByName(ctx, "Pinturas")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if byName == nil || byName.ID != c.ID {
		t.Errorf("FindByName returned %+v", byName)
	}

	c.Name = "Pinturas y Solventes"
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	updated, _ := repo.FindByID(ctx, c.ID)
	if updated.Name != "Pinturas y Solventes" {
		t.Errorf("Update not persisted: %s", updated.Name)
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID after delete failed: %v", err)
	}
	if gone != nil {
		t.Errorf("Expected nil after delete, got %+v", gone)
	}
}

func TestSQLiteProductRepository_FindByCode(t *testing.T) {
	db := openTestDB(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID, "7501", 10)

	repo := NewSQLiteProductRepository(db, slog.Default())
	ctx := context.Background()

	found, err := repo.FindByCode(ctx, "7501")
	if err != nil {
		t.Fatalf("FindByCode failed: %v", err)
	}
	if found == nil || found.ID != p.ID || found.Stock != 10 || !found.Active {
		t.Errorf("FindByCode returned %+v", found)
	}

	missing, err := repo.FindByCode(ctx, "9999")
	if err != nil {
		t.Fatalf("FindByCode failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown code, got %+v", missing)
	}
}

func TestSQLiteProductRepository_Search(t *testing.T) {
	db := openTestDB(t)
	c := seedCategory(t, db)
	seedProduct(t, db, c.ID, "7501", 10)
	seedProduct(t, db, c.ID, "7502", 5)

	repo := NewSQLiteProductRepository(db, slog.Default())
	ctx := context.Background()

	// Case-insensitive name match.
	results, err := repo.Search(ctx, "cable utp")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Name search: expected 2 results, got %d", len(results))
	}

	// Exact code match.
	results, err = repo.Search(ctx, "7502")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Code != "7502" {
		t.Errorf("Code search returned %d results", len(results))
	}

	// Empty term returns everything.
	results, err = repo.Search(ctx, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Empty search: expected 2 results, got %d", len(results))
	}
}

func TestSQLiteMovementRepository_Apply(t *testing.T) {
	db := openTestDB(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID, "7501", 10)

	movements := NewSQLiteMovementRepository(db, slog.Default())
	products := NewSQLiteProductRepository(db, slog.Default())
	ctx := context.Background()

	m := &movement.Movement{
		ID:            uuid.NewString(),
		ProductID:     p.ID,
		Type:          movement.TypeEntry,
		Quantity:      5,
		PreviousStock: 10,
		NewStock:      15,
		CreatedAt:     time.Now(),
		Responsible:   "admin",
	}
	if err := movements.Apply(ctx, m); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	updated, _ := products.FindByID(ctx, p.ID)
	if updated.Stock != 15 {
		t.Errorf("Product stock = %d, want 15", updated.Stock)
	}

	stored, err := movements.FindByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored == nil || stored.PreviousStock != 10 || stored.NewStock != 15 {
		t.Errorf("Stored movement %+v", stored)
	}
}

func TestSQLiteMovementRepository_ApplyStockConflict(t *testing.T) {
	db := openTestDB(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID, "7501", 10)

	movements := NewSQLiteMovementRepository(db, slog.Default())
	products := NewSQLiteProductRepository(db, slog.Default())
	ctx := context.Background()

	// Movement computed against stale stock.
	m := &movement.Movement{
		ID:            uuid.NewString(),
		ProductID:     p.ID,
		Type:          movement.TypeSale,
		Quantity:      3,
		PreviousStock: 99,
		NewStock:      96,
		CreatedAt:     time.Now(),
		Responsible:   "admin",
	}
	if err := movements.Apply(ctx, m); !errors.Is(err, ErrStockConflict) {
		t.Errorf("Apply = %v, want ErrStockConflict", err)
	}

	// Neither side of the transaction may have been persisted.
	unchanged, _ := products.FindByID(ctx, p.ID)
	if unchanged.Stock != 10 {
		t.Errorf("Stock = %d after failed apply, want 10", unchanged.Stock)
	}
	stored, _ := movements.FindByID(ctx, m.ID)
	if stored != nil {
		t.Errorf("Movement persisted despite conflict")
	}
}

func TestSQLiteMovementRepository_FindByProduct(t *testing.T) {
	db := openTestDB(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID, "7501", 10)

	movements := NewSQLiteMovementRepository(db, slog.Default())
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		m := &movement.Movement{
			ID:        uuid.NewString(),
			ProductID: p.ID,
			Type:      movement.TypeAdjustment,
			Quantity:  0,
			// Zero-delta adjustments keep the stock guard satisfied.
			PreviousStock: 10,
			NewStock:      10,
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
			Responsible:   "admin",
		}
		if err := movements.Apply(ctx, m); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	history, err := movements.FindByProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByProduct failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 movements, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i-1].CreatedAt.Before(history[i].CreatedAt) {
			t.Errorf("History not newest first")
		}
	}
}
