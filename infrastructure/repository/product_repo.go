package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"inventario-go/domain/product"
)

const productColumns = `id, code, name, category_id, stock, purchase_price, sale_price, tax_rate, active`

// SQLiteProductRepository implements product.Repository on SQLite.
type SQLiteProductRepository struct {
	db     *SQLiteDB
	logger *slog.Logger
}

// NewSQLiteProductRepository creates a new product repository.
func NewSQLiteProductRepository(db *SQLiteDB, logger *slog.Logger) *SQLiteProductRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteProductRepository{db: db, logger: logger}
}

func (r *SQLiteProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (r *SQLiteProductRepository) FindByCode(ctx context.Context, code string) (*product.Product, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE code = ?`, code)
	return scanProduct(row)
}

func (r *SQLiteProductRepository) Search(ctx context.Context, term string) ([]*product.Product, error) {
	if term == "" {
		return r.FindAll(ctx)
	}
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE name LIKE '%' || ? || '%' COLLATE NOCASE OR code = ?`,
		term, term)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *SQLiteProductRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *SQLiteProductRepository) Insert(ctx context.Context, p *product.Product) error {
	result, err := r.db.DB().ExecContext(ctx,
		`INSERT INTO products (code, name, category_id, stock, purchase_price, sale_price, tax_rate, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Name, p.CategoryID, p.Stock, p.PurchasePrice, p.SalePrice, p.TaxRate, p.Active)
	if err != nil {
		return err
	}
	p.ID, err = result.LastInsertId()
	return err
}

func (r *SQLiteProductRepository) Update(ctx context.Context, p *product.Product) error {
	_, err := r.db.DB().ExecContext(ctx,
		`UPDATE products
		 SET code = ?, name = ?, category_id = ?, stock = ?, purchase_price = ?, sale_price = ?, tax_rate = ?, active = ?
		 WHERE id = ?`,
		p.Code, p.Name, p.CategoryID, p.Stock, p.PurchasePrice, p.SalePrice, p.TaxRate, p.Active, p.ID)
	return err
}

func (r *SQLiteProductRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM products WHERE id = ?`, id)
	return err
}

func scanProduct(row *sql.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.CategoryID, &p.Stock,
		&p.PurchasePrice, &p.SalePrice, &p.TaxRate, &p.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*product.Product, error) {
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		var p product.Product
		err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CategoryID, &p.Stock,
			&p.PurchasePrice, &p.SalePrice, &p.TaxRate, &p.Active)
		if err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
