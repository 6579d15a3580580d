package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"inventario-go/domain/category"
)

// SQLiteCategoryRepository implements category.Repository on SQLite.
type SQLiteCategoryRepository struct {
	db     *SQLiteDB
	logger *slog.Logger
}

// NewSQLiteCategoryRepository creates a new category repository.
func NewSQLiteCategoryRepository(db *SQLiteDB, logger *slog.Logger) *SQLiteCategoryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteCategoryRepository{db: db, logger: logger}
}

func (r *SQLiteCategoryRepository) FindByID(ctx context.Context, id int64) (*category.Category, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT id, name, type FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

func (r *SQLiteCategoryRepository) FindByName(ctx context.Context, name string) (*category.Category, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT id, name, type FROM categories WHERE name = ?`, name)
	return scanCategory(row)
}

func (r *SQLiteCategoryRepository) FindAll(ctx context.Context) ([]*category.Category, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT id, name, type FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *SQLiteCategoryRepository) Insert(ctx context.Context, c *category.Category) error {
	result, err := r.db.DB().ExecContext(ctx,
		`INSERT INTO categories (name, type) VALUES (?, ?)`, c.Name, c.Type)
	if err != nil {
		return err
	}
	c.ID, err = result.LastInsertId()
	return err
}

func (r *SQLiteCategoryRepository) Update(ctx context.Context, c *category.Category) error {
	_, err := r.db.DB().ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ? WHERE id = ?`, c.Name, c.Type, c.ID)
	return err
}

func (r *SQLiteCategoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`, id)
	return err
}

func scanCategory(row *sql.Row) (*category.Category, error) {
	var c category.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Type); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
