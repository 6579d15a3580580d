package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"inventario-go/domain/movement"
)

// ErrStockConflict is returned when the product's stock changed between the
// service reading it and the movement being applied.
var ErrStockConflict = errors.New("product stock changed concurrently")

const movementColumns = `id, product_id, type, quantity, previous_stock, new_stock, created_at, responsible, note`

// SQLiteMovementRepository implements movement.Repository on SQLite.
type SQLiteMovementRepository struct {
	db     *SQLiteDB
	logger *slog.Logger
}

// NewSQLiteMovementRepository creates a new movement repository.
func NewSQLiteMovementRepository(db *SQLiteDB, logger *slog.Logger) *SQLiteMovementRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteMovementRepository{db: db, logger: logger}
}

// Apply records the movement and updates the product's stock in one
// transaction. The stock update is guarded by the expected previous value so
// a stale read surfaces as ErrStockConflict instead of silently corrupting
// the stock level.
func (r *SQLiteMovementRepository) Apply(ctx context.Context, m *movement.Movement) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = ? WHERE id = ? AND stock = ?`,
		m.NewStock, m.ProductID, m.PreviousStock)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("apply movement %s: %w", m.ID, ErrStockConflict)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO movements (`+movementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.PreviousStock, m.NewStock,
		m.CreatedAt, m.Responsible, m.Note)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteMovementRepository) FindByID(ctx context.Context, id string) (*movement.Movement, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE id = ?`, id)

	var m movement.Movement
	err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousStock,
		&m.NewStock, &m.CreatedAt, &m.Responsible, &m.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *SQLiteMovementRepository) FindByProduct(ctx context.Context, productID int64) ([]*movement.Movement, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements
		 WHERE product_id = ? ORDER BY created_at DESC, id`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*movement.Movement
	for rows.Next() {
		var m movement.Movement
		err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousStock,
			&m.NewStock, &m.CreatedAt, &m.Responsible, &m.Note)
		if err != nil {
			return nil, err
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}
