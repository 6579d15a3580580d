// Package repository provides data access implementations backed by SQLite.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// schema is applied on every open; statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT NOT NULL UNIQUE,
	type  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	code           TEXT NOT NULL UNIQUE,
	name           TEXT NOT NULL,
	category_id    INTEGER NOT NULL REFERENCES categories(id),
	stock          INTEGER NOT NULL DEFAULT 0,
	purchase_price REAL NOT NULL DEFAULT 0,
	sale_price     REAL NOT NULL DEFAULT 0,
	tax_rate       REAL NOT NULL DEFAULT 0,
	active         INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS movements (
	id             TEXT PRIMARY KEY,
	product_id     INTEGER NOT NULL REFERENCES products(id),
	type           TEXT NOT NULL,
	quantity       INTEGER NOT NULL,
	previous_stock INTEGER NOT NULL,
	new_stock      INTEGER NOT NULL,
	created_at     TIMESTAMP NOT NULL,
	responsible    TEXT NOT NULL,
	note           TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_movements_product
	ON movements(product_id, created_at DESC);
`

// SQLiteDB holds the database handle and applies the schema on open.
type SQLiteDB struct {
	db     *sql.DB
	logger *slog.Logger
}

// SQLiteConfig contains configuration for the SQLite database.
type SQLiteConfig struct {
	// Path is the database file path, or ":memory:" for an in-memory
	// database (used by tests).
	Path string

	// BusyTimeout is how long a statement waits on a locked database.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns default configuration with the database file
// under the user's config directory.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        filepath.Join(DefaultDataDir(), "inventario.db"),
		BusyTimeout: 5 * time.Second,
	}
}

// DefaultDataDir returns the default directory for application data.
// Tries os.UserConfigDir, falls back to os.UserCacheDir, then os.TempDir.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, err = os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
	}
	return filepath.Join(dir, "inventario")
}

// NewSQLiteDB opens the database, verifies the connection and bootstraps the
// schema.
func NewSQLiteDB(ctx context.Context, cfg *SQLiteConfig, logger *slog.Logger) (*SQLiteDB, error) {
	if cfg == nil {
		cfg = DefaultSQLiteConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: serializes writers and keeps an in-memory database
	// from evaporating between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info("Database opened", "path", cfg.Path)

	return &SQLiteDB{db: db, logger: logger}, nil
}

// Close closes the database handle.
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying handle.
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}
