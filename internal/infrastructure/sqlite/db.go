// Package sqlite implementa el ledger sobre SQLite embebido (jmoiron/sqlx + modernc.org/sqlite).
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// timeLayout ancho fijo en UTC para que la comparación lexicográfica de TEXT coincida con la cronológica.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

// Querier abstrae *sqlx.DB y *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
}

// OpenDB abre la base, limita el pool a una conexión (un único escritor; además ":memory:"
// es por conexión) y crea el esquema si no existe.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("crear esquema: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS inventory_movements(
  id         INTEGER PRIMARY KEY,
  product_id INTEGER NOT NULL,
  quantity   INTEGER NOT NULL CHECK (quantity <> 0),
  type       TEXT NOT NULL CHECK (type IN ('in','out')),
  reason     TEXT,
  date       TEXT,
  created_at TEXT NOT NULL,
  CHECK ((type = 'in' AND quantity > 0) OR (type = 'out' AND quantity < 0))
);
CREATE INDEX IF NOT EXISTS idx_movements_product ON inventory_movements(product_id);
CREATE INDEX IF NOT EXISTS idx_movements_date    ON inventory_movements(date);

CREATE TABLE IF NOT EXISTS stock(
  id         INTEGER PRIMARY KEY,
  product_id INTEGER NOT NULL UNIQUE,
  quantity   INTEGER NOT NULL DEFAULT 0,
  location   TEXT,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

// SeedStock inserta las filas de stock iniciales; los productos que ya tienen fila se omiten.
// El id lo asigna la tabla (max+1), igual que ApplyDelta.
func SeedStock(ctx context.Context, db *sqlx.DB, rows ...entity.Stock) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	now := formatTime(time.Now())
	for _, r := range rows {
		// WHERE TRUE evita la ambigüedad de INSERT ... SELECT con ON CONFLICT.
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock(id, product_id, quantity, location, updated_at)
			SELECT COALESCE(MAX(id), 0) + 1, ?, ?, ?, ? FROM stock WHERE TRUE
			ON CONFLICT(product_id) DO NOTHING`,
			r.ProductID, r.Quantity, r.Location, now,
		); err != nil {
			return fmt.Errorf("sembrar stock: %w", err)
		}
	}
	return tx.Commit()
}
