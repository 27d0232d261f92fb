package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre SQLite (usable con db o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

type stockRow struct {
	ID        int64          `db:"id"`
	ProductID int64          `db:"product_id"`
	Quantity  int64          `db:"quantity"`
	Location  sql.NullString `db:"location"`
	UpdatedAt sql.NullString `db:"updated_at"`
}

func (r stockRow) toEntity() *entity.Stock {
	s := &entity.Stock{ID: r.ID, ProductID: r.ProductID, Quantity: r.Quantity}
	if r.Location.Valid {
		loc := r.Location.String
		s.Location = &loc
	}
	if r.UpdatedAt.Valid {
		if t, err := parseTime(r.UpdatedAt.String); err == nil {
			s.UpdatedAt = t
		}
	}
	return s
}

// ApplyDelta suma delta al stock del producto; crea la fila con el siguiente id si no existe.
// La suma se calcula en Go: SQLite convierte a REAL un entero que desborda.
func (r *StockRepo) ApplyDelta(ctx context.Context, productID, delta int64, at time.Time) (*entity.Stock, error) {
	var current int64
	err := sqlx.GetContext(ctx, r.q, &current, `SELECT quantity FROM stock WHERE product_id = ?`, productID)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	next, err := dominv.NextStockQuantity(current, delta)
	if err != nil {
		return nil, err
	}
	if exists {
		_, err = r.q.ExecContext(ctx,
			`UPDATE stock SET quantity = ?, updated_at = ? WHERE product_id = ?`,
			next, formatTime(at), productID,
		)
		if err != nil {
			return nil, fmt.Errorf("update stock: %w", err)
		}
	} else {
		_, err = r.q.ExecContext(ctx, `
			INSERT INTO stock(id, product_id, quantity, location, updated_at)
			SELECT COALESCE(MAX(id), 0) + 1, ?, ?, NULL, ? FROM stock`,
			productID, next, formatTime(at),
		)
		if err != nil {
			return nil, fmt.Errorf("insert stock: %w", err)
		}
	}
	var row stockRow
	if err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT id, product_id, quantity, location, updated_at FROM stock WHERE product_id = ?`, productID,
	); err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return row.toEntity(), nil
}

// Query lista filas de stock en orden de creación (id ascendente).
func (r *StockRepo) Query(ctx context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	query := `SELECT id, product_id, quantity, location, updated_at FROM stock`
	var args []any
	if f.ProductID != nil {
		query += ` WHERE product_id = ?`
		args = append(args, *f.ProductID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY id ASC LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	var rows []stockRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	list := make([]*entity.Stock, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
