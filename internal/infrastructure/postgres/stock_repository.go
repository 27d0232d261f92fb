package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ApplyDelta suma delta al stock del producto. Bloquea la fila existente, verifica que la suma
// quepa en BIGINT y luego hace el upsert.
func (r *StockRepo) ApplyDelta(ctx context.Context, productID, delta int64, at time.Time) (*entity.Stock, error) {
	var current int64
	err := r.q.QueryRow(ctx, `SELECT quantity FROM stock WHERE product_id = $1 FOR UPDATE`, productID).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	if _, err := dominv.NextStockQuantity(current, delta); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO stock (product_id, quantity, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, product_id, quantity, location, updated_at`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, delta, at))
	if err != nil {
		if isNumericOutOfRange(err) {
			return nil, domain.NewMovementError(domain.ErrInvalidInput, dominv.MsgStockOutOfRange)
		}
		return nil, fmt.Errorf("upsert stock: %w", err)
	}
	return s, nil
}

// Query lista filas de stock en orden de creación (id ascendente).
func (r *StockRepo) Query(ctx context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	query := `SELECT id, product_id, quantity, location, updated_at FROM stock`
	var args []any
	pos := 1
	if f.ProductID != nil {
		query += fmt.Sprintf(" WHERE product_id = $%d", pos)
		args = append(args, *f.ProductID)
		pos++
	}
	query += " ORDER BY id ASC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	query += fmt.Sprintf(" OFFSET $%d", pos)
	args = append(args, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	if err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.Location, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// SeedStock inserta filas iniciales; los productos que ya tienen fila se omiten.
func SeedStock(ctx context.Context, pool *pgxpool.Pool, rows ...entity.Stock) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(
			`INSERT INTO stock (product_id, quantity, location) VALUES ($1, $2, $3) ON CONFLICT (product_id) DO NOTHING`,
			r.ProductID, r.Quantity, r.Location,
		)
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("sembrar stock: %w", err)
	}
	return nil
}
