package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, product_id, quantity, type, reason, date, created_at`

// Append asigna max(id)+1 bajo un bloqueo SHARE ROW EXCLUSIVE (serializa escritores,
// no bloquea lectores) y persiste. Con el pool abre su propia transacción.
func (r *InventoryMovementRepo) Append(ctx context.Context, m *entity.InventoryMovement) error {
	if pool, ok := r.q.(*pgxpool.Pool); ok {
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			return appendMovement(ctx, tx, m)
		})
	}
	return appendMovement(ctx, r.q, m)
}

func appendMovement(ctx context.Context, q Querier, m *entity.InventoryMovement) error {
	if _, err := q.Exec(ctx, `LOCK TABLE inventory_movements IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock inventory_movements: %w", err)
	}
	var next int64
	if err := q.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM inventory_movements`).Scan(&next); err != nil {
		return fmt.Errorf("siguiente id de movimiento: %w", err)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.Date == nil {
		d := m.CreatedAt.UTC()
		m.Date = &d
	}
	_, err := q.Exec(ctx,
		`INSERT INTO inventory_movements (`+movementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		next, m.ProductID, m.Quantity, string(m.Type), m.Reason, *m.Date, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("id de movimiento duplicado %d: %w", next, err)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	m.ID = next
	return nil
}

// Query lista movimientos filtrados en orden de inserción (id ascendente).
func (r *InventoryMovementRepo) Query(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE TRUE`
	var args []any
	pos := 1
	if f.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, *f.ProductID)
		pos++
	}
	if f.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, string(*f.Type))
		pos++
	}
	if f.HasDateBounds() {
		query += " AND date IS NOT NULL"
	}
	if f.FromDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *f.FromDate)
		pos++
	}
	if f.ToDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *f.ToDate)
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
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryMovement, error) {
	row := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var typ string
	if err := row.Scan(&m.ID, &m.ProductID, &m.Quantity, &typ, &m.Reason, &m.Date, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	m.Type = entity.MovementType(typ)
	if m.Date != nil {
		d := m.Date.UTC()
		m.Date = &d
	}
	return &m, nil
}
