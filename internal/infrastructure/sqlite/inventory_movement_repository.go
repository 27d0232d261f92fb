package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre SQLite (usable con db o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar db o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

type movementRow struct {
	ID        int64          `db:"id"`
	ProductID int64          `db:"product_id"`
	Quantity  int64          `db:"quantity"`
	Type      string         `db:"type"`
	Reason    sql.NullString `db:"reason"`
	Date      sql.NullString `db:"date"`
	CreatedAt string         `db:"created_at"`
}

func (r movementRow) toEntity() (*entity.InventoryMovement, error) {
	m := &entity.InventoryMovement{
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Type:      entity.MovementType(r.Type),
	}
	if r.Reason.Valid {
		reason := r.Reason.String
		m.Reason = &reason
	}
	if r.Date.Valid {
		d, err := parseTime(r.Date.String)
		if err != nil {
			return nil, fmt.Errorf("fecha corrupta en movimiento %d: %w", r.ID, err)
		}
		m.Date = &d
	}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at corrupto en movimiento %d: %w", r.ID, err)
	}
	m.CreatedAt = created
	return m, nil
}

const movementColumns = `id, product_id, quantity, type, reason, date, created_at`

// Append asigna el siguiente ID y persiste. Con *sqlx.DB abre su propia transacción.
func (r *InventoryMovementRepo) Append(ctx context.Context, m *entity.InventoryMovement) error {
	if db, ok := r.q.(*sqlx.DB); ok {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if err := appendMovement(ctx, tx, m); err != nil {
			return err
		}
		return tx.Commit()
	}
	return appendMovement(ctx, r.q, m)
}

func appendMovement(ctx context.Context, q Querier, m *entity.InventoryMovement) error {
	var next int64
	if err := sqlx.GetContext(ctx, q, &next, `SELECT COALESCE(MAX(id), 0) + 1 FROM inventory_movements`); err != nil {
		return fmt.Errorf("siguiente id de movimiento: %w", err)
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.Date == nil {
		d := m.CreatedAt.UTC()
		m.Date = &d
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO inventory_movements(`+movementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		next, m.ProductID, m.Quantity, string(m.Type), m.Reason, formatTime(*m.Date), formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	m.ID = next
	return nil
}

// Query lista movimientos filtrados en orden de inserción (id ascendente).
func (r *InventoryMovementRepo) Query(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var where []string
	var args []any
	if f.ProductID != nil {
		where = append(where, "product_id = ?")
		args = append(args, *f.ProductID)
	}
	if f.Type != nil {
		where = append(where, "type = ?")
		args = append(args, string(*f.Type))
	}
	if f.HasDateBounds() {
		where = append(where, "date IS NOT NULL")
	}
	if f.FromDate != nil {
		where = append(where, "date >= ?")
		args = append(args, formatTime(*f.FromDate))
	}
	if f.ToDate != nil {
		where = append(where, "date <= ?")
		args = append(args, formatTime(*f.ToDate))
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = -1 // sin límite en SQLite
	}
	query += " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	list := make([]*entity.InventoryMovement, 0, len(rows))
	for _, row := range rows {
		m, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryMovement, error) {
	var row movementRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return row.toEntity()
}
