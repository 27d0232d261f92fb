package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementFilter criterios para consultar el ledger. Campos nil = sin restricción.
// Orden de aplicación: ProductID → Type → FromDate → ToDate → Offset → Limit.
type MovementFilter struct {
	ProductID *int64
	Type      *entity.MovementType
	FromDate  *time.Time // inclusivo; excluye movimientos sin fecha
	ToDate    *time.Time // inclusivo; excluye movimientos sin fecha
	Limit     int
	Offset    int
}

// HasDateBounds indica si el filtro acota por fecha.
func (f MovementFilter) HasDateBounds() bool {
	return f.FromDate != nil || f.ToDate != nil
}

// Matches evalúa el filtro (sin paginación) sobre un movimiento.
func (f MovementFilter) Matches(m *entity.InventoryMovement) bool {
	if f.ProductID != nil && m.ProductID != *f.ProductID {
		return false
	}
	if f.Type != nil && m.Type != *f.Type {
		return false
	}
	if f.HasDateBounds() && m.Date == nil {
		return false
	}
	if f.FromDate != nil && m.Date.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && m.Date.After(*f.ToDate) {
		return false
	}
	return true
}

// InventoryMovementRepository define el puerto de persistencia del ledger de movimientos (append-only).
type InventoryMovementRepository interface {
	// Append asigna ID = max(ID)+1 (1 si está vacío), resuelve Date a "ahora" si es nil y persiste.
	Append(ctx context.Context, movement *entity.InventoryMovement) error
	// Query devuelve los movimientos que cumplen el filtro en orden de inserción, paginados.
	Query(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.InventoryMovement, error)
}
