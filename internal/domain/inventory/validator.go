package inventory

import (
	"math"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Mensajes mostrados al usuario final.
const (
	MsgZeroQuantity     = "La cantidad no puede ser cero"
	MsgPositiveForIn    = "La cantidad debe ser positiva para movimientos de entrada"
	MsgNegativeForOut   = "La cantidad debe ser negativa para movimientos de salida"
	MsgInvalidType      = "El tipo de movimiento debe ser 'in' u 'out'"
	MsgInvalidProductID = "productId debe ser un entero positivo"
	MsgStockOutOfRange  = "El stock resultante excede el rango permitido"
)

// MovementCandidate movimiento propuesto, aún sin identidad asignada.
type MovementCandidate struct {
	ProductID int64
	Quantity  int64
	Type      entity.MovementType
	Reason    *string
	Date      *time.Time
}

// Validate aplica las invariantes del ledger antes de persistir (servicio de dominio puro):
// cantidad distinta de cero, positiva en "in", negativa en "out".
// No corrige el signo: un candidato inconsistente se rechaza.
func Validate(c MovementCandidate) error {
	if c.ProductID <= 0 {
		return domain.NewMovementError(domain.ErrInvalidInput, MsgInvalidProductID)
	}
	if !c.Type.Valid() {
		return domain.NewMovementError(domain.ErrInvalidType, MsgInvalidType)
	}
	if c.Quantity == 0 {
		return domain.NewMovementError(domain.ErrZeroQuantity, MsgZeroQuantity)
	}
	if c.Type == entity.MovementTypeIn && c.Quantity < 0 {
		return domain.NewMovementError(domain.ErrSignMismatch, MsgPositiveForIn)
	}
	if c.Type == entity.MovementTypeOut && c.Quantity > 0 {
		return domain.NewMovementError(domain.ErrSignMismatch, MsgNegativeForOut)
	}
	return nil
}

// NextStockQuantity suma delta al stock actual. Un resultado fuera del rango int64 se rechaza
// como entrada inválida: el stock debe seguir siendo la suma exacta de los movimientos.
func NextStockQuantity(current, delta int64) (int64, error) {
	if (delta > 0 && current > math.MaxInt64-delta) || (delta < 0 && current < math.MinInt64-delta) {
		return 0, domain.NewMovementError(domain.ErrInvalidInput, MsgStockOutOfRange)
	}
	return current + delta, nil
}

// ToMovement construye la entidad a partir de un candidato ya validado.
func (c MovementCandidate) ToMovement() *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		Type:      c.Type,
		Reason:    c.Reason,
		Date:      c.Date,
	}
}
