package entity

import "time"

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIn  MovementType = "in"  // entrada: cantidad positiva
	MovementTypeOut MovementType = "out" // salida: cantidad negativa
)

// Valid indica si el tipo es uno de los soportados por el ledger.
func (t MovementType) Valid() bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// InventoryMovement representa un movimiento del ledger. Inmutable una vez creado.
// Quantity es con signo: positiva para entradas, negativa para salidas, nunca cero.
type InventoryMovement struct {
	ID        int64
	ProductID int64
	Quantity  int64
	Type      MovementType
	Reason    *string
	Date      *time.Time // nil solo en filas importadas sin fecha
	CreatedAt time.Time
}

// Clone devuelve una copia profunda (los punteros no se comparten con el almacén).
func (m *InventoryMovement) Clone() *InventoryMovement {
	if m == nil {
		return nil
	}
	c := *m
	if m.Reason != nil {
		r := *m.Reason
		c.Reason = &r
	}
	if m.Date != nil {
		d := *m.Date
		c.Date = &d
	}
	return &c
}
