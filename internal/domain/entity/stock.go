package entity

import "time"

// Stock representa el saldo disponible de un producto (una fila por producto).
// Se actualiza en la misma unidad atómica que cada movimiento aceptado.
type Stock struct {
	ID        int64
	ProductID int64
	Quantity  int64
	Location  *string
	UpdatedAt time.Time
}

// Clone devuelve una copia profunda.
func (s *Stock) Clone() *Stock {
	if s == nil {
		return nil
	}
	c := *s
	if s.Location != nil {
		l := *s.Location
		c.Location = &l
	}
	return &c
}
