package dto

import (
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// Límites de paginación para listados del ledger y de stock.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// PageRequest paginación para listados (nil = valor por defecto).
type PageRequest struct {
	Limit  *int `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}

// Resolve aplica valores por defecto y valida rangos: limit 1..1000, offset >= 0.
func (p PageRequest) Resolve() (limit, offset int, err error) {
	limit, offset = DefaultLimit, 0
	if p.Limit != nil {
		if *p.Limit < 1 || *p.Limit > MaxLimit {
			return 0, 0, domain.NewMovementError(domain.ErrInvalidInput,
				fmt.Sprintf("limit debe estar entre 1 y %d", MaxLimit))
		}
		limit = *p.Limit
	}
	if p.Offset != nil {
		if *p.Offset < 0 {
			return 0, 0, domain.NewMovementError(domain.ErrInvalidInput, "offset no puede ser negativo")
		}
		offset = *p.Offset
	}
	return limit, offset, nil
}

// ErrorResponse cuerpo de error HTTP. Detail es el texto mostrado al usuario.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}
