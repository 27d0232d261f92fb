package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrInvalidType  = errors.New("tipo de movimiento inválido")
	ErrZeroQuantity = errors.New("la cantidad no puede ser cero")
	ErrSignMismatch = errors.New("el signo de la cantidad no coincide con el tipo")
	ErrStorageFault = errors.New("fallo de almacenamiento")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// MovementError error de validación con un tipo estable (Kind) y un detalle legible para el usuario.
// errors.Is(err, domain.ErrZeroQuantity) funciona gracias a Unwrap.
type MovementError struct {
	Kind   error
	Detail string
}

func (e *MovementError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.Error()
}

func (e *MovementError) Unwrap() error { return e.Kind }

// NewMovementError construye un MovementError.
func NewMovementError(kind error, detail string) *MovementError {
	return &MovementError{Kind: kind, Detail: detail}
}

// StorageFault envuelve un error de la capa de persistencia para que los clientes
// distingan "corrija la entrada" de "reintente más tarde".
func StorageFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFault, op, err)
}

// Code devuelve el código máquina estable para un error de dominio.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrZeroQuantity):
		return "ZERO_QUANTITY"
	case errors.Is(err, ErrSignMismatch):
		return "SIGN_MISMATCH"
	case errors.Is(err, ErrInvalidType):
		return "INVALID_TYPE"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrStorageFault):
		return "STORAGE_FAULT"
	default:
		return "INTERNAL"
	}
}

// IsValidation indica si el error es culpa de la entrada del cliente.
func IsValidation(err error) bool {
	return errors.Is(err, ErrZeroQuantity) ||
		errors.Is(err, ErrSignMismatch) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidInput)
}
