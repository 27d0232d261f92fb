package dto

import (
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CreateMovementRequest body para POST /movements.
type CreateMovementRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int64   `json:"quantity"`
	Type      string  `json:"type"`
	Reason    *string `json:"reason,omitempty"`
	Date      *string `json:"date,omitempty"` // ISO-8601; vacío = fecha del servidor
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"productId"`
	Quantity  int64      `json:"quantity"`
	Type      string     `json:"type"`
	Reason    *string    `json:"reason"`
	Date      *time.Time `json:"date"`
}

// MovementQuery parámetros de GET /movements.
type MovementQuery struct {
	ProductID *int64
	Type      *string
	FromDate  *time.Time
	ToDate    *time.Time
	PageRequest
}

// StockQuery parámetros de GET /stock.
type StockQuery struct {
	ProductID *int64
	PageRequest
}

// StockResponse salida de una fila de stock.
type StockResponse struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Quantity  int64   `json:"quantity"`
	Location  *string `json:"location"`
}

// ToMovementResponse mapea la entidad al DTO (fechas en UTC).
func ToMovementResponse(m *entity.InventoryMovement) MovementResponse {
	out := MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Type:      string(m.Type),
		Reason:    m.Reason,
	}
	if m.Date != nil {
		d := m.Date.UTC()
		out.Date = &d
	}
	return out
}

// ToStockResponse mapea la entidad al DTO.
func ToStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ID:        s.ID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Location:  s.Location,
	}
}

// Formatos de fecha aceptados en la API (ISO-8601).
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate interpreta una fecha ISO-8601. Cadena vacía = nil (sin fecha).
// Las fechas sin zona se interpretan en UTC.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
