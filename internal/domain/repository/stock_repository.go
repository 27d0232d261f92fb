package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockFilter criterios para consultar stock.
type StockFilter struct {
	ProductID *int64
	Limit     int
	Offset    int
}

// StockRepository define el puerto para consultar/actualizar el saldo por producto.
// ApplyDelta se usa dentro de transacciones junto con el Append del movimiento.
type StockRepository interface {
	ApplyDelta(ctx context.Context, productID, delta int64, at time.Time) (*entity.Stock, error)
	Query(ctx context.Context, filter StockFilter) ([]*entity.Stock, error)
}

// Paginate aplica offset y limit sobre un slice ya filtrado y ordenado.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
