package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre el ledger y el stock.
type QueryUseCase struct {
	movRepo   repository.InventoryMovementRepository
	stockRepo repository.StockRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(movRepo repository.InventoryMovementRepository, stockRepo repository.StockRepository) *QueryUseCase {
	return &QueryUseCase{movRepo: movRepo, stockRepo: stockRepo}
}

// MovementFilterFrom valida la consulta y la convierte en filtro de repositorio.
func MovementFilterFrom(q dto.MovementQuery) (repository.MovementFilter, error) {
	limit, offset, err := q.Resolve()
	if err != nil {
		return repository.MovementFilter{}, err
	}
	f := repository.MovementFilter{
		ProductID: q.ProductID,
		FromDate:  q.FromDate,
		ToDate:    q.ToDate,
		Limit:     limit,
		Offset:    offset,
	}
	if q.Type != nil {
		t := entity.MovementType(*q.Type)
		if !t.Valid() {
			return repository.MovementFilter{}, domain.NewMovementError(domain.ErrInvalidType, "type debe ser 'in' u 'out'")
		}
		f.Type = &t
	}
	return f, nil
}

// ListMovements devuelve los movimientos filtrados en orden de inserción.
func (uc *QueryUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) ([]dto.MovementResponse, error) {
	f, err := MovementFilterFrom(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.movRepo.Query(ctx, f)
	if err != nil {
		return nil, wrapStorage("listar movimientos", err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

// GetMovement obtiene un movimiento por ID. domain.ErrNotFound si no existe.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	if id <= 0 {
		return nil, domain.NewMovementError(domain.ErrInvalidInput, "id debe ser un entero positivo")
	}
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStorage("obtener movimiento", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToMovementResponse(m)
	return &out, nil
}

// ListStock devuelve las filas de stock en orden de creación.
func (uc *QueryUseCase) ListStock(ctx context.Context, q dto.StockQuery) ([]dto.StockResponse, error) {
	limit, offset, err := q.Resolve()
	if err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.Query(ctx, repository.StockFilter{
		ProductID: q.ProductID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, wrapStorage("listar stock", err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToStockResponse(s))
	}
	return out, nil
}

func wrapStorage(op string, err error) error {
	if errors.Is(err, domain.ErrStorageFault) {
		return err
	}
	return domain.StorageFault(op, err)
}
