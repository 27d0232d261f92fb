package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos en el ledger de forma transaccional:
// valida, agrega el movimiento y aplica su cantidad al stock del producto en la misma unidad atómica.
// Es el único punto de entrada que crea movimientos.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	events   EventPublisher
	metrics  MovementMetrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. events y metrics pueden ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	events EventPublisher,
	metrics MovementMetrics,
	log zerolog.Logger,
) *RegisterMovementUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		events:   events,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// CandidateFromRequest adapta el body HTTP al candidato de dominio.
func CandidateFromRequest(in dto.CreateMovementRequest) (dominv.MovementCandidate, error) {
	var date *time.Time
	if in.Date != nil {
		d, err := dto.ParseDate(*in.Date)
		if err != nil {
			return dominv.MovementCandidate{}, domain.NewMovementError(domain.ErrInvalidInput, "date debe ser una fecha ISO-8601")
		}
		date = d
	}
	reason := in.Reason
	if reason != nil && *reason == "" {
		reason = nil
	}
	return dominv.MovementCandidate{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Type:      entity.MovementType(in.Type),
		Reason:    reason,
		Date:      date,
	}, nil
}

// CreateMovement valida el candidato y, si es válido, lo persiste junto con el ajuste de stock.
// Los errores de validación se devuelven sin tocar el almacén; los fallos de persistencia
// se envuelven con domain.ErrStorageFault.
func (uc *RegisterMovementUseCase) CreateMovement(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	candidate, err := CandidateFromRequest(in)
	if err == nil {
		err = dominv.Validate(candidate)
	}
	if err != nil {
		uc.metrics.MovementRejected(domain.Code(err))
		uc.log.Warn().
			Int64("product_id", in.ProductID).
			Int64("quantity", in.Quantity).
			Str("type", in.Type).
			Str("code", domain.Code(err)).
			Msg("movimiento rechazado")
		return nil, err
	}

	now := uc.now()
	mov := candidate.ToMovement()
	mov.CreatedAt = now
	var stock *entity.Stock

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error {
		if err := movRepo.Append(ctx, mov); err != nil {
			return err
		}
		s, err := stockRepo.ApplyDelta(ctx, mov.ProductID, mov.Quantity, now)
		if err != nil {
			return err
		}
		stock = s
		return nil
	})
	if err != nil {
		// El almacén rechaza un stock fuera de rango como entrada inválida, no como fallo.
		if domain.IsValidation(err) {
			uc.metrics.MovementRejected(domain.Code(err))
			uc.log.Warn().Err(err).Int64("product_id", mov.ProductID).Msg("movimiento rechazado")
			return nil, err
		}
		if !errors.Is(err, domain.ErrStorageFault) {
			err = domain.StorageFault("registrar movimiento", err)
		}
		uc.metrics.MovementRejected(domain.Code(err))
		uc.log.Error().Err(err).Int64("product_id", mov.ProductID).Msg("registrar movimiento")
		return nil, err
	}

	out := dto.ToMovementResponse(mov)
	uc.metrics.MovementAccepted(mov.Type)
	uc.log.Info().
		Int64("id", mov.ID).
		Int64("product_id", mov.ProductID).
		Int64("quantity", mov.Quantity).
		Int64("stock", stock.Quantity).
		Msg("movimiento registrado")

	evt := MovementCreatedEvent{
		EventID:    uuid.New().String(),
		Movement:   out,
		Stock:      dto.ToStockResponse(stock),
		OccurredAt: now.UTC(),
	}
	// Publicación best effort: el movimiento ya está confirmado.
	if err := uc.events.PublishMovementCreated(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Int64("id", mov.ID).Msg("publicar evento de movimiento")
	}
	return &out, nil
}
