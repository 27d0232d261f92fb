package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad atómica, pasando repositorios atados a ella.
// Garantiza que el movimiento y su efecto en stock se vean juntos o no se vean.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// MovementCreatedEvent se publica después de aceptar un movimiento; los consumidores
// lo usan para invalidar cachés de movimientos y de stock.
type MovementCreatedEvent struct {
	EventID    string               `json:"eventId"`
	Movement   dto.MovementResponse `json:"movement"`
	Stock      dto.StockResponse    `json:"stock"`
	OccurredAt time.Time            `json:"occurredAt"`
}

// EventPublisher puerto de publicación de eventos (NATS en producción).
type EventPublisher interface {
	PublishMovementCreated(ctx context.Context, evt MovementCreatedEvent) error
}

// MovementMetrics puerto de métricas del ledger.
type MovementMetrics interface {
	MovementAccepted(t entity.MovementType)
	MovementRejected(code string)
}

// ReportGenerator genera la representación PDF del kardex.
type ReportGenerator interface {
	GenerateMovementReport(ctx context.Context, report MovementReport) ([]byte, error)
}

type noopPublisher struct{}

func (noopPublisher) PublishMovementCreated(context.Context, MovementCreatedEvent) error { return nil }

type noopMetrics struct{}

func (noopMetrics) MovementAccepted(entity.MovementType) {}
func (noopMetrics) MovementRejected(string)              {}
