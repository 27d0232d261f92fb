package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// MovementReport datos del kardex: movimientos filtrados más totales por tipo.
type MovementReport struct {
	GeneratedAt time.Time
	Query       dto.MovementQuery
	Movements   []dto.MovementResponse
	TotalIn     int64
	TotalOut    int64 // negativo (suma de salidas)
	Net         int64
}

// ReportUseCase genera el kardex en PDF a partir de la misma consulta que GET /movements.
type ReportUseCase struct {
	queries   *QueryUseCase
	generator ReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(queries *QueryUseCase, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{queries: queries, generator: generator, now: time.Now}
}

// BuildReport arma los datos del kardex sin renderizar.
func (uc *ReportUseCase) BuildReport(ctx context.Context, q dto.MovementQuery) (*MovementReport, error) {
	list, err := uc.queries.ListMovements(ctx, q)
	if err != nil {
		return nil, err
	}
	r := &MovementReport{GeneratedAt: uc.now().UTC(), Query: q, Movements: list}
	for _, m := range list {
		if m.Quantity > 0 {
			r.TotalIn += m.Quantity
		} else {
			r.TotalOut += m.Quantity
		}
	}
	r.Net = r.TotalIn + r.TotalOut
	return r, nil
}

// GeneratePDF devuelve los bytes del PDF del kardex.
func (uc *ReportUseCase) GeneratePDF(ctx context.Context, q dto.MovementQuery) ([]byte, error) {
	r, err := uc.BuildReport(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateMovementReport(ctx, *r)
}
