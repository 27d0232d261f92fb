// Package pdf genera el kardex (listado de movimientos con totales) en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Kardex de movimientos  │  Generado: fecha UTC       │
//	│  FILTROS: producto / tipo / rango de fechas / paginación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Producto | Tipo | Cantidad | Fecha | Motivo     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Neto                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorIn      = &props.Color{Red: 0, Green: 110, Blue: 50}
	colorOut     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	author string
}

// NewMarotoReportGenerator construye el generador; author aparece en los metadatos del PDF.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{author: author}
}

// GenerateMovementReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementReport(ctx context.Context, r inventory.MovementReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de movimientos", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r.GeneratedAt))
	m.AddRows(filtersRow(r.Query))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(r.Movements) == 0 {
		m.AddRows(text.NewRow(8, "Sin movimientos para los filtros indicados", props.Text{
			Size: 8, Align: align.Center, Top: 2, Color: colorGray,
		}))
	}
	m.AddRows(tableDetailRows(r.Movements)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("KARDEX DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+generatedAt.UTC().Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// filtersRow: resumen de la consulta que produjo el listado.
func filtersRow(q dto.MovementQuery) core.Row {
	producto := "todos"
	if q.ProductID != nil {
		producto = strconv.FormatInt(*q.ProductID, 10)
	}
	tipo := "todos"
	if q.Type != nil {
		tipo = *q.Type
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Producto: %s   |   Tipo: %s   |   Desde: %s   |   Hasta: %s",
				producto, tipo, formatDate(q.FromDate), formatDate(q.ToDate),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Producto", 2, align.Center),
		h("Tipo", 1, align.Center),
		h("Cantidad", 2, align.Right),
		h("Fecha", 3, align.Center),
		h("Motivo", 3, align.Left),
	)
}

// tableDetailRows: una fila por movimiento, en orden de registro.
func tableDetailRows(movs []dto.MovementResponse) []core.Row {
	result := make([]core.Row, 0, len(movs))
	for _, mv := range movs {
		qtyColor := colorIn
		label := "Entrada"
		if mv.Quantity < 0 {
			qtyColor = colorOut
			label = "Salida"
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(strconv.FormatInt(mv.ID, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(strconv.FormatInt(mv.ProductID, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(label, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatSigned(mv.Quantity), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: qtyColor,
			})),
			col.New(3).Add(text.New(formatDate(mv.Date), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(nonEmpty(mv.Reason, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

func totalsRow(r inventory.MovementReport) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top, Color: c})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:", 1),
			label("Salidas:", 7),
			label("Neto:", 13),
		),
		col.New(3).Add(
			value(formatSigned(r.TotalIn), 1, colorIn),
			value(formatSigned(r.TotalOut), 7, colorOut),
			value(formatSigned(r.Net), 13, colorPrimary),
		),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// formatSigned muestra el signo explícito en entradas para distinguirlas de las salidas.
func formatSigned(n int64) string {
	if n > 0 {
		return "+" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

func nonEmpty(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
