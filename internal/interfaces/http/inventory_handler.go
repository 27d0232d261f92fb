package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del ledger de movimientos y del stock.
type InventoryHandler struct {
	register *inventory.RegisterMovementUseCase
	queries  *inventory.QueryUseCase
	reports  *inventory.ReportUseCase
}

// NewInventoryHandler construye el handler. reports puede ser nil (ruta de kardex deshabilitada).
func NewInventoryHandler(
	register *inventory.RegisterMovementUseCase,
	queries *inventory.QueryUseCase,
	reports *inventory.ReportUseCase,
) *InventoryHandler {
	return &InventoryHandler{register: register, queries: queries, reports: reports}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Valida cantidad y tipo (in > 0, out < 0), agrega el movimiento y ajusta el stock del producto en la misma transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMovementRequest  true  "productId, quantity (con signo), type (in|out), reason, date"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Detail: "cuerpo inválido"})
	}
	out, err := h.register.CreateMovement(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Filtros en orden productId, type, fromDate, toDate; luego offset y limit. Con rango de fechas se excluyen movimientos sin fecha.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        productId  query     int     false  "ID de producto"
// @Param        type       query     string  false  "in | out"
// @Param        fromDate   query     string  false  "Fecha inicial inclusiva (RFC 3339 o YYYY-MM-DD)"
// @Param        toDate     query     string  false  "Fecha final inclusiva (RFC 3339 o YYYY-MM-DD)"
// @Param        limit      query     int     false  "1..1000 (default 100)"
// @Param        offset     query     int     false  ">= 0 (default 0)"
// @Success      200        {array}   dto.MovementResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      500        {object}  dto.ErrorResponse
// @Router       /movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q, err := parseMovementQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.queries.ListMovements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetMovement godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeError(c, domain.NewMovementError(domain.ErrInvalidInput, "id debe ser un entero positivo"))
	}
	out, err := h.queries.GetMovement(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MovementReport godoc
// @Summary      Kardex de movimientos en PDF
// @Description  Mismos filtros que GET /movements; incluye totales de entradas, salidas y neto.
// @Tags         movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        productId  query     int     false  "ID de producto"
// @Param        type       query     string  false  "in | out"
// @Param        fromDate   query     string  false  "Fecha inicial inclusiva"
// @Param        toDate     query     string  false  "Fecha final inclusiva"
// @Param        limit      query     int     false  "1..1000 (default 100)"
// @Param        offset     query     int     false  ">= 0 (default 0)"
// @Success      200        {file}    binary
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /movements/report [get]
func (h *InventoryHandler) MovementReport(c *fiber.Ctx) error {
	q, err := parseMovementQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.reports.GeneratePDF(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="kardex.pdf"`)
	return c.Send(pdf)
}

// ListStock godoc
// @Summary      Listar stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  query     int  false  "ID de producto"
// @Param        limit      query     int  false  "1..1000 (default 100)"
// @Param        offset     query     int  false  ">= 0 (default 0)"
// @Success      200        {array}   dto.StockResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      500        {object}  dto.ErrorResponse
// @Router       /stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	var q dto.StockQuery
	var err error
	if q.ProductID, err = queryInt64(c, "productId"); err != nil {
		return writeError(c, err)
	}
	if q.PageRequest, err = parsePage(c); err != nil {
		return writeError(c, err)
	}
	list, err := h.queries.ListStock(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ── Parsing de query params ───────────────────────────────────────────────────

func parseMovementQuery(c *fiber.Ctx) (dto.MovementQuery, error) {
	var q dto.MovementQuery
	var err error
	if q.ProductID, err = queryInt64(c, "productId"); err != nil {
		return q, err
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		q.Type = &t
	}
	if q.FromDate, err = dto.ParseDate(c.Query("fromDate")); err != nil {
		return q, domain.NewMovementError(domain.ErrInvalidInput, "fromDate debe ser una fecha ISO-8601")
	}
	if q.ToDate, err = dto.ParseDate(c.Query("toDate")); err != nil {
		return q, domain.NewMovementError(domain.ErrInvalidInput, "toDate debe ser una fecha ISO-8601")
	}
	q.PageRequest, err = parsePage(c)
	return q, err
}

func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	for key, dst := range map[string]**int{"limit": &p.Limit, "offset": &p.Offset} {
		v, err := queryInt64(c, key)
		if err != nil {
			return p, err
		}
		if v != nil {
			n := int(*v)
			*dst = &n
		}
	}
	return p, nil
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.NewMovementError(domain.ErrInvalidInput, key+" debe ser un entero")
	}
	return &n, nil
}

// ── Errores ───────────────────────────────────────────────────────────────────

// writeError traduce errores de dominio a status HTTP y cuerpo {code, detail}.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	switch {
	case domain.IsValidation(err):
		var me *domain.MovementError
		detail := err.Error()
		if errors.As(err, &me) {
			detail = me.Error()
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Detail: detail})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: code, Detail: "movimiento no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Detail: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: code, Detail: err.Error()})
	case errors.Is(err, domain.ErrStorageFault):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: code, Detail: "error de almacenamiento, intente de nuevo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: code, Detail: "error interno"})
	}
}
