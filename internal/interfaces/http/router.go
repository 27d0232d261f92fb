package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	Queries          *inventory.QueryUseCase
	Reports          *inventory.ReportUseCase
	Metrics          *metrics.Metrics // nil = sin /metrics
	Log              zerolog.Logger
	JWTSecret        string // vacío = API abierta
	RateLimitMax     int
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	var obs RequestObserver
	if deps.Metrics != nil {
		obs = deps.Metrics
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Use(RequestID(), RequestLogger(deps.Log, obs), RateLimiter(deps.RateLimitMax))

	readers := []fiber.Handler{}
	writers := []fiber.Handler{}
	if deps.JWTSecret != "" {
		readers = append(readers, AuthMiddleware(deps.JWTSecret))
		writers = append(writers, AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero))
	}
	route := func(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, mw...), h)
	}

	h := NewInventoryHandler(deps.RegisterMovement, deps.Queries, deps.Reports)

	movements := app.Group("/movements")
	movements.Post("/", route(writers, h.CreateMovement)...)
	movements.Get("/", route(readers, h.ListMovements)...)
	if deps.Reports != nil {
		movements.Get("/report", route(readers, h.MovementReport)...)
	}
	movements.Get("/:id", route(readers, h.GetMovement)...)

	app.Get("/stock", route(readers, h.ListStock)...)
}
