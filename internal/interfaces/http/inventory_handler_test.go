package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

func newTestServer(t *testing.T, jwtSecret string, initialStock ...entity.Stock) *testServer {
	t.Helper()
	store := memory.NewStore(initialStock...)
	movRepo := memory.NewInventoryMovementRepository(store)
	stockRepo := memory.NewStockRepository(store)
	queries := inventory.NewQueryUseCase(movRepo, stockRepo)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		RegisterMovement: inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), nil, nil, zerolog.Nop()),
		Queries:          queries,
		Reports:          inventory.NewReportUseCase(queries, pdf.NewMarotoReportGenerator("test")),
		Metrics:          metrics.New(),
		Log:              zerolog.Nop(),
		JWTSecret:        jwtSecret,
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, target, body, auth string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /movements
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_EscenarioRestock(t *testing.T) {
	srv := newTestServer(t, "", entity.Stock{ProductID: 12, Quantity: 100})
	before := time.Now().UTC().Add(-time.Second)

	resp := srv.do(t, http.MethodPost, "/movements", `{"productId":12,"quantity":50,"type":"in","reason":"restock"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)

	assert.Equal(t, int64(1), mov.ID)
	assert.Equal(t, int64(12), mov.ProductID)
	assert.Equal(t, int64(50), mov.Quantity)
	assert.Equal(t, "in", mov.Type)
	require.NotNil(t, mov.Reason)
	assert.Equal(t, "restock", *mov.Reason)
	require.NotNil(t, mov.Date, "la fecha la asigna el servidor")
	assert.True(t, mov.Date.After(before))

	stock := decode[[]dto.StockResponse](t, srv.do(t, http.MethodGet, "/stock?productId=12", "", ""))
	require.Len(t, stock, 1)
	assert.Equal(t, int64(150), stock[0].Quantity)
}

func TestCreateMovement_RechazosDeValidacion(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		code   string
		detail string
	}{
		{"cantidad cero", `{"productId":1,"quantity":0,"type":"in"}`, "ZERO_QUANTITY", "La cantidad no puede ser cero"},
		{"entrada negativa", `{"productId":1,"quantity":-5,"type":"in"}`, "SIGN_MISMATCH", "La cantidad debe ser positiva para movimientos de entrada"},
		{"salida positiva", `{"productId":1,"quantity":5,"type":"out"}`, "SIGN_MISMATCH", "La cantidad debe ser negativa para movimientos de salida"},
		{"tipo inválido", `{"productId":1,"quantity":5,"type":"transfer"}`, "INVALID_TYPE", ""},
		{"producto faltante", `{"quantity":5,"type":"in"}`, "VALIDATION", ""},
		{"fecha inválida", `{"productId":1,"quantity":5,"type":"in","date":"ayer"}`, "VALIDATION", ""},
		{"cantidad fraccionaria", `{"productId":1,"quantity":1.5,"type":"in"}`, "INVALID_BODY", ""},
		{"json roto", `{"productId":`, "INVALID_BODY", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, "")
			resp := srv.do(t, http.MethodPost, "/movements", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			e := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.code, e.Code)
			if tc.detail != "" {
				assert.Equal(t, tc.detail, e.Detail)
			}

			list := decode[[]dto.MovementResponse](t, srv.do(t, http.MethodGet, "/movements", "", ""))
			assert.Empty(t, list, "un rechazo no debe persistir nada")
		})
	}
}

func TestCreateMovement_StockFueraDeRangoDevuelve400(t *testing.T) {
	srv := newTestServer(t, "", entity.Stock{ProductID: 1, Quantity: math.MaxInt64})

	resp := srv.do(t, http.MethodPost, "/movements", `{"productId":1,"quantity":1,"type":"in"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.NotEmpty(t, errBody.Detail)

	stock := srv.do(t, http.MethodGet, "/stock?productId=1", "", "")
	rows := decode[[]dto.StockResponse](t, stock)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(math.MaxInt64), rows[0].Quantity)
}

func TestCreateMovement_StockSumaCantidadesFirmadas(t *testing.T) {
	srv := newTestServer(t, "", entity.Stock{ProductID: 7, Quantity: 10})
	for _, body := range []string{
		`{"productId":7,"quantity":5,"type":"in"}`,
		`{"productId":7,"quantity":-3,"type":"out"}`,
		`{"productId":8,"quantity":4,"type":"in"}`,
	} {
		resp := srv.do(t, http.MethodPost, "/movements", body, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	stock := decode[[]dto.StockResponse](t, srv.do(t, http.MethodGet, "/stock", "", ""))
	require.Len(t, stock, 2)
	assert.Equal(t, int64(12), stock[0].Quantity)
	assert.Equal(t, int64(8), stock[1].ProductID)
	assert.Equal(t, int64(4), stock[1].Quantity)
	assert.Nil(t, stock[1].Location)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /movements
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltrosYPaginacion(t *testing.T) {
	srv := newTestServer(t, "")
	for i := 0; i < 5; i++ {
		body := `{"productId":` + strconv.Itoa(1+i%2) + `,"quantity":1,"type":"in"}`
		resp := srv.do(t, http.MethodPost, "/movements", body, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	list := decode[[]dto.MovementResponse](t, srv.do(t, http.MethodGet, "/movements?productId=1", "", ""))
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 3, 5}, []int64{list[0].ID, list[1].ID, list[2].ID})

	page := decode[[]dto.MovementResponse](t, srv.do(t, http.MethodGet, "/movements?limit=2&offset=1", "", ""))
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)

	none := decode[[]dto.MovementResponse](t, srv.do(t, http.MethodGet, "/movements?type=out", "", ""))
	assert.Empty(t, none)
}

func TestListMovements_RangoDeFechasExcluyeSinFecha(t *testing.T) {
	srv := newTestServer(t, "")
	d1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, srv.store.LoadMovements(
		entity.InventoryMovement{ProductID: 1, Quantity: 1, Type: entity.MovementTypeIn, Date: &d1},
		entity.InventoryMovement{ProductID: 1, Quantity: 2, Type: entity.MovementTypeIn},
		entity.InventoryMovement{ProductID: 1, Quantity: -1, Type: entity.MovementTypeOut, Date: &d2},
	))

	all := decode[[]dto.MovementResponse](t, srv.do(t, http.MethodGet, "/movements", "", ""))
	assert.Len(t, all, 3)

	ranged := decode[[]dto.MovementResponse](t, srv.do(t, http.MethodGet, "/movements?fromDate=2024-01-01&toDate=2024-02-10", "", ""))
	require.Len(t, ranged, 2)
	assert.Equal(t, int64(1), ranged[0].ID)
	assert.Equal(t, int64(3), ranged[1].ID)
}

func TestListMovements_ParametrosInvalidos(t *testing.T) {
	srv := newTestServer(t, "")
	for _, target := range []string{
		"/movements?limit=0",
		"/movements?limit=1001",
		"/movements?offset=-1",
		"/movements?productId=abc",
		"/movements?type=transfer",
		"/movements?fromDate=mañana",
		"/stock?limit=5000",
	} {
		resp := srv.do(t, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		resp.Body.Close()
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /movements/:id y /movements/report
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMovement_ExistenteYNoEncontrado(t *testing.T) {
	srv := newTestServer(t, "")
	resp := srv.do(t, http.MethodPost, "/movements", `{"productId":3,"quantity":-2,"type":"out"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	got := decode[dto.MovementResponse](t, srv.do(t, http.MethodGet, "/movements/1", "", ""))
	assert.Equal(t, int64(-2), got.Quantity)

	missing := srv.do(t, http.MethodGet, "/movements/99", "", "")
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, missing).Code)

	bad := srv.do(t, http.MethodGet, "/movements/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	bad.Body.Close()
}

func TestMovementReport_DevuelvePDF(t *testing.T) {
	srv := newTestServer(t, "")
	resp := srv.do(t, http.MethodPost, "/movements", `{"productId":3,"quantity":9,"type":"in"}`, "")
	resp.Body.Close()

	resp = srv.do(t, http.MethodGet, "/movements/report?productId=3", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth, request id y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestRutas_ConJWTExigenTokenYRol(t *testing.T) {
	srv := newTestServer(t, testJWTSecret)
	body := `{"productId":1,"quantity":1,"type":"in"}`

	noToken := srv.do(t, http.MethodGet, "/movements", "", "")
	assert.Equal(t, http.StatusUnauthorized, noToken.StatusCode)
	noTokenErr := decode[dto.ErrorResponse](t, noToken)
	assert.Equal(t, "UNAUTHORIZED", noTokenErr.Code)
	assert.Equal(t, "Authorization header requerido", noTokenErr.Detail)

	vendedor := srv.do(t, http.MethodPost, "/movements", body, tokenForRole(t, "vendedor"))
	assert.Equal(t, http.StatusForbidden, vendedor.StatusCode)
	vendedorErr := decode[dto.ErrorResponse](t, vendedor)
	assert.Equal(t, "FORBIDDEN", vendedorErr.Code)
	assert.Equal(t, "rol sin permiso para esta operación", vendedorErr.Detail)

	lectura := srv.do(t, http.MethodGet, "/stock", "", tokenForRole(t, "vendedor"))
	assert.Equal(t, http.StatusOK, lectura.StatusCode)
	lectura.Body.Close()

	bodeguero := srv.do(t, http.MethodPost, "/movements", body, tokenForRole(t, "bodeguero"))
	assert.Equal(t, http.StatusOK, bodeguero.StatusCode)
	bodeguero.Body.Close()
}

func TestRequestID_EnRespuesta(t *testing.T) {
	srv := newTestServer(t, "")
	resp := srv.do(t, http.MethodGet, "/stock", "", "")
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestMetrics_CuentaMovimientosPorRuta(t *testing.T) {
	srv := newTestServer(t, "")
	resp := srv.do(t, http.MethodPost, "/movements", `{"productId":1,"quantity":1,"type":"in"}`, "")
	resp.Body.Close()

	resp = srv.do(t, http.MethodGet, "/metrics", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "inventory_ledger_http_request_duration_seconds")
}
