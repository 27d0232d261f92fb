package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMovementCounters(t *testing.T) {
	m := New()
	m.MovementAccepted(entity.MovementTypeIn)
	m.MovementAccepted(entity.MovementTypeIn)
	m.MovementAccepted(entity.MovementTypeOut)
	m.MovementRejected("ZERO_QUANTITY")

	body := scrape(t, m)
	assert.Contains(t, body, `inventory_ledger_movements_accepted_total{type="in"} 2`)
	assert.Contains(t, body, `inventory_ledger_movements_accepted_total{type="out"} 1`)
	assert.Contains(t, body, `inventory_ledger_movements_rejected_total{code="ZERO_QUANTITY"} 1`)
}

func TestObserveRequest_Histograma(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/movements", 200, 5*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `inventory_ledger_http_request_duration_seconds_count{method="POST",route="/movements",status="200"} 1`)
}

func TestRegistriesIndependientes(t *testing.T) {
	a, b := New(), New()
	a.MovementRejected("SIGN_MISMATCH")
	assert.NotContains(t, scrape(t, b), `code="SIGN_MISMATCH"`)
}
