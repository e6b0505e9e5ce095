package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums the counter samples of family name whose labels include want.
func counterValue(t *testing.T, m *Metrics, name string, want map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if hasLabels(metric, want) {
				total += metric.GetCounter().GetValue()
			}
		}
	}
	return total
}

func hasLabels(metric *dto.Metric, want map[string]string) bool {
	matched := 0
	for _, lp := range metric.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.OrderPlaced()
	m.OrderPlaced()
	m.OrderFailed(ReasonInsufficientStock)
	m.LoginAttempt(LoginFailure)
	m.ObserveHTTP(http.MethodPost, "/api/orders", http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m, "pulse_shop_orders_placed_total", nil))
	assert.Equal(t, 1.0, counterValue(t, m, "pulse_shop_orders_failed_total", map[string]string{"reason": ReasonInsufficientStock}))
	assert.Equal(t, 0.0, counterValue(t, m, "pulse_shop_orders_failed_total", map[string]string{"reason": ReasonProductNotFound}))
	assert.Equal(t, 1.0, counterValue(t, m, "pulse_shop_admin_login_attempts_total", map[string]string{"result": LoginFailure}))
	assert.Equal(t, 1.0, counterValue(t, m, "pulse_shop_http_requests_total", map[string]string{
		"method": "POST", "route": "/api/orders", "status": "200",
	}))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.OrderPlaced()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pulse_shop_orders_placed_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.OrderPlaced()

	assert.Equal(t, 1.0, counterValue(t, a, "pulse_shop_orders_placed_total", nil))
	assert.Equal(t, 0.0, counterValue(t, b, "pulse_shop_orders_placed_total", nil))
}
