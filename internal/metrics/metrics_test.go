package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveRequest("POST", "/v1/movements", 201, 15*time.Millisecond)
	m.ObserveRequest("POST", "/v1/movements", 201, 20*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)
	m.MovementCreated("TRANSFER")
	m.MovementReversed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/v1/movements", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("TRANSFER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reversals))
}

func TestHandler(t *testing.T) {
	m := New()
	m.MovementCreated("DEPOSIT")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `vivesbank_movements_created_total{type="DEPOSIT"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
