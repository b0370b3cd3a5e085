package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.SyncWrite("wishlist", "remote")
	m.SyncWrite("wishlist", "local")
	m.SyncWrite("wishlist", "local")
	m.SyncError("wishlist")
	m.CheckoutSubmitted("cod")
	m.CheckoutSubmitted("")
	m.HandoffFailed("open")
	m.CartEvent("ItemAddedToCart")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncWrites.WithLabelValues("wishlist", "remote")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.syncWrites.WithLabelValues("wishlist", "local")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncErrors.WithLabelValues("wishlist")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutSubmissions.WithLabelValues("cod")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutSubmissions.WithLabelValues("dm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handoffFailures.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartEvents.WithLabelValues("ItemAddedToCart")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SyncWrite("wishlist", "remote")
		m.SyncError("wishlist")
		m.CheckoutSubmitted("cod")
		m.HandoffFailed("copy")
		m.CartEvent("CartCleared")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SyncError("addresses")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sassynary_sync_errors_total{namespace="addresses"} 1`)
}
