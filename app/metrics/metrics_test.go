package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.IncNotification(NotificationProcessed)
	r.IncNotification(NotificationProcessed)
	r.IncNotification(NotificationIgnored)
	r.ObserveDelivery("manual_test", true, 120*time.Millisecond)
	r.ObserveDelivery("webhook_delivery", false, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.notifications.WithLabelValues(NotificationProcessed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notifications.WithLabelValues(NotificationIgnored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.deliveries.WithLabelValues("manual_test", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.deliveries.WithLabelValues("webhook_delivery", "false")))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.IncNotification(NotificationFailed)
		r.ObserveDelivery("manual_test", true, time.Millisecond)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.IncNotification(NotificationFailed)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `payment_notifications_total{result="failed"} 1`))
}
