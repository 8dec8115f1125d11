package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	NotificationProcessed = "processed"
	NotificationIgnored   = "ignored"
	NotificationFailed    = "failed"
)

// Recorder holds the service's Prometheus collectors. A nil Recorder records nothing.
type Recorder struct {
	notifications    *prometheus.CounterVec
	deliveries       *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_notifications_total",
				Help: "Total number of payment notifications received, by result",
			},
			[]string{"result"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_deliveries_total",
				Help: "Total number of outbound webhook delivery attempts",
			},
			[]string{"source", "success"},
		),
		deliveryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhook_delivery_duration_seconds",
				Help:    "Duration of outbound webhook delivery attempts",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}

	reg.MustRegister(r.notifications, r.deliveries, r.deliveryDuration)
	return r
}

func (r *Recorder) IncNotification(result string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveDelivery(source string, success bool, duration time.Duration) {
	if r == nil {
		return
	}
	r.deliveries.WithLabelValues(source, strconv.FormatBool(success)).Inc()
	r.deliveryDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
