package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		PaymentVerifyRequests,
		PaymentVerifyDuration,
	)
}

var (
	// Count of verify runs grouped by caller and bounded reason.
	// caller: user|service
	// reason: ok|missing_reference|unauthorized|gateway_refused|error
	PaymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of payment verifications by caller and outcome.",
		},
		[]string{"caller", "reason"},
	)

	// End-to-end verify latency (gateway call plus the write transaction).
	PaymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of payment verification in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		},
		[]string{"result"},
	)
)

func ObserveVerify(caller, reason string, d time.Duration) {
	PaymentVerifyRequests.WithLabelValues(norm(caller), norm(reason)).Inc()
	result := "fail"
	if reason == "ok" {
		result = "ok"
	}
	PaymentVerifyDuration.WithLabelValues(result).Observe(d.Seconds())
}
