package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(gatewayCallDuration) }

var gatewayCallDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "payment_gateway_call_duration_seconds",
		Help:    "Latency of payment provider calls.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	},
	[]string{"gateway", "op", "result"}, // result: ok|refused|error
)

func ObserveGatewayCall(gateway, op, result string, d time.Duration) {
	gatewayCallDuration.WithLabelValues(norm(gateway), norm(op), norm(result)).Observe(d.Seconds())
}
