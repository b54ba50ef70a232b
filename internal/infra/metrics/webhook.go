package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		notificationsTotal,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Inbound gateway webhooks by outcome.",
		},
		[]string{"result"}, // accepted|ignored|bad_signature|missing_reference|error
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "E-mail notification requests by outcome.",
		},
		[]string{"result"}, // accepted|invalid|error
	)
)

func IncWebhookEvent(result string) {
	webhookEventsTotal.WithLabelValues(norm(result)).Inc()
}

func IncNotification(result string) {
	notificationsTotal.WithLabelValues(norm(result)).Inc()
}
