package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"paystack-billing/internal/domain/model"
)

// labelOther replaces label values that do not come from a closed set.
const labelOther = "other"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
		subscriptionsGrantedTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment operations by operation and outcome.",
		},
		[]string{"op", "status"}, // op=initialize|verify, status=ok|failed
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "Verified payment value in major units, labeled by currency.",
		},
		[]string{"currency"},
	)

	subscriptionsGrantedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_granted_total",
			Help: "Subscriptions created by successful verification, labeled by plan.",
		},
		[]string{"plan"},
	)
)

func IncPayment(op, status string) {
	paymentsTotal.WithLabelValues(op, norm(status)).Inc()
}

// AddPaymentRevenue adds a major-unit amount. Precision beyond float64 is
// irrelevant for a counter.
func AddPaymentRevenue(currency string, amount decimal.Decimal) {
	f, _ := amount.Float64()
	paymentsRevenueTotal.WithLabelValues(currencyLabel(currency)).Add(f)
}

// IncSubscriptionGranted counts catalogue plans by name; anything else the
// gateway metadata carried is counted as "other".
func IncSubscriptionGranted(plan string) {
	subscriptionsGrantedTotal.WithLabelValues(planLabel(plan)).Inc()
}

func planLabel(plan string) string {
	if p, ok := model.LookupPlan(plan); ok {
		return norm(p.Name)
	}
	return labelOther
}

// currencyLabel keeps ISO 4217 shaped codes and folds the rest.
func currencyLabel(currency string) string {
	c := norm(currency)
	if len(c) != 3 {
		return labelOther
	}
	for _, r := range c {
		if r < 'a' || r > 'z' {
			return labelOther
		}
	}
	return c
}
