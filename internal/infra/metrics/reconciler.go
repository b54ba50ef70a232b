package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		reconcileRunsTotal,
		reconciledReferencesTotal,
	)
}

var (
	reconcileRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciler_runs_total",
			Help: "Pending-reference reconciliation passes by outcome.",
		},
		[]string{"result"}, // ok|skipped|error
	)

	reconciledReferencesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciler_references_total",
			Help: "Pending references examined by the reconciler, by outcome.",
		},
		[]string{"result"}, // verified|still_pending|error
	)
)

func IncReconcileRun(result string) {
	reconcileRunsTotal.WithLabelValues(norm(result)).Inc()
}

func IncReconciledReference(result string) {
	reconciledReferencesTotal.WithLabelValues(norm(result)).Inc()
}
