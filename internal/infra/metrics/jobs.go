package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		tasksProcessedTotal,
		taskQueueDepth,
		jobRunDuration,
	)
}

var (
	tasksProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_tasks_processed_total",
			Help: "Total number of background tasks, labeled by status.",
		},
		[]string{"status"}, // 'completed', 'failed', 'rejected', 'panicked'
	)

	taskQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Tasks waiting for a free worker.",
		},
	)

	jobRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduled_job_duration_seconds",
			Help:    "Duration of scheduled job passes.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"job", "result"},
	)
)

func IncTask(status string) {
	tasksProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func SetTaskQueueDepth(n int) {
	taskQueueDepth.Set(float64(n))
}

func ObserveJobRun(job, result string, d time.Duration) {
	jobRunDuration.WithLabelValues(norm(job), norm(result)).Observe(d.Seconds())
}
