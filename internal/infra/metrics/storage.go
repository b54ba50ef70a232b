package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		dbPoolConns,
		dbPoolAcquireTotal,
		cacheRequestsTotal,
	)
}

var (
	dbPoolConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_connections",
			Help: "Postgres pool connections by state.",
		},
		[]string{"state"}, // total|idle|in_use|max
	)

	dbPoolAcquireTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_pool_acquires",
			Help: "Cumulative successful acquires reported by the pool.",
		},
	)

	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Redis cache lookups by cache and result.",
		},
		[]string{"cache", "result"}, // cache="user", result=hit|miss
	)
)

// PoolSnapshot is the subset of pgxpool.Stat the gauges report.
type PoolSnapshot struct {
	Total, Idle, InUse, Max int32
	Acquires               int64
}

func SetDBPoolStats(s PoolSnapshot) {
	dbPoolConns.WithLabelValues("total").Set(float64(s.Total))
	dbPoolConns.WithLabelValues("idle").Set(float64(s.Idle))
	dbPoolConns.WithLabelValues("in_use").Set(float64(s.InUse))
	dbPoolConns.WithLabelValues("max").Set(float64(s.Max))
	dbPoolAcquireTotal.Set(float64(s.Acquires))
}

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}
