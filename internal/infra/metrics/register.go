// Package metrics owns every Prometheus collector of the service. Callers
// use the helper functions; the collectors themselves stay unexported.
package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

// register queues collectors from each file's init(); nothing reaches the
// default registry until MustRegister runs.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister publishes the queued collectors on prometheus.DefaultRegisterer.
// Later calls are no-ops. It panics on a duplicate name.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.DefaultRegisterer.MustRegister(pending...)
	})
}

// norm lowercases and trims a label value; empty becomes "unknown".
func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}
