package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(buildInfo)
}

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "paystack_billing_build_info",
		Help: "Always 1; the labels carry the running version, commit and Go toolchain.",
	},
	[]string{"version", "commit", "goversion"},
)

// SetBuildInfo is called once at startup with the ldflags-injected values.
func SetBuildInfo(version, commit string) {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "none"
	}
	buildInfo.WithLabelValues(version, commit, runtime.Version()).Set(1)
}
