package experiment

import (
	"github.com/san-kum/subsim/internal/metrics"
	"github.com/san-kum/subsim/internal/sim"
)

// DefaultSettleAfter is where the settled-error metrics start looking, in
// seconds from the start of the run.
const DefaultSettleAfter = 3.0

// DefaultMetrics returns a fresh set of every scoring metric.
func DefaultMetrics(settleAfter float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewIAE(),
		metrics.NewITAE(),
		metrics.NewRMSError(),
		metrics.NewMaxSettledError(settleAfter),
		metrics.NewErrorStdDev(settleAfter),
		metrics.NewOvershoot(),
		metrics.NewSettlingTime(),
		metrics.NewControlEffort(),
		metrics.NewAirSaturation(),
	}
}

// MetricNames lists the names DefaultMetrics produces, in report order.
func MetricNames() []string {
	ms := DefaultMetrics(0)
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}

// IsMetric reports whether name is one of the DefaultMetrics.
func IsMetric(name string) bool {
	for _, n := range MetricNames() {
		if n == name {
			return true
		}
	}
	return false
}
