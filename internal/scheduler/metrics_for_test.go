package scheduler

import (
	"sync"

	"github.com/sidechain-audio/midi-orchestra/internal/telemetry"
)

// sharedTestMetrics is constructed once and reused across this
// package's tests: telemetry.NewServerMetrics registers its counters
// with the default prometheus registry, and a second call in the same
// process would panic on duplicate registration.
var (
	sharedTestMetrics     *telemetry.ServerMetrics
	sharedTestMetricsOnce sync.Once
)

func testMetrics() *telemetry.ServerMetrics {
	sharedTestMetricsOnce.Do(func() {
		sharedTestMetrics = telemetry.NewServerMetrics()
	})
	return sharedTestMetrics
}
