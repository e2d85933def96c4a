// Package metrics records per-operation counters and latencies.
package metrics

import "time"

// Recorder receives one event per finished client operation.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
