// Package metrics declares the Prometheus collectors exported by the
// coordinator and the HTTP transport.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Commit outcomes used as the "outcome" label.
const (
	OutcomeResolved     = "resolved"
	OutcomeInvalid      = "invalid"
	OutcomeTimeout      = "timeout"
	OutcomeCanceled     = "canceled"
	OutcomeInconsistent = "inconsistent"
	OutcomeError        = "error"
)

var (
	registerOnce sync.Once

	commitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "revealer",
			Subsystem: "coordinator",
			Name:      "commits_total",
			Help:      "Number of commit-and-wait calls, by algorithm and outcome.",
		},
		[]string{"algorithm", "outcome"})

	pendingWaits = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "revealer",
			Subsystem: "coordinator",
			Name:      "pending_waits",
			Help:      "Number of commit calls currently waiting for their group to complete.",
		})

	waitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "revealer",
			Subsystem: "coordinator",
			Name:      "wait_seconds",
			Help:      "Time between publishing a slot and the group completing.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"algorithm"})

	groupSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "revealer",
			Subsystem: "coordinator",
			Name:      "group_size",
			Help:      "Number of commitments per accepted group.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		})
)

// Register adds all collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(commitsTotal, pendingWaits, waitSeconds, groupSize)
	})
}

// Recorder receives coordinator events. The zero value of Noop discards them.
type Recorder interface {
	CommitFinished(algorithm, outcome string)
	WaitStarted(size int)
	WaitFinished(algorithm string, seconds float64)
}

// Prometheus records events into the package collectors.
type Prometheus struct{}

// CommitFinished counts one finished commit call.
func (Prometheus) CommitFinished(algorithm, outcome string) {
	commitsTotal.WithLabelValues(algorithm, outcome).Inc()
}

// WaitStarted marks a wait as pending.
func (Prometheus) WaitStarted(size int) {
	pendingWaits.Inc()
	groupSize.Observe(float64(size))
}

// WaitFinished clears a pending wait and records its duration.
func (Prometheus) WaitFinished(algorithm string, seconds float64) {
	pendingWaits.Dec()
	waitSeconds.WithLabelValues(algorithm).Observe(seconds)
}

// Noop discards events.
type Noop struct{}

func (Noop) CommitFinished(string, string) {}
func (Noop) WaitStarted(int) {}
func (Noop) WaitFinished(string, float64) {}
