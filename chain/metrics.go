// SPDX-License-Identifier: MIT

package chain

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Step outcomes recorded by Metrics.
const (
	OutcomeInitial    = "initial"
	OutcomeAccepted   = "accepted"
	OutcomeRejected   = "rejected"
	OutcomeNoProposal = "no_proposal"
)

// Metrics holds the Prometheus collectors for chain activity.
// A nil *Metrics records nothing.
type Metrics struct {
	steps         *prometheus.CounterVec
	attempts      *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "recom_chain_steps_total",
			Help: "Chain steps by outcome",
		}, []string{"outcome"}),
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "recom_proposal_attempts_total",
			Help: "Proposal attempts by result",
		}, []string{"result"}),
		batchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "recom_batch_duration_seconds",
			Help:    "Time to sample one proposal batch",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
}

// Steps returns the step counter for outcome.
func (m *Metrics) Steps(outcome string) prometheus.Counter {
	return m.steps.WithLabelValues(outcome)
}

// Attempts returns the attempt counter for result ("proposal" or "failed").
func (m *Metrics) Attempts(result string) prometheus.Counter {
	return m.attempts.WithLabelValues(result)
}

func (m *Metrics) observeStep(outcome string) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeBatch(survivors, attempts int, d time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues("proposal").Add(float64(survivors))
	m.attempts.WithLabelValues("failed").Add(float64(attempts - survivors))
	m.batchDuration.Observe(d.Seconds())
}
