// SPDX-License-Identifier: MIT

package chain

import (
	"log/slog"

	"github.com/katalvlaran/recom/accept"
)

// DefaultBatchSize is the number of proposal attempts per batch.
const DefaultBatchSize = 32

type settings struct {
	seed            int64
	accept          accept.Func
	parallelism     int
	batchSize       int
	frozen          []int
	target          float64
	hasTarget       bool
	treeMethod      string
	maxCutEdgeDraws int
	logger          *slog.Logger
	metrics         *Metrics
}

func defaultSettings() settings {
	return settings{
		accept:    accept.Always(),
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
}

// Option configures a Chain.
type Option func(*settings)

// WithSeed seeds the chain RNG.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithAcceptance sets the acceptance strategy; nil keeps accept.Always.
func WithAcceptance(f accept.Func) Option {
	return func(s *settings) {
		if f != nil {
			s.accept = f
		}
	}
}

// WithParallelism bounds concurrent proposal attempts; 0 means GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(s *settings) { s.parallelism = n }
}

// WithBatchSize sets the number of attempts per batch.
func WithBatchSize(n int) Option {
	return func(s *settings) { s.batchSize = n }
}

// WithFrozenDistricts excludes districts from recombination.
func WithFrozenDistricts(districts ...int) Option {
	return func(s *settings) { s.frozen = append(s.frozen, districts...) }
}

// WithTargetPopulation overrides the per-district ideal population,
// which otherwise is total population / number of districts.
func WithTargetPopulation(pop float64) Option {
	return func(s *settings) {
		s.target = pop
		s.hasTarget = true
	}
}

// WithTreeMethod selects the spanning tree algorithm (spanning.MethodKruskal or spanning.MethodPrim).
func WithTreeMethod(method string) Option {
	return func(s *settings) { s.treeMethod = method }
}

// WithMaxCutEdgeDraws bounds rejection sampling of unfrozen cut edges.
func WithMaxCutEdgeDraws(n int) Option {
	return func(s *settings) { s.maxCutEdgeDraws = n }
}

// WithLogger sets the structured logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records chain activity into m.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) { s.metrics = m }
}
