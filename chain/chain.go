// SPDX-License-Identifier: MIT

package chain

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/recom/partition"
	"github.com/katalvlaran/recom/recom"
)

var (
	// ErrUnreachableTarget indicates that the total population cannot be
	// split into the plan's districts within epsilon of the target.
	ErrUnreachableTarget = errors.New("chain: target population unreachable")

	// ErrInvalidOption indicates a negative step count, epsilon or
	// parallelism, a batch size below one, or a non-positive target.
	ErrInvalidOption = errors.New("chain: invalid option")
)

type state int

const (
	notStarted state = iota
	stepping
	exhausted
)

// Stats counts what happened on the non-initial steps emitted so far.
// Accepted + Rejected + NoProposal equals Step() once past step 0.
type Stats struct {
	Accepted      int
	Rejected      int
	NoProposal    int
	LeftoversUsed int
}

// Chain is a ReCom Markov chain. Build it with New and iterate with Next.
type Chain struct {
	initial  *partition.Plan
	maxSteps int
	epsilon  float64
	ideal    float64
	gen      *recom.Generator
	opts     settings
	log      *slog.Logger

	state       state
	step        int
	current     *partition.Plan
	rng         *rand.Rand
	leftovers   []*partition.Proposal
	leftoverFor *partition.Plan
	stats       Stats
	err         error
}

// New validates the parameters and returns a Chain positioned before step 0.
//
// The ideal per-district population is total/k unless WithTargetPopulation
// is given; either way total must lie within ideal·k·(1±epsilon).
func New(initial *partition.Plan, maxSteps int, epsilon float64, opts ...Option) (*Chain, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if initial == nil {
		return nil, fmt.Errorf("nil initial plan: %w", ErrInvalidOption)
	}
	if maxSteps < 0 || epsilon < 0 || s.batchSize < 1 || s.parallelism < 0 {
		return nil, fmt.Errorf("steps=%d epsilon=%g batch=%d parallelism=%d: %w",
			maxSteps, epsilon, s.batchSize, s.parallelism, ErrInvalidOption)
	}
	if s.parallelism == 0 {
		s.parallelism = runtime.GOMAXPROCS(0)
	}

	total := initial.Graph().TotalPop()
	k := float64(initial.NumDistricts())
	ideal := total / k
	if s.hasTarget {
		if s.target <= 0 {
			return nil, fmt.Errorf("target population %g: %w", s.target, ErrInvalidOption)
		}
		ideal = s.target
	}
	if total > ideal*k*(1+epsilon) || total < ideal*k*(1-epsilon) {
		return nil, fmt.Errorf("total %g, %d districts of %g ± %g: %w",
			total, initial.NumDistricts(), ideal, epsilon, ErrUnreachableTarget)
	}

	frozen := make(map[int]struct{}, len(s.frozen))
	for _, d := range s.frozen {
		frozen[d] = struct{}{}
	}
	gen, err := recom.New(initial.Graph(), recom.Params{
		IdealPopulation: ideal,
		Epsilon:         epsilon,
		Frozen:          frozen,
		TreeMethod:      s.treeMethod,
		MaxCutEdgeDraws: s.maxCutEdgeDraws,
	})
	if err != nil {
		return nil, err
	}

	c := &Chain{
		initial:  initial,
		maxSteps: maxSteps,
		epsilon:  epsilon,
		ideal:    ideal,
		gen:      gen,
		opts:     s,
		log:      s.logger.With(slog.Int64("seed", s.seed)),
	}
	c.Reset()
	c.log.Info("chain configured",
		slog.Int("max_steps", maxSteps),
		slog.Float64("epsilon", epsilon),
		slog.Float64("ideal_population", ideal),
		slog.Int("districts", initial.NumDistricts()),
		slog.Int("batch_size", s.batchSize),
		slog.Int("parallelism", s.parallelism),
	)

	return c, nil
}

// Reset rewinds the chain to before step 0 and reseeds its RNG.
// Plans already emitted keep their self-loop counts.
func (c *Chain) Reset() {
	c.state = notStarted
	c.step = -1
	c.current = nil
	c.rng = rand.New(rand.NewSource(c.opts.seed))
	c.leftovers = nil
	c.leftoverFor = nil
	c.stats = Stats{}
	c.err = nil
}

// Next advances to the next step. It returns false once MaxSteps plans have
// been emitted or a fatal error occurred; check Err afterwards.
func (c *Chain) Next() bool {
	if c.state == exhausted {
		return false
	}
	c.step++
	if c.step >= c.maxSteps {
		c.finish()
		return false
	}
	if c.step == 0 {
		c.state = stepping
		c.current = c.initial
		c.opts.metrics.observeStep(OutcomeInitial)
		return true
	}

	next, err := c.advance()
	if err != nil {
		c.err = fmt.Errorf("step %d: %w", c.step, err)
		c.log.Error("chain stopped", slog.Int("step", c.step), slog.Any("error", err))
		c.finish()
		return false
	}
	c.current = next

	return true
}

func (c *Chain) finish() {
	c.state = exhausted
	c.log.Info("chain exhausted",
		slog.Int("steps", c.step),
		slog.Int("accepted", c.stats.Accepted),
		slog.Int("rejected", c.stats.Rejected),
		slog.Int("no_proposal", c.stats.NoProposal),
		slog.Int("leftovers_used", c.stats.LeftoversUsed),
	)
}

// advance computes the Plan of the current (non-initial) step.
func (c *Chain) advance() (*partition.Plan, error) {
	// 1) Leftovers generated from this very Plan take precedence.
	if c.leftoverFor != c.current {
		c.leftovers = nil
	}
	if len(c.leftovers) > 0 {
		prop := c.leftovers[0]
		c.leftovers = c.leftovers[1:]
		c.stats.LeftoversUsed++
		return c.tryProposal(prop, nil)
	}

	// 2) Fresh batch.
	base := c.rng.Int63()
	survivors, err := c.sampleBatch(base)
	if err != nil {
		return nil, err
	}
	if len(survivors) == 0 {
		c.stats.NoProposal++
		c.opts.metrics.observeStep(OutcomeNoProposal)
		return c.current.TakeSelfLoop(), nil
	}

	// 3) Uniform primary; the rest become leftovers on rejection.
	i := c.rng.Intn(len(survivors))
	rest := append(survivors[:i:i], survivors[i+1:]...)

	return c.tryProposal(survivors[i], rest)
}

// tryProposal builds the child of prop and tests it against the acceptance strategy.
func (c *Chain) tryProposal(prop *partition.Proposal, rest []*partition.Proposal) (*partition.Plan, error) {
	child, err := partition.FromProposal(prop)
	if err != nil {
		return nil, err
	}
	p, err := c.opts.accept(child, c.step)
	if err != nil {
		return nil, err
	}

	if c.rng.Float64() < p {
		c.leftovers = nil
		c.leftoverFor = nil
		c.stats.Accepted++
		c.opts.metrics.observeStep(OutcomeAccepted)
		return child, nil
	}

	if len(rest) > 0 {
		c.leftovers = append(c.leftovers, rest...)
		c.leftoverFor = c.current
	}
	c.stats.Rejected++
	c.opts.metrics.observeStep(OutcomeRejected)

	return c.current.TakeSelfLoop(), nil
}

// sampleBatch runs BatchSize attempts seeded base+i on at most Parallelism
// goroutines and returns the successful proposals in attempt order.
func (c *Chain) sampleBatch(base int64) ([]*partition.Proposal, error) {
	start := time.Now()
	current := c.current
	results := make([]*partition.Proposal, c.opts.batchSize)

	var g errgroup.Group
	g.SetLimit(c.opts.parallelism)
	for i := range results {
		g.Go(func() error {
			prop, err := c.gen.Sample(current, base+int64(i))
			if err != nil {
				return err
			}
			results[i] = prop
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	survivors := make([]*partition.Proposal, 0, len(results))
	for _, prop := range results {
		if prop != nil {
			survivors = append(survivors, prop)
		}
	}
	elapsed := time.Since(start)
	c.opts.metrics.observeBatch(len(survivors), len(results), elapsed)
	c.log.Debug("batch sampled",
		slog.Int("step", c.step),
		slog.Int("survivors", len(survivors)),
		slog.Duration("elapsed", elapsed),
	)

	return survivors, nil
}

// Plan returns the Plan of the current step, or nil before the first Next.
func (c *Chain) Plan() *partition.Plan { return c.current }

// Step returns the current step index (-1 before the first Next).
func (c *Chain) Step() int { return c.step }

// Err returns the fatal error that stopped the chain, if any.
func (c *Chain) Err() error { return c.err }

// Stats returns the step outcome counters.
func (c *Chain) Stats() Stats { return c.stats }

// MaxSteps returns the total number of plans the chain emits.
func (c *Chain) MaxSteps() int { return c.maxSteps }

// Epsilon returns the population tolerance.
func (c *Chain) Epsilon() float64 { return c.epsilon }

// IdealPopulation returns the per-district target population.
func (c *Chain) IdealPopulation() float64 { return c.ideal }

// Initial returns the Plan emitted at step 0.
func (c *Chain) Initial() *partition.Plan { return c.initial }

// Run calls fn for every remaining step until the chain is exhausted or fn
// returns an error, which is returned as is.
func (c *Chain) Run(fn func(step int, p *partition.Plan) error) error {
	for c.Next() {
		if err := fn(c.step, c.current); err != nil {
			return err
		}
	}

	return c.err
}

// All returns an iterator over the remaining (step, Plan) pairs.
// After the loop, Err reports whether the chain stopped early.
func (c *Chain) All() iter.Seq2[int, *partition.Plan] {
	return func(yield func(int, *partition.Plan) bool) {
		for c.Next() {
			if !yield(c.step, c.current) {
				return
			}
		}
	}
}
