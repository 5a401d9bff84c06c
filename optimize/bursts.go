// SPDX-License-Identifier: MIT

package optimize

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/katalvlaran/recom/chain"
	"github.com/katalvlaran/recom/partition"
)

// ErrInvalidOption indicates a burst length below one or a negative burst count.
var ErrInvalidOption = errors.New("optimize: invalid option")

// Comparator reports whether current is better than or equal to best.
type Comparator func(current, best partition.ScoreValue) (bool, error)

// Option configures ShortBursts.
type Option func(*ShortBursts)

// WithMaximize selects the direction of the default plan-wide comparator.
func WithMaximize(maximize bool) Option {
	return func(s *ShortBursts) { s.maximize = maximize }
}

// WithComparator replaces the default plan-wide comparator.
func WithComparator(c Comparator) Option {
	return func(s *ShortBursts) { s.better = c }
}

// WithChainOptions passes options to every burst chain. Seeds are
// overridden per burst.
func WithChainOptions(opts ...chain.Option) Option {
	return func(s *ShortBursts) { s.chainOpts = append(s.chainOpts, opts...) }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *ShortBursts) {
		if l != nil {
			s.log = l
		}
	}
}

// ShortBursts optimizes a single target score.
type ShortBursts struct {
	initial     *partition.Plan
	burstLength int
	bursts      int
	target      string
	epsilon     float64
	maximize    bool
	better      Comparator
	chainOpts   []chain.Option
	log         *slog.Logger

	best      *partition.Plan
	bestScore partition.ScoreValue
}

// New configures an optimizer of bursts chains of burstLength steps each.
// It maximizes by default.
func New(initial *partition.Plan, burstLength, bursts int, target string, epsilon float64, opts ...Option) (*ShortBursts, error) {
	if initial == nil || burstLength < 1 || bursts < 0 {
		return nil, fmt.Errorf("burst length %d, bursts %d: %w", burstLength, bursts, ErrInvalidOption)
	}
	s := &ShortBursts{
		initial:     initial,
		burstLength: burstLength,
		bursts:      bursts,
		target:      target,
		epsilon:     epsilon,
		maximize:    true,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.better == nil {
		s.better = planWideComparator(s.maximize)
	}

	return s, nil
}

func planWideComparator(maximize bool) Comparator {
	return func(current, best partition.ScoreValue) (bool, error) {
		cur, err := partition.AsPlanWide(current)
		if err != nil {
			return false, err
		}
		b, err := partition.AsPlanWide(best)
		if err != nil {
			return false, err
		}
		if maximize {
			return cur >= b, nil
		}
		return cur <= b, nil
	}
}

// Run executes every burst, calling fn for each visited plan. Burst i uses
// seed+i and starts from the best plan found before it.
func (s *ShortBursts) Run(seed int64, fn func(p *partition.Plan) error) error {
	s.best = s.initial
	score, err := s.best.Score(s.target)
	if err != nil {
		return err
	}
	s.bestScore = score

	for i := 0; i < s.bursts; i++ {
		opts := append(append([]chain.Option(nil), s.chainOpts...), chain.WithSeed(seed+int64(i)))
		c, err := chain.New(s.best, s.burstLength, s.epsilon, opts...)
		if err != nil {
			return fmt.Errorf("burst %d: %w", i, err)
		}
		for c.Next() {
			p := c.Plan()
			if err := fn(p); err != nil {
				return err
			}
			cur, err := p.Score(s.target)
			if err != nil {
				return err
			}
			ok, err := s.better(cur, s.bestScore)
			if err != nil {
				return err
			}
			if ok {
				s.best, s.bestScore = p, cur
			}
		}
		if err := c.Err(); err != nil {
			return fmt.Errorf("burst %d: %w", i, err)
		}
		s.log.Info("burst finished",
			slog.Int("burst", i),
			slog.String("target", s.target),
			slog.Any("best", s.bestScore),
		)
	}

	return nil
}

// All returns an iterator over every visited plan. A failure is yielded
// once as (nil, err) and ends the sequence.
func (s *ShortBursts) All(seed int64) iter.Seq2[*partition.Plan, error] {
	return func(yield func(*partition.Plan, error) bool) {
		errStop := errors.New("stop")
		err := s.Run(seed, func(p *partition.Plan) error {
			if !yield(p, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield(nil, err)
		}
	}
}

// Best returns the best plan so far (nil before Run).
func (s *ShortBursts) Best() *partition.Plan { return s.best }

// BestScore returns the target score of Best.
func (s *ShortBursts) BestScore() partition.ScoreValue { return s.bestScore }
