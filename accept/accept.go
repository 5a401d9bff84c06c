// SPDX-License-Identifier: MIT

package accept

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/recom/partition"
)

var (
	// ErrParentNotScored indicates a child whose parent never computed the target score.
	ErrParentNotScored = errors.New("accept: parent plan was not scored")

	// ErrInvalidCycle indicates an annealing cycle with negative or all-zero durations.
	ErrInvalidCycle = errors.New("accept: invalid annealing cycle")
)

// Func returns the acceptance probability of p at step.
type Func func(p *partition.Plan, step int) (float64, error)

// Schedule maps a step to an inverse temperature β.
type Schedule func(step int) float64

// Always accepts every proposal.
func Always() Func {
	return func(*partition.Plan, int) (float64, error) { return 1, nil }
}

// MetropolisHastings accepts with probability exp(−β·delta) at a fixed β.
func MetropolisHastings(initial *partition.Plan, score string, beta float64, maximize bool) (Func, error) {
	return Annealing(initial, score, func(int) float64 { return beta }, maximize)
}

// SimulatedAnnealing follows the repeating hot / cooldown / cold cycle c.
func SimulatedAnnealing(initial *partition.Plan, score string, c Cycle, maximize bool) (Func, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return Annealing(initial, score, c.Beta, maximize)
}

// Annealing accepts with probability exp(−schedule(step)·delta), where delta
// is current − reference, negated when minimizing.
//
// The initial plan is scored eagerly; a failing or non plan-wide score is
// reported here instead of at the first step.
func Annealing(initial *partition.Plan, score string, schedule Schedule, maximize bool) (Func, error) {
	v, err := initial.Score(score)
	if err != nil {
		return nil, err
	}
	initialScore, err := partition.AsPlanWide(v)
	if err != nil {
		return nil, fmt.Errorf("score %q: %w", score, err)
	}

	return func(p *partition.Plan, step int) (float64, error) {
		delta, err := scoreDelta(p, step, score, initialScore)
		if err != nil {
			return 0, err
		}
		if !maximize {
			delta = -delta
		}

		return math.Exp(-schedule(step) * delta), nil
	}, nil
}

// scoreDelta returns current − reference for the plan-wide score name.
func scoreDelta(p *partition.Plan, step int, name string, initialScore float64) (float64, error) {
	v, err := p.Score(name)
	if err != nil {
		return 0, err
	}
	current, err := partition.AsPlanWide(v)
	if err != nil {
		return 0, fmt.Errorf("score %q: %w", name, err)
	}
	if step == 1 {
		return current - initialScore, nil
	}

	pv, ok := p.TryGetParentScore(name)
	if !ok {
		return 0, fmt.Errorf("score %q at step %d: %w", name, step, ErrParentNotScored)
	}
	reference, err := partition.AsPlanWide(pv)
	if err != nil {
		return 0, fmt.Errorf("parent score %q: %w", name, err)
	}

	return current - reference, nil
}
