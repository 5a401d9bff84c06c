// SPDX-License-Identifier: MIT

package accept

import "fmt"

// Cycle is a repeating annealing schedule.
//
//	[0, Hot)                 β = 0
//	[Hot, Hot+Cooldown)      β ramps linearly from 0 towards 1
//	[Hot+Cooldown, length)   β = 1
//
// Every β is multiplied by Magnitude; a zero Magnitude means 1.
type Cycle struct {
	Hot       int     `yaml:"hot" json:"hot"`
	Cooldown  int     `yaml:"cooldown" json:"cooldown"`
	Cold      int     `yaml:"cold" json:"cold"`
	Magnitude float64 `yaml:"magnitude" json:"magnitude"`
}

// Len returns the cycle length in steps.
func (c Cycle) Len() int { return c.Hot + c.Cooldown + c.Cold }

// Validate rejects negative durations and an empty cycle.
func (c Cycle) Validate() error {
	if c.Hot < 0 || c.Cooldown < 0 || c.Cold < 0 || c.Len() == 0 {
		return fmt.Errorf("hot=%d cooldown=%d cold=%d: %w", c.Hot, c.Cooldown, c.Cold, ErrInvalidCycle)
	}

	return nil
}

// Beta returns the inverse temperature at step. The ramp is measured from
// the start of the cooldown phase of the current cycle.
func (c Cycle) Beta(step int) float64 {
	magnitude := c.Magnitude
	if magnitude == 0 {
		magnitude = 1
	}
	t := step % c.Len()

	switch {
	case t < c.Hot:
		return 0
	case t < c.Hot+c.Cooldown:
		return magnitude * float64(t-c.Hot) / float64(c.Cooldown)
	default:
		return magnitude
	}
}
