// SPDX-License-Identifier: MIT

// Package accept provides acceptance strategies for a ReCom chain.
//
// An acceptance strategy is a Func returning an unbounded probability for a
// candidate child Plan at a given step: the chain accepts iff a uniform draw
// in [0, 1) is below the returned value, so anything ≥ 1 always accepts and
// anything ≤ 0 always rejects. Hard constraints return 0 for invalid plans.
//
// The energy-based strategies compare a plan-wide score of the child against
// a reference: the initial plan's score at step 1, the parent's cached score
// afterwards. The delta is current − reference, negated when minimizing, and
// the strategy returns exp(−β·delta).
package accept
