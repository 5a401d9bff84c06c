// SPDX-License-Identifier: MIT

// Package scores provides score factories for partition plans.
//
// Tally is the workhorse: a district-wide sum of a node attribute. When the
// parent plan already cached the same tally, the child's value is derived by
// cloning the parent vector and recomputing only the two recombined
// districts from the proposal flips, O(|flips|) instead of O(N). Without a
// cached parent value (root plans, or a parent that never computed it) the
// tally falls back to a full scan. Scores that build on tallies (election
// metrics, minority shares) register the tallies they need alongside
// themselves, so every score in a chain benefits from the same cache.
package scores
