// SPDX-License-Identifier: MIT

package partition

// Proposal is a candidate recombination of two adjacent districts of Parent.
//
// Flips maps each of the two affected districts to the complete list of
// nodes it owns after the recombination. Only those nodes change district.
// Generation failures are represented by a nil *Proposal.
type Proposal struct {
	Parent         *Plan
	Districts      [2]int
	Flips          map[int][]int
	NewPopulations [2]float64
}

// ProposalSummary is a Proposal without its parent reference, stored on the
// child Plan for incremental score computation.
type ProposalSummary struct {
	Districts      [2]int
	Flips          map[int][]int
	NewPopulations [2]float64
}
