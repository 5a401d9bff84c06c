// SPDX-License-Identifier: MIT

package partition

import (
	"fmt"
	"sort"
)

// FromAssignment rebuilds the successor of parent from a raw assignment, as
// read back from a stored chain.
//
// Steps:
//  1. Validate length and district range against parent.
//  2. Collect every district that lost or gained a node.
//  3. No change: the step was a self-loop, return parent.TakeSelfLoop().
//  4. Exactly two districts changed: synthesize a summary whose flips list
//     every node now in each district, so incremental scores stay exact.
//  5. Otherwise keep the parent link without parent scores; scores that
//     depend on TryGetParentScore fall back to a full recomputation.
func FromAssignment(parent *Plan, assignment []int) (*Plan, error) {
	n := len(parent.assignment)
	if len(assignment) != n {
		return nil, fmt.Errorf("got %d labels for %d nodes: %w", len(assignment), n, ErrAssignmentLength)
	}

	changed := make(map[int]struct{})
	for i, d := range assignment {
		if d < 0 || d >= parent.numDistricts {
			return nil, fmt.Errorf("node %d has district %d: %w", i, d, ErrDistrictOutOfRange)
		}
		if old := parent.assignment[i]; old != d {
			changed[old] = struct{}{}
			changed[d] = struct{}{}
		}
	}
	if len(changed) == 0 {
		return parent.TakeSelfLoop(), nil
	}

	a := append([]int(nil), assignment...)
	child := &Plan{
		graph:            parent.graph,
		assignment:       a,
		numDistricts:     parent.numDistricts,
		cutEdges:         collectCutEdges(parent.graph, a),
		registry:         parent.registry,
		hasParent:        true,
		parentAssignment: parent.assignment,
		scores:           make(map[string]ScoreValue),
	}
	if len(changed) != 2 {
		return child, nil
	}

	pair := make([]int, 0, 2)
	for d := range changed {
		pair = append(pair, d)
	}
	sort.Ints(pair)
	flips := map[int][]int{pair[0]: nil, pair[1]: nil}
	var pops [2]float64
	for i, d := range a {
		switch d {
		case pair[0]:
			flips[d] = append(flips[d], i)
			pops[0] += parent.graph.Population(i)
		case pair[1]:
			flips[d] = append(flips[d], i)
			pops[1] += parent.graph.Population(i)
		}
	}
	child.parentScores = parent.scores
	child.summary = &ProposalSummary{
		Districts:      [2]int{pair[0], pair[1]},
		Flips:          flips,
		NewPopulations: pops,
	}

	return child, nil
}
