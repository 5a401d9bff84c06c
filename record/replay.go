// SPDX-License-Identifier: MIT

package record

import (
	"iter"

	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/partition"
)

// Assignments yields the records of r. A read failure is yielded once as
// (nil, err) and ends the sequence.
func (r *Reader) Assignments() iter.Seq2[[]int, error] {
	return func(yield func([]int, error) bool) {
		for r.Next() {
			if !yield(r.Assignment(), nil) {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Replay rebuilds the Plan sequence from assignments over g. The first
// record becomes the root Plan carrying scores; every later record is
// linked to its predecessor, so a repeated record replays as a self-loop.
func Replay(g *dualgraph.Graph, assignments iter.Seq2[[]int, error], scores ...partition.Score) iter.Seq2[*partition.Plan, error] {
	return func(yield func(*partition.Plan, error) bool) {
		var prev *partition.Plan
		for a, err := range assignments {
			if err != nil {
				yield(nil, err)
				return
			}
			var p *partition.Plan
			if prev == nil {
				p, err = partition.New(g, a, scores...)
			} else {
				p, err = partition.FromAssignment(prev, a)
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(p, nil) {
				return
			}
			prev = p
		}
	}
}
