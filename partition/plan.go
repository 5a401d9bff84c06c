// SPDX-License-Identifier: MIT

package partition

import (
	"fmt"

	"github.com/katalvlaran/recom/dualgraph"
)

// Plan is an immutable assignment of every node of a Graph to a district.
//
// Fields are unexported; use the accessor methods. The only mutable state is
// the self-loop counter and the score cache, both owned by the chain driver.
type Plan struct {
	graph        *dualgraph.Graph
	assignment   []int
	numDistricts int
	cutEdges     []int
	registry     *Registry

	hasParent        bool
	parentAssignment []int
	parentScores     map[string]ScoreValue
	summary          *ProposalSummary

	selfLoops int
	scores    map[string]ScoreValue
}

// New builds a root Plan from an external assignment.
//
// Steps:
//  1. Validate length and reject negative labels.
//  2. If the smallest label is 1, shift every label down by one.
//  3. NumDistricts = max label + 1.
//  4. Collect cut edges with one pass over the edge list.
//
// The assignment slice is copied; the caller keeps ownership of its input.
func New(g *dualgraph.Graph, assignment []int, scores ...Score) (*Plan, error) {
	if len(assignment) != g.NumNodes() {
		return nil, fmt.Errorf("got %d labels for %d nodes: %w", len(assignment), g.NumNodes(), ErrAssignmentLength)
	}
	reg, err := NewRegistry(scores...)
	if err != nil {
		return nil, err
	}

	a := append([]int(nil), assignment...)
	minLabel, maxLabel := 0, -1
	for i, d := range a {
		if d < 0 {
			return nil, fmt.Errorf("node %d has label %d: %w", i, d, ErrNegativeDistrict)
		}
		if i == 0 || d < minLabel {
			minLabel = d
		}
		if d > maxLabel {
			maxLabel = d
		}
	}
	if minLabel == 1 {
		for i := range a {
			a[i]--
		}
		maxLabel--
	}

	return &Plan{
		graph:        g,
		assignment:   a,
		numDistricts: maxLabel + 1,
		cutEdges:     collectCutEdges(g, a),
		registry:     reg,
		scores:       make(map[string]ScoreValue),
	}, nil
}

// FromProposal builds the child Plan produced by accepting p.
func FromProposal(p *Proposal) (*Plan, error) {
	if p == nil || p.Parent == nil {
		return nil, ErrInvalidProposal
	}
	parent := p.Parent
	n := len(parent.assignment)
	for _, d := range p.Districts {
		if d < 0 || d >= parent.numDistricts {
			return nil, fmt.Errorf("district %d: %w", d, ErrInvalidProposal)
		}
	}

	a := append([]int(nil), parent.assignment...)
	for d, nodes := range p.Flips {
		if d != p.Districts[0] && d != p.Districts[1] {
			return nil, fmt.Errorf("flip into district %d outside %v: %w", d, p.Districts, ErrInvalidProposal)
		}
		for _, node := range nodes {
			if node < 0 || node >= n {
				return nil, fmt.Errorf("flip of node %d: %w", node, ErrInvalidProposal)
			}
			a[node] = d
		}
	}

	return &Plan{
		graph:            parent.graph,
		assignment:       a,
		numDistricts:     parent.numDistricts,
		cutEdges:         collectCutEdges(parent.graph, a),
		registry:         parent.registry,
		hasParent:        true,
		parentAssignment: parent.assignment,
		parentScores:     parent.scores,
		summary: &ProposalSummary{
			Districts:      p.Districts,
			Flips:          p.Flips,
			NewPopulations: p.NewPopulations,
		},
		scores: make(map[string]ScoreValue),
	}, nil
}

// collectCutEdges returns the indices of edges whose endpoints lie in different districts.
func collectCutEdges(g *dualgraph.Graph, a []int) []int {
	var cut []int
	for i, e := range g.Edges() {
		if a[e.U] != a[e.V] {
			cut = append(cut, i)
		}
	}

	return cut
}

// TakeSelfLoop records that the chain stayed on p for one more step and returns p.
func (p *Plan) TakeSelfLoop() *Plan {
	p.selfLoops++

	return p
}

// Score returns the named score, computing and caching it on first use.
// A failing score function is not cached.
func (p *Plan) Score(name string) (ScoreValue, error) {
	if v, ok := p.scores[name]; ok {
		return v, nil
	}
	s, ok := p.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUndefinedScore)
	}
	v, err := s.Func(p)
	if err != nil {
		return nil, fmt.Errorf("score %q: %w", name, err)
	}
	p.scores[name] = v

	return v, nil
}

// TryGetParentScore returns the parent's cached value for name, if any.
// It never triggers computation.
func (p *Plan) TryGetParentScore(name string) (ScoreValue, bool) {
	if p.parentScores == nil {
		return nil, false
	}
	v, ok := p.parentScores[name]

	return v, ok
}

// DistrictSubgraph returns the subgraph induced by the nodes of districts a and b.
func (p *Plan) DistrictSubgraph(a, b int) *dualgraph.Subgraph {
	nodes := make([]int, 0)
	for n, d := range p.assignment {
		if d == a || d == b {
			nodes = append(nodes, n)
		}
	}

	return p.graph.Induced(nodes)
}

// Graph returns the underlying graph.
func (p *Plan) Graph() *dualgraph.Graph { return p.graph }

// Assignment returns a copy of the node → district assignment.
func (p *Plan) Assignment() []int { return append([]int(nil), p.assignment...) }

// District returns the district of node n.
func (p *Plan) District(n int) int { return p.assignment[n] }

// NumDistricts returns the number of districts.
func (p *Plan) NumDistricts() int { return p.numDistricts }

// HasParent reports whether p was derived from another Plan.
func (p *Plan) HasParent() bool { return p.hasParent }

// ParentAssignment returns the parent's assignment (shared, read-only), or nil for a root.
func (p *Plan) ParentAssignment() []int { return p.parentAssignment }

// Summary returns the proposal that produced p, or nil when unknown.
func (p *Plan) Summary() *ProposalSummary { return p.summary }

// SelfLoops returns how many times the chain re-emitted p.
func (p *Plan) SelfLoops() int { return p.selfLoops }

// CutEdges returns the indices (into Graph().Edges()) of edges crossing districts.
// The slice is shared and must not be modified.
func (p *Plan) CutEdges() []int { return p.cutEdges }

// Registry returns the score registry shared with every descendant.
func (p *Plan) Registry() *Registry { return p.registry }

// DistrictPopulations sums node populations per district.
func (p *Plan) DistrictPopulations() []float64 {
	pops := make([]float64, p.numDistricts)
	for n, d := range p.assignment {
		pops[d] += p.graph.Population(n)
	}

	return pops
}

// Contiguous reports whether every non-empty district induces a connected subgraph.
func (p *Plan) Contiguous() bool {
	members := make([][]int, p.numDistricts)
	for n, d := range p.assignment {
		members[d] = append(members[d], n)
	}
	for _, nodes := range members {
		if len(nodes) > 0 && len(p.graph.Components(nodes)) != 1 {
			return false
		}
	}

	return true
}
