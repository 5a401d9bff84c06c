// SPDX-License-Identifier: MIT

package recom

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/partition"
	"github.com/katalvlaran/recom/spanning"
)

// Sample runs one proposal attempt against plan using an RNG seeded with seed.
//
// Returns:
//   - (proposal, nil) on success;
//   - (nil, nil) when the merged subgraph has no balanced cut or is disconnected;
//   - (nil, ErrNoCutEdges | ErrAllFrozen) when no attempt can ever succeed.
//
// The same (plan, seed) pair always yields the same result.
func (g *Generator) Sample(plan *partition.Plan, seed int64) (*partition.Proposal, error) {
	rng := rand.New(rand.NewSource(seed))

	// 1) Districts to recombine.
	a, b, err := g.pickDistricts(plan, rng)
	if err != nil {
		return nil, err
	}

	// 2) Disposable induced subgraph of A ∪ B.
	sub := plan.DistrictSubgraph(a, b)

	// 3) Random spanning tree.
	tree, ok := g.sampleTree(rng, sub)
	if !ok {
		return nil, nil
	}

	// 4) Balanced cut.
	below, popBelow, ok := g.findBalancedCut(rng, sub, tree)
	if !ok {
		return nil, nil
	}

	// 5) Flips: the subtree becomes A, everything else B.
	inA := make([]bool, sub.Len())
	for _, v := range below {
		inA[v] = true
	}
	flipsA := make([]int, 0, len(below))
	flipsB := make([]int, 0, sub.Len()-len(below))
	for local, global := range sub.Nodes {
		if inA[local] {
			flipsA = append(flipsA, global)
		} else {
			flipsB = append(flipsB, global)
		}
	}

	return &partition.Proposal{
		Parent:         plan,
		Districts:      [2]int{a, b},
		Flips:          map[int][]int{a: flipsA, b: flipsB},
		NewPopulations: [2]float64{popBelow, sub.TotalPop() - popBelow},
	}, nil
}

// pickDistricts draws a cut edge whose districts are both unfrozen.
// A is the district of the edge's lower endpoint.
func (g *Generator) pickDistricts(plan *partition.Plan, rng *rand.Rand) (int, int, error) {
	cut := plan.CutEdges()
	if len(cut) == 0 {
		return 0, 0, ErrNoCutEdges
	}
	for i := 0; i < g.maxDraws; i++ {
		e := g.graph.Edge(cut[rng.Intn(len(cut))])
		a, b := plan.District(e.U), plan.District(e.V)
		if !g.Frozen(a) && !g.Frozen(b) {
			return a, b, nil
		}
	}

	// Rejection sampling kept hitting frozen districts; decide exactly.
	eligible := make([]int, 0, len(cut))
	for _, ei := range cut {
		e := g.graph.Edge(ei)
		if !g.Frozen(plan.District(e.U)) && !g.Frozen(plan.District(e.V)) {
			eligible = append(eligible, ei)
		}
	}
	if len(eligible) == 0 {
		return 0, 0, ErrAllFrozen
	}
	e := g.graph.Edge(eligible[rng.Intn(len(eligible))])

	return plan.District(e.U), plan.District(e.V), nil
}

// sampleTree weights sub's edges in canonical order with rng noise plus
// penalty and returns the indices (into sub.Edges) of the minimum spanning tree.
func (g *Generator) sampleTree(rng *rand.Rand, sub *dualgraph.Subgraph) ([]int, bool) {
	edges := make([]spanning.Edge, len(sub.Edges))
	for i, se := range sub.Edges {
		edges[i] = spanning.Edge{U: se.U, V: se.V, Weight: rng.Float64() + se.Penalty}
	}
	tree, _, err := spanning.Compute(sub.Len(), edges, spanning.WithMethod(g.method))
	if err != nil {
		// A disconnected A ∪ B has no spanning tree; treat as a failed attempt.
		return nil, false
	}

	return tree, true
}

// arc is one direction of a tree edge.
type arc struct {
	to      int
	penalty float64
}

// findBalancedCut contracts the tree leaf by leaf and returns the local nodes
// below the winning edge together with their population.
//
// Working state (degrees, parent pointers, contracted populations) is owned
// by this call and discarded afterwards.
func (g *Generator) findBalancedCut(rng *rand.Rand, sub *dualgraph.Subgraph, tree []int) ([]int, float64, bool) {
	k := sub.Len()
	if k < 2 {
		return nil, 0, false
	}

	adj := make([][]arc, k)
	degree := make([]int, k)
	for _, ti := range tree {
		se := sub.Edges[ti]
		adj[se.U] = append(adj[se.U], arc{to: se.V, penalty: se.Penalty})
		adj[se.V] = append(adj[se.V], arc{to: se.U, penalty: se.Penalty})
		degree[se.U]++
		degree[se.V]++
	}

	// Root: first vertex of degree > 1; only a two-node tree has none.
	root := 0
	for v := 0; v < k; v++ {
		if degree[v] > 1 {
			root = v
			break
		}
	}

	// Parent pointers and children lists by BFS from root.
	parent := make([]int, k)
	parentPenalty := make([]float64, k)
	children := make([][]int, k)
	seen := make([]bool, k)
	seen[root] = true
	parent[root] = -1
	queue := []int{root}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range adj[u] {
			if seen[e.to] {
				continue
			}
			seen[e.to] = true
			parent[e.to] = u
			parentPenalty[e.to] = e.penalty
			children[u] = append(children[u], e.to)
			queue = append(queue, e.to)
		}
	}

	pops := append([]float64(nil), sub.Populations...)
	total := sub.TotalPop()

	leaves := make([]int, 0, k)
	for v := 0; v < k; v++ {
		if degree[v] == 1 && v != root {
			leaves = append(leaves, v)
		}
	}

	best, bestPop, bestScore, found := -1, 0.0, 0.0, false
	for len(leaves) > 0 {
		leaf := leaves[0]
		leaves = leaves[1:]
		if g.ValidPopulation(pops[leaf], total) {
			score := parentPenalty[leaf] + rng.Float64()
			if !found || score >= bestScore {
				best, bestPop, bestScore, found = leaf, pops[leaf], score, true
			}
		}

		// Contract leaf into its parent.
		p := parent[leaf]
		pops[p] += pops[leaf]
		degree[p]--
		if degree[p] == 1 && p != root {
			leaves = append(leaves, p)
		}
	}
	if !found {
		return nil, 0, false
	}

	below := []int{best}
	for i := 0; i < len(below); i++ {
		below = append(below, children[below[i]]...)
	}
	sort.Ints(below)

	return below, bestPop, true
}
