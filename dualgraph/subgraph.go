// SPDX-License-Identifier: MIT

package dualgraph

import (
	"sort"
)

// SubEdge is an edge of a Subgraph expressed in local indices (U < V).
// Edge is the index of the same edge in the parent Graph.
type SubEdge struct {
	U, V    int
	Penalty float64
	Edge    int
}

// Subgraph is a disposable induced subgraph with local indices 0..k-1.
//
// Nodes[i] is the global id of local node i (ascending), Populations[i] its
// population, and Edges lists every parent edge with both endpoints inside
// the node set, in canonical (local U, local V) order. A Subgraph owns all of
// its slices; callers may mutate them freely.
type Subgraph struct {
	Nodes       []int
	Populations []float64
	Edges       []SubEdge
}

// Len returns the number of nodes in s.
func (s *Subgraph) Len() int { return len(s.Nodes) }

// TotalPop returns the sum of local populations.
func (s *Subgraph) TotalPop() float64 {
	var total float64
	for _, p := range s.Populations {
		total += p
	}

	return total
}

// Induced returns the subgraph induced by nodes. Duplicates are ignored and
// the node order is normalized to ascending global id.
//
// Steps:
//  1. Sort and deduplicate nodes; map global → local index.
//  2. For each local node u (ascending) walk its ascending neighbors v > u
//     that are inside the set; this yields edges in canonical order.
//
// Complexity: O(k log k + Σdeg) for k nodes.
func (g *Graph) Induced(nodes []int) *Subgraph {
	// 1. Normalize node set.
	sorted := append([]int(nil), nodes...)
	sort.Ints(sorted)
	uniq := sorted[:0]
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			continue
		}
		uniq = append(uniq, v)
	}
	local := make(map[int]int, len(uniq))
	s := &Subgraph{
		Nodes:       uniq,
		Populations: make([]float64, len(uniq)),
	}
	for i, v := range uniq {
		local[v] = i
		s.Populations[i] = g.populations[v]
	}

	// 2. Canonical edge walk.
	for i, u := range uniq {
		for j, v := range g.adj[u] {
			if v <= u {
				continue
			}
			lv, ok := local[v]
			if !ok {
				continue
			}
			ei := g.inc[u][j]
			s.Edges = append(s.Edges, SubEdge{U: i, V: lv, Penalty: g.edges[ei].Penalty, Edge: ei})
		}
	}

	return s
}

// Components partitions nodes into connected components of the subgraph
// they induce. Components are returned in order of their smallest member,
// each sorted ascending.
//
// Complexity: O(k + Σdeg).
func (g *Graph) Components(nodes []int) [][]int {
	in := make(map[int]bool, len(nodes))
	for _, v := range nodes {
		in[v] = true
	}
	start := append([]int(nil), nodes...)
	sort.Ints(start)

	visited := make(map[int]bool, len(nodes))
	var comps [][]int
	for _, s := range start {
		if visited[s] {
			continue
		}
		// Breadth-first flood from s restricted to the node set.
		visited[s] = true
		queue := []int{s}
		var comp []int
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			comp = append(comp, u)
			for _, v := range g.adj[u] {
				if in[v] && !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}

	return comps
}
