// SPDX-License-Identifier: MIT

package spanning

import (
	"sort"
)

// Kruskal computes the minimum spanning tree of the undirected graph on
// vertices 0..n-1 described by edges.
//
// Steps:
//  1. Validate vertex count and endpoints.
//  2. Handle trivial sizes: n == 0 → ErrDisconnected, n == 1 → empty tree.
//  3. Collect non-loop edge indices and stable-sort them by weight.
//  4. Scan ascending, merging components with union-find; stop at n-1 edges.
//  5. Fewer than n-1 edges means the graph was disconnected.
//
// Returns the indices of tree edges in acceptance order and the total weight.
// Complexity: O(E log E + α(V)·E). Memory: O(E + V).
func Kruskal(n int, edges []Edge) ([]int, float64, error) {
	// 1. Validate.
	if err := validate(n, edges); err != nil {
		return nil, 0, err
	}

	// 2. Trivial cases.
	if n == 0 {
		return nil, 0, ErrDisconnected
	}
	if n == 1 {
		return []int{}, 0, nil
	}

	// 3. Order candidate edges; stable sort keeps input order on ties.
	order := make([]int, 0, len(edges))
	for i, e := range edges {
		if e.U == e.V {
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return edges[order[i]].Weight < edges[order[j]].Weight
	})

	// 4. Disjoint-set forest.
	parent := make([]int, n)
	rank := make([]int, n)
	for v := range parent {
		parent[v] = v
	}
	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]] // path halving
			u = parent[u]
		}
		return u
	}

	tree := make([]int, 0, n-1)
	var total float64
	for _, i := range order {
		ru, rv := find(edges[i].U), find(edges[i].V)
		if ru == rv {
			continue
		}
		// Union by rank.
		switch {
		case rank[ru] < rank[rv]:
			parent[ru] = rv
		case rank[ru] > rank[rv]:
			parent[rv] = ru
		default:
			parent[rv] = ru
			rank[ru]++
		}
		tree = append(tree, i)
		total += edges[i].Weight
		if len(tree) == n-1 {
			break
		}
	}

	// 5. Connectivity check.
	if len(tree) < n-1 {
		return nil, 0, ErrDisconnected
	}

	return tree, total, nil
}
