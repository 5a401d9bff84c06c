// SPDX-License-Identifier: MIT

package spanning

import (
	"container/heap"
)

// Prim computes the minimum spanning tree by growing outwards from root
// using a min-heap of frontier edges.
//
// Steps:
//  1. Validate vertex count, endpoints and root.
//  2. Build an incidence list (edge indices per vertex).
//  3. Mark root visited and push its incident edges.
//  4. Pop the lightest edge; skip it if both ends are visited, otherwise
//     accept it and push the new vertex's incident edges.
//  5. Fewer than n-1 edges means the graph was disconnected.
//
// Complexity: O(E log V) time, O(V + E) memory.
func Prim(n int, edges []Edge, root int) ([]int, float64, error) {
	// 1. Validate.
	if err := validate(n, edges); err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, ErrDisconnected
	}
	if root < 0 || root >= n {
		return nil, 0, ErrBadRoot
	}
	if n == 1 {
		return []int{}, 0, nil
	}

	// 2. Incidence lists.
	incident := make([][]int, n)
	for i, e := range edges {
		if e.U == e.V {
			continue
		}
		incident[e.U] = append(incident[e.U], i)
		incident[e.V] = append(incident[e.V], i)
	}

	// 3. Seed the frontier.
	visited := make([]bool, n)
	pq := &edgePQ{edges: edges}
	visit := func(v int) {
		visited[v] = true
		for _, i := range incident[v] {
			other := edges[i].U
			if other == v {
				other = edges[i].V
			}
			if !visited[other] {
				heap.Push(pq, i)
			}
		}
	}
	visit(root)

	// 4. Expand.
	tree := make([]int, 0, n-1)
	var total float64
	for pq.Len() > 0 && len(tree) < n-1 {
		i := heap.Pop(pq).(int)
		e := edges[i]
		var next int
		switch {
		case !visited[e.U]:
			next = e.U
		case !visited[e.V]:
			next = e.V
		default:
			continue // would close a cycle
		}
		tree = append(tree, i)
		total += e.Weight
		visit(next)
	}

	// 5. Connectivity check.
	if len(tree) < n-1 {
		return nil, 0, ErrDisconnected
	}

	return tree, total, nil
}

// edgePQ is a min-heap of edge indices ordered by weight, ties by index.
type edgePQ struct {
	edges []Edge
	items []int
}

func (pq *edgePQ) Len() int { return len(pq.items) }

func (pq *edgePQ) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if pq.edges[a].Weight != pq.edges[b].Weight {
		return pq.edges[a].Weight < pq.edges[b].Weight
	}
	return a < b
}

func (pq *edgePQ) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *edgePQ) Push(x any) { pq.items = append(pq.items, x.(int)) }

func (pq *edgePQ) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	pq.items = old[:n-1]

	return item
}
