// SPDX-License-Identifier: MIT

// Package spanning computes minimum spanning trees over index-addressed,
// float-weighted edge lists: Kruskal's algorithm (the default) and Prim's.
//
// What & Why
//
//   - The recombination step draws a uniformly random weight for every edge
//     of a merged two-district subgraph, adds the edge's boundary penalty,
//     and takes the minimum spanning tree. With continuous random weights
//     the MST is unique, so Kruskal and Prim return the same edge set; they
//     differ only in cost profile and output order.
//   - Vertices are the integers 0..n-1 and edges are plain values, so a
//     spanning tree over a disposable per-attempt subgraph allocates nothing
//     beyond its union-find arrays or heap.
//
// Algorithms Provided
//
//   - Kruskal(n, edges) ([]int, float64, error)
//
//   - Strategy: stable-sort edges by weight, scan ascending, merge
//     components with a disjoint-set (path compression + union by rank),
//     stop after n-1 accepted edges.
//
//   - Complexity: O(E log E) time, O(V + E) space.
//
//   - Determinism: ties keep input order (sort.SliceStable).
//
//   - Prim(n, edges, root) ([]int, float64, error)
//
//   - Strategy: grow from root with a min-heap of frontier edges.
//
//   - Complexity: O(E log V) time, O(V + E) space.
//
// Both return the indices (into the input slice) of the tree edges and the
// total tree weight.
//
// Error Conditions
//
//	ErrInvalidGraph – n < 0 or an endpoint outside 0..n-1.
//	ErrDisconnected – n == 0, or the edges do not connect all n vertices.
//	ErrBadRoot      – Prim root outside 0..n-1.
//
// Self-loops are skipped; they can never belong to a spanning tree.
package spanning
