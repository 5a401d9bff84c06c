// SPDX-License-Identifier: MIT

package dualgraph

import (
	"fmt"
	"sort"
)

// Graph is the immutable dual graph of a districting problem.
//
// Nodes are indices 0..N-1. Edges are stored once, in ascending EdgeKey
// order, and every node keeps an ascending neighbor list together with the
// index of the connecting edge. No method mutates a Graph after New returns.
type Graph struct {
	populations []float64
	totalPop    float64
	attributes  map[string][]float64
	geoids      []string

	edges []Edge          // ascending by (U,V)
	index map[EdgeKey]int // EdgeKey → position in edges
	adj   [][]int         // adj[n] = ascending neighbor ids
	inc   [][]int         // inc[n][i] = edge index of {n, adj[n][i]}
}

// New builds a Graph from node populations and an undirected edge list.
//
// Steps:
//  1. Apply options and validate per-node slice lengths against N.
//  2. Validate endpoints, reject self-loops, deduplicate by canonical key.
//  3. Sort edges by key and compute each edge's boundary penalty from regions.
//  4. Build ascending adjacency and incidence lists.
//
// Complexity: O(N + E log E).
func New(populations []float64, edges [][2]int, opts ...Option) (*Graph, error) {
	n := len(populations)

	// 1. Collect optional data and validate lengths.
	cfg := buildConfig{attributes: make(map[string][]float64)}
	for _, opt := range opts {
		opt(&cfg)
	}
	for name, values := range cfg.attributes {
		if len(values) != n {
			return nil, fmt.Errorf("attribute %q has %d values for %d nodes: %w", name, len(values), n, ErrLengthMismatch)
		}
	}
	for _, r := range cfg.regions {
		if len(r.assignment) != n {
			return nil, fmt.Errorf("region %q has %d values for %d nodes: %w", r.name, len(r.assignment), n, ErrLengthMismatch)
		}
	}
	if cfg.geoids != nil && len(cfg.geoids) != n {
		return nil, fmt.Errorf("geoids has %d values for %d nodes: %w", len(cfg.geoids), n, ErrLengthMismatch)
	}

	// 2. Canonicalize and deduplicate edges.
	seen := make(map[EdgeKey]struct{}, len(edges))
	keys := make([]EdgeKey, 0, len(edges))
	for _, e := range edges {
		a, b := e[0], e[1]
		if a < 0 || a >= n || b < 0 || b >= n {
			return nil, fmt.Errorf("edge (%d,%d) with %d nodes: %w", a, b, n, ErrNodeOutOfRange)
		}
		if a == b {
			return nil, fmt.Errorf("edge (%d,%d): %w", a, b, ErrSelfLoop)
		}
		k := NewEdgeKey(a, b)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	// 3. Deterministic edge order plus penalties.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].U != keys[j].U {
			return keys[i].U < keys[j].U
		}
		return keys[i].V < keys[j].V
	})
	g := &Graph{
		populations: append([]float64(nil), populations...),
		attributes:  make(map[string][]float64, len(cfg.attributes)),
		edges:       make([]Edge, len(keys)),
		index:       make(map[EdgeKey]int, len(keys)),
		adj:         make([][]int, n),
		inc:         make([][]int, n),
	}
	for name, values := range cfg.attributes {
		g.attributes[name] = append([]float64(nil), values...)
	}
	if cfg.geoids != nil {
		g.geoids = append([]string(nil), cfg.geoids...)
	}
	for _, p := range populations {
		g.totalPop += p
	}
	for i, k := range keys {
		var penalty float64
		for _, r := range cfg.regions {
			if r.assignment[k.U] != r.assignment[k.V] {
				penalty += r.penalty
			}
		}
		g.edges[i] = Edge{U: k.U, V: k.V, Penalty: penalty}
		g.index[k] = i
	}

	// 4. Adjacency. Iterating edges in key order appends neighbors of U in
	// ascending V order, but V also receives U out of order, so sort each list.
	for i, e := range g.edges {
		g.adj[e.U] = append(g.adj[e.U], e.V)
		g.inc[e.U] = append(g.inc[e.U], i)
		g.adj[e.V] = append(g.adj[e.V], e.U)
		g.inc[e.V] = append(g.inc[e.V], i)
	}
	for v := range g.adj {
		sortParallel(g.adj[v], g.inc[v])
	}

	return g, nil
}

// sortParallel sorts ids ascending and applies the same permutation to aux.
func sortParallel(ids, aux []int) {
	sort.Sort(parallelInts{ids: ids, aux: aux})
}

type parallelInts struct{ ids, aux []int }

func (p parallelInts) Len() int           { return len(p.ids) }
func (p parallelInts) Less(i, j int) bool { return p.ids[i] < p.ids[j] }
func (p parallelInts) Swap(i, j int) {
	p.ids[i], p.ids[j] = p.ids[j], p.ids[i]
	p.aux[i], p.aux[j] = p.aux[j], p.aux[i]
}

// NumNodes returns N.
func (g *Graph) NumNodes() int { return len(g.populations) }

// NumEdges returns the number of distinct undirected edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Population returns the population of node n.
func (g *Graph) Population(n int) float64 { return g.populations[n] }

// Populations returns a copy of all node populations.
func (g *Graph) Populations() []float64 { return append([]float64(nil), g.populations...) }

// TotalPop returns the sum of all node populations.
func (g *Graph) TotalPop() float64 { return g.totalPop }

// Attribute returns the read-only column registered under name.
// Callers must not modify the returned slice.
func (g *Graph) Attribute(name string) ([]float64, error) {
	values, ok := g.attributes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownAttribute)
	}

	return values, nil
}

// AttributeNames returns the registered attribute names in ascending order.
func (g *Graph) AttributeNames() []string {
	names := make([]string, 0, len(g.attributes))
	for name := range g.attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Geoids returns the per-node external identifiers, or nil if none were set.
func (g *Graph) Geoids() []string { return g.geoids }

// Edges returns the edge list in canonical order. Callers must not modify it.
func (g *Graph) Edges() []Edge { return g.edges }

// Edge returns the edge stored at index i.
func (g *Graph) Edge(i int) Edge { return g.edges[i] }

// EdgeIndex returns the position of the edge with key k.
func (g *Graph) EdgeIndex(k EdgeKey) (int, bool) {
	i, ok := g.index[k]
	return i, ok
}

// Penalty returns the boundary penalty of the edge with key k.
func (g *Graph) Penalty(k EdgeKey) (float64, bool) {
	i, ok := g.index[k]
	if !ok {
		return 0, false
	}

	return g.edges[i].Penalty, true
}

// Neighbors returns the ascending neighbor ids of n. Callers must not modify it.
func (g *Graph) Neighbors(n int) []int { return g.adj[n] }

// NeighborEdges returns edge indices parallel to Neighbors(n).
func (g *Graph) NeighborEdges(n int) []int { return g.inc[n] }
