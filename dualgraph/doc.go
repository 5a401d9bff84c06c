// SPDX-License-Identifier: MIT

// Package dualgraph provides the immutable adjacency structure on which
// district plans are drawn.
//
// What & Why
//
//   - Nodes are precincts (or blocks, tracts, …) addressed implicitly by
//     index 0..N-1. Each node carries a population and any number of named
//     numeric attributes (voting-age population, election returns, …).
//   - Edges are undirected adjacencies, deduplicated by a canonical
//     (min,max) EdgeKey and stored in ascending key order.
//   - Each edge carries a precomputed, non-negative boundary penalty: the sum
//     of the configured region weights for every region (county, municipality)
//     whose assignment differs across the edge. Spanning trees sampled by the
//     recombination step are biased away from such edges.
//
// The Graph is read-only after New returns, so a single *Graph is safely
// shared by any number of plans, chains and goroutines.
//
// Construction
//
//   - New(populations, edges, opts...)  — from raw arrays.
//   - Grid(cols, rows, opts...)         — unit-population toy grid.
//   - Load(path, opts) / Parse(data, opts) — networkx adjacency JSON.
//
// Subgraphs
//
//	Induced(nodes) returns a disposable Subgraph with local indices 0..k-1,
//	local populations and canonical-order edges with their penalties. It is
//	the working copy handed to spanning-tree sampling and is never shared.
//
// Errors
//
//	ErrNodeOutOfRange   – edge endpoint outside 0..N-1.
//	ErrSelfLoop         – edge with identical endpoints.
//	ErrLengthMismatch   – attribute, region or geoid slice of wrong length.
//	ErrUnknownAttribute – attribute lookup for a name never registered.
//	ErrMalformedInput   – JSON input missing nodes/adjacency or a column.
package dualgraph
