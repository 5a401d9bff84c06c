// SPDX-License-Identifier: MIT

package spanning

import (
	"errors"
)

// ErrInvalidGraph indicates a negative vertex count or an out-of-range endpoint.
var ErrInvalidGraph = errors.New("spanning: invalid graph")

// ErrDisconnected indicates that no spanning tree covers all vertices.
var ErrDisconnected = errors.New("spanning: graph is disconnected")

// ErrBadRoot indicates a Prim root outside 0..n-1.
var ErrBadRoot = errors.New("spanning: root vertex out of range")

// MethodPrim selects Prim's algorithm (grow from a root using a min-heap).
const MethodPrim = "prim"

// MethodKruskal selects Kruskal's algorithm (sort all edges and union-find).
const MethodKruskal = "kruskal"

// Edge is an undirected weighted edge between vertices U and V.
type Edge struct {
	U, V   int
	Weight float64
}

// Options configures which MST algorithm Compute runs.
//
// Fields:
//
//	Method string: MethodKruskal (default) or MethodPrim.
//	Root   int:    start vertex for Prim; ignored by Kruskal.
type Options struct {
	Method string
	Root   int
}

// Option configures Options.
type Option func(*Options)

// WithMethod sets the algorithm Method.
func WithMethod(m string) Option {
	return func(o *Options) {
		o.Method = m
	}
}

// WithRoot sets the starting vertex for Prim's algorithm.
func WithRoot(root int) Option {
	return func(o *Options) {
		o.Root = root
	}
}

// DefaultOptions returns Options for Kruskal rooted at vertex 0.
func DefaultOptions() Options {
	return Options{Method: MethodKruskal, Root: 0}
}

// ValidMethod reports whether m names a supported algorithm.
func ValidMethod(m string) bool {
	return m == MethodKruskal || m == MethodPrim
}

// Compute dispatches to Kruskal or Prim according to the options.
// An unknown method yields ErrInvalidGraph.
func Compute(n int, edges []Edge, opts ...Option) ([]int, float64, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch o.Method {
	case MethodKruskal, "":
		return Kruskal(n, edges)
	case MethodPrim:
		return Prim(n, edges, o.Root)
	default:
		return nil, 0, ErrInvalidGraph
	}
}

// validate checks the vertex count and every endpoint.
func validate(n int, edges []Edge) error {
	if n < 0 {
		return ErrInvalidGraph
	}
	for _, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return ErrInvalidGraph
		}
	}

	return nil
}
