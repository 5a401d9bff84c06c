// SPDX-License-Identifier: MIT

package dualgraph

import (
	"errors"
)

// Sentinel errors for dualgraph construction and lookup.
var (
	// ErrNodeOutOfRange indicates an edge endpoint outside 0..N-1.
	ErrNodeOutOfRange = errors.New("dualgraph: node index out of range")

	// ErrSelfLoop indicates an edge whose endpoints coincide.
	ErrSelfLoop = errors.New("dualgraph: self-loop not allowed")

	// ErrLengthMismatch indicates a per-node slice whose length differs from N.
	ErrLengthMismatch = errors.New("dualgraph: per-node slice length mismatch")

	// ErrUnknownAttribute indicates a lookup of an attribute that was never registered.
	ErrUnknownAttribute = errors.New("dualgraph: unknown attribute")

	// ErrMalformedInput indicates adjacency JSON that lacks required fields.
	ErrMalformedInput = errors.New("dualgraph: malformed input")
)

// PopulationAttribute is the attribute name under which Grid and Load
// register the node populations, so that tallies can address them by name.
const PopulationAttribute = "population"

// EdgeKey is the canonical identity of an undirected edge: U < V.
type EdgeKey struct {
	U, V int
}

// NewEdgeKey returns the canonical key for the edge {a, b}.
func NewEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}

	return EdgeKey{U: a, V: b}
}

// Edge is an undirected adjacency with its precomputed boundary penalty.
// U < V always holds for edges stored in a Graph.
type Edge struct {
	U, V    int
	Penalty float64
}

// Key returns the canonical key of e.
func (e Edge) Key() EdgeKey { return EdgeKey{U: e.U, V: e.V} }

// Other returns the endpoint of e opposite to n.
func (e Edge) Other(n int) int {
	if e.U == n {
		return e.V
	}

	return e.U
}

// Option configures optional per-node data before a Graph is built.
type Option func(*buildConfig)

// region is one administrative division contributing to boundary penalties.
type region struct {
	name       string
	assignment []int
	penalty    float64
}

type buildConfig struct {
	attributes map[string][]float64
	regions    []region
	geoids     []string
}

// WithAttribute registers a named numeric column, one value per node.
func WithAttribute(name string, values []float64) Option {
	return func(c *buildConfig) {
		c.attributes[name] = values
	}
}

// WithRegion registers a region division. Every edge whose endpoints carry
// different assignment values accrues penalty.
func WithRegion(name string, assignment []int, penalty float64) Option {
	return func(c *buildConfig) {
		c.regions = append(c.regions, region{name: name, assignment: assignment, penalty: penalty})
	}
}

// WithGeoids attaches an external identifier per node.
func WithGeoids(geoids []string) Option {
	return func(c *buildConfig) {
		c.geoids = geoids
	}
}
