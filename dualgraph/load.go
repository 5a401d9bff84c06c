// SPDX-License-Identifier: MIT

package dualgraph

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// RegionSpec names a node column holding a region id and the penalty paid by
// every edge crossing between two different ids of that column.
type RegionSpec struct {
	Column  string  `yaml:"column" json:"column"`
	Penalty float64 `yaml:"penalty" json:"penalty"`
}

// LoadOptions selects the columns read from a networkx adjacency document.
type LoadOptions struct {
	// PopulationColumn is required; its values become node populations and
	// are also registered as PopulationAttribute.
	PopulationColumn string

	// AssignmentColumn, if set, is read as the initial district assignment.
	AssignmentColumn string

	// Columns are additional numeric columns registered as attributes.
	Columns []string

	// Regions configure boundary penalties.
	Regions []RegionSpec

	// GeoidColumn, if set, is read as the per-node external identifier.
	GeoidColumn string
}

// Load reads a networkx adjacency JSON file. See Parse.
func Load(path string, opts LoadOptions) (*Graph, []int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Parse(data, opts)
}

// Parse decodes a networkx adjacency document:
//
//	{"nodes": [{"id": 0, "TOTPOP": 812, ...}, ...],
//	 "adjacency": [[{"id": 1}, {"id": 4}], ...]}
//
// Node i of the Graph is nodes[i]. Adjacency entries reference nodes by their
// "id" field when nodes carry one, otherwise by position. The returned
// assignment is nil unless opts.AssignmentColumn is set.
func Parse(data []byte, opts LoadOptions) (*Graph, []int, error) {
	if opts.PopulationColumn == "" {
		return nil, nil, fmt.Errorf("population column not set: %w", ErrMalformedInput)
	}
	doc := gjson.ParseBytes(data)
	nodesRes := doc.Get("nodes")
	adjRes := doc.Get("adjacency")
	if !nodesRes.IsArray() || !adjRes.IsArray() {
		return nil, nil, fmt.Errorf("expected nodes and adjacency arrays: %w", ErrMalformedInput)
	}
	nodes := nodesRes.Array()
	adjacency := adjRes.Array()
	n := len(nodes)
	if len(adjacency) != n {
		return nil, nil, fmt.Errorf("%d adjacency rows for %d nodes: %w", len(adjacency), n, ErrMalformedInput)
	}

	// Node ids → positions, when ids are present.
	ids := make(map[string]int, n)
	for i, node := range nodes {
		if id := node.Get("id"); id.Exists() {
			ids[id.String()] = i
		}
	}

	populations, err := floatColumn(nodes, opts.PopulationColumn)
	if err != nil {
		return nil, nil, err
	}
	graphOpts := []Option{WithAttribute(PopulationAttribute, populations)}
	for _, col := range opts.Columns {
		values, err := floatColumn(nodes, col)
		if err != nil {
			return nil, nil, err
		}
		graphOpts = append(graphOpts, WithAttribute(col, values))
	}
	for _, spec := range opts.Regions {
		labels, err := internColumn(nodes, spec.Column)
		if err != nil {
			return nil, nil, err
		}
		graphOpts = append(graphOpts, WithRegion(spec.Column, labels, spec.Penalty))
	}
	if opts.GeoidColumn != "" {
		geoids := make([]string, n)
		for i, node := range nodes {
			v := node.Get(gjson.Escape(opts.GeoidColumn))
			if !v.Exists() {
				return nil, nil, fmt.Errorf("node %d lacks %q: %w", i, opts.GeoidColumn, ErrMalformedInput)
			}
			geoids[i] = v.String()
		}
		graphOpts = append(graphOpts, WithGeoids(geoids))
	}

	var edges [][2]int
	for i, row := range adjacency {
		var rowErr error
		row.ForEach(func(_, entry gjson.Result) bool {
			idRes := entry.Get("id")
			if !idRes.Exists() {
				rowErr = fmt.Errorf("adjacency row %d entry lacks id: %w", i, ErrMalformedInput)
				return false
			}
			j := int(idRes.Int())
			if len(ids) > 0 {
				pos, ok := ids[idRes.String()]
				if !ok {
					rowErr = fmt.Errorf("adjacency row %d references unknown id %s: %w", i, idRes.String(), ErrMalformedInput)
					return false
				}
				j = pos
			}
			if i != j {
				edges = append(edges, [2]int{i, j})
			}
			return true
		})
		if rowErr != nil {
			return nil, nil, rowErr
		}
	}

	g, err := New(populations, edges, graphOpts...)
	if err != nil {
		return nil, nil, err
	}

	var assignment []int
	if opts.AssignmentColumn != "" {
		assignment = make([]int, n)
		for i, node := range nodes {
			v := node.Get(gjson.Escape(opts.AssignmentColumn))
			if !v.Exists() {
				return nil, nil, fmt.Errorf("node %d lacks %q: %w", i, opts.AssignmentColumn, ErrMalformedInput)
			}
			assignment[i] = int(v.Int())
		}
	}

	return g, assignment, nil
}

func floatColumn(nodes []gjson.Result, col string) ([]float64, error) {
	key := gjson.Escape(col)
	values := make([]float64, len(nodes))
	for i, node := range nodes {
		v := node.Get(key)
		if !v.Exists() {
			return nil, fmt.Errorf("node %d lacks %q: %w", i, col, ErrMalformedInput)
		}
		values[i] = v.Float()
	}

	return values, nil
}

// internColumn maps arbitrary region labels (FIPS codes, names) to small ints.
func internColumn(nodes []gjson.Result, col string) ([]int, error) {
	key := gjson.Escape(col)
	labels := make(map[string]int)
	out := make([]int, len(nodes))
	for i, node := range nodes {
		v := node.Get(key)
		if !v.Exists() {
			return nil, fmt.Errorf("node %d lacks %q: %w", i, col, ErrMalformedInput)
		}
		id, ok := labels[v.String()]
		if !ok {
			id = len(labels)
			labels[v.String()] = id
		}
		out[i] = id
	}

	return out, nil
}
