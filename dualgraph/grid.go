// SPDX-License-Identifier: MIT

package dualgraph

import (
	"fmt"
)

// Grid builds a cols×rows orthogonal grid with unit populations.
//
// Contract:
//   - cols ≥ 1 and rows ≥ 1 (else ErrLengthMismatch).
//   - Node index is col*rows + row (column-major).
//   - Each node connects to its east (col+1) and north (row+1) neighbor.
//   - Populations are also registered as PopulationAttribute.
//
// Extra options (regions, attributes) are applied after the defaults.
func Grid(cols, rows int, opts ...Option) (*Graph, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("grid %dx%d: %w", cols, rows, ErrLengthMismatch)
	}
	n := cols * rows
	pops := make([]float64, n)
	for i := range pops {
		pops[i] = 1
	}

	edges := make([][2]int, 0, 2*n)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			i := col*rows + row
			if col+1 < cols {
				edges = append(edges, [2]int{i, (col+1)*rows + row})
			}
			if row+1 < rows {
				edges = append(edges, [2]int{i, i + 1})
			}
		}
	}

	all := append([]Option{WithAttribute(PopulationAttribute, pops)}, opts...)

	return New(pops, edges, all...)
}
