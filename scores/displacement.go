// SPDX-License-Identifier: MIT

package scores

import (
	"fmt"
	"math"

	"github.com/katalvlaran/recom/partition"
)

// PopulationOverlap returns the numOld × p.NumDistricts() matrix whose entry
// [i][j] is the population living in district i under oldAssignment and in
// district j under p.
func PopulationOverlap(oldAssignment []int, numOld int, p *partition.Plan) ([][]float64, error) {
	g := p.Graph()
	if len(oldAssignment) != g.NumNodes() {
		return nil, fmt.Errorf("got %d labels for %d nodes: %w", len(oldAssignment), g.NumNodes(), partition.ErrAssignmentLength)
	}
	m := make([][]float64, numOld)
	for i := range m {
		m[i] = make([]float64, p.NumDistricts())
	}
	for n, old := range oldAssignment {
		if old < 0 || old >= numOld {
			return nil, fmt.Errorf("node %d has district %d: %w", n, old, partition.ErrDistrictOutOfRange)
		}
		m[old][p.District(n)] += g.Population(n)
	}

	return m, nil
}

// PopulationDisplacement scores the minimum number of people who change
// district between reference and a plan, over every one-to-one renaming of
// districts: total population − maximum matched overlap.
func PopulationDisplacement(name string, reference *partition.Plan) partition.Score {
	old := reference.Assignment()
	numOld := reference.NumDistricts()

	return partition.Score{Name: name, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		overlap, err := PopulationOverlap(old, numOld, p)
		if err != nil {
			return nil, err
		}

		return partition.PlanWide(p.Graph().TotalPop() - maxWeightMatching(overlap)), nil
	}}
}

// maxWeightMatching returns the largest total weight of a one-to-one
// row/column assignment in w (Hungarian method with potentials).
//
// Steps:
//  1. Ensure rows ≤ columns by transposing.
//  2. Insert rows one by one, growing a shortest augmenting path over
//     reduced costs −w[i][j] − u[i] − v[j] and updating the potentials.
//  3. Sum the weights of the final assignment.
//
// Complexity: O(n²·m) for n rows and m columns.
func maxWeightMatching(w [][]float64) float64 {
	n := len(w)
	if n == 0 || len(w[0]) == 0 {
		return 0
	}
	m := len(w[0])
	if n > m {
		t := make([][]float64, m)
		for j := range t {
			t[j] = make([]float64, n)
			for i := 0; i < n; i++ {
				t[j][i] = w[i][j]
			}
		}
		w, n, m = t, m, n
	}

	// 1-based potentials; p[j] is the row matched to column j, 0 if free.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1)
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)
	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], math.Inf(1), 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := -w[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j], way[j] = cur, j0
				}
				if minv[j] < delta {
					delta, j1 = minv[j], j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	var total float64
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			total += w[p[j]-1][j-1]
		}
	}

	return total
}
