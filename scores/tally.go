// SPDX-License-Identifier: MIT

package scores

import (
	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/partition"
)

// nodeValue resolves a per-node value for a graph.
type nodeValue func(g *dualgraph.Graph) (func(n int) float64, error)

// Tally sums the attribute column per district.
func Tally(name, column string) partition.Score {
	return tally(name, func(g *dualgraph.Graph) (func(int) float64, error) {
		values, err := g.Attribute(column)
		if err != nil {
			return nil, err
		}
		return func(n int) float64 { return values[n] }, nil
	})
}

// DistrictPopulations tallies node populations per district.
func DistrictPopulations(name string) partition.Score {
	return tally(name, func(g *dualgraph.Graph) (func(int) float64, error) {
		return g.Population, nil
	})
}

func tally(name string, resolve nodeValue) partition.Score {
	return partition.Score{Name: name, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		value, err := resolve(p.Graph())
		if err != nil {
			return nil, err
		}

		// Incremental path: parent vector plus the two recombined districts.
		if pv, ok := p.TryGetParentScore(name); ok && p.Summary() != nil {
			parent, err := partition.AsDistrictWide(pv)
			if err != nil {
				return nil, err
			}
			s := p.Summary()
			sums := append([]float64(nil), parent...)
			for _, d := range s.Districts {
				var sum float64
				for _, n := range s.Flips[d] {
					sum += value(n)
				}
				sums[d] = sum
			}
			return partition.DistrictWide(sums), nil
		}

		// Full scan.
		sums := make([]float64, p.NumDistricts())
		for n := 0; n < p.Graph().NumNodes(); n++ {
			sums[p.District(n)] += value(n)
		}

		return partition.DistrictWide(sums), nil
	}}
}

// NumCutEdges counts edges between different districts.
func NumCutEdges(name string) partition.Score {
	return partition.Score{Name: name, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		return partition.PlanWide(len(p.CutEdges())), nil
	}}
}

// districtWide fetches a district-wide score from p.
func districtWide(p *partition.Plan, name string) ([]float64, error) {
	v, err := p.Score(name)
	if err != nil {
		return nil, err
	}

	return partition.AsDistrictWide(v)
}

// planWide fetches a plan-wide score from p.
func planWide(p *partition.Plan, name string) (float64, error) {
	v, err := p.Score(name)
	if err != nil {
		return 0, err
	}

	return partition.AsPlanWide(v)
}
