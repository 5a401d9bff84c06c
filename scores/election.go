// SPDX-License-Identifier: MIT

package scores

import (
	"errors"
	"math"

	"github.com/katalvlaran/recom/partition"
)

// ErrNoElections indicates an election score built from an empty election list.
var ErrNoElections = errors.New("scores: no elections given")

// Election names the two vote tallies of one contest.
type Election struct {
	Dem string `yaml:"dem" json:"dem"`
	Rep string `yaml:"rep" json:"rep"`
}

// ElectionShare is an Election with its reference statewide vote share.
type ElectionShare struct {
	Election
	VoteShare float64
}

// ElectionTallies returns one Tally per vote column, named after the column.
func ElectionTallies(columns ...string) []partition.Score {
	out := make([]partition.Score, 0, len(columns))
	for _, c := range columns {
		out = append(out, Tally(c, c))
	}

	return out
}

// VoteShare returns the Dem share of the two-party vote of e across p.
func VoteShare(p *partition.Plan, e Election) (float64, error) {
	dem, rep, err := votes(p, e)
	if err != nil {
		return 0, err
	}
	var d, r float64
	for i := range dem {
		d += dem[i]
		r += rep[i]
	}

	return d / (d + r), nil
}

// demSeats counts districts where Dem votes strictly exceed Rep votes.
func demSeats(p *partition.Plan, e Election) (int, error) {
	dem, rep, err := votes(p, e)
	if err != nil {
		return 0, err
	}
	seats := 0
	for i := range dem {
		if dem[i] > rep[i] {
			seats++
		}
	}

	return seats, nil
}

func votes(p *partition.Plan, e Election) ([]float64, []float64, error) {
	dem, err := districtWide(p, e.Dem)
	if err != nil {
		return nil, nil, err
	}
	rep, err := districtWide(p, e.Rep)
	if err != nil {
		return nil, nil, err
	}

	return dem, rep, nil
}

// StableProportionality averages |Dem seat share − reference vote share|
// over elections.
func StableProportionality(name string, elections []ElectionShare) partition.Score {
	return partition.Score{Name: name, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		if len(elections) == 0 {
			return nil, ErrNoElections
		}
		var distance float64
		for _, e := range elections {
			seats, err := demSeats(p, e.Election)
			if err != nil {
				return nil, err
			}
			share := float64(seats) / float64(p.NumDistricts())
			distance += math.Abs(share - e.VoteShare)
		}

		return partition.PlanWide(distance / float64(len(elections))), nil
	}}
}

// AggregateDemSeats sums Dem seats over elections.
func AggregateDemSeats(name string, elections []Election) partition.Score {
	return partition.Score{Name: name, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		total := 0
		for _, e := range elections {
			seats, err := demSeats(p, e)
			if err != nil {
				return nil, err
			}
			total += seats
		}

		return partition.PlanWide(total), nil
	}}
}

// ProportionalityDistance builds three scores against the vote shares of
// reference, which must have the election tallies registered:
//
//	stable      StableProportionality over the reference shares
//	seats       AggregateDemSeats
//	responsive  |mean reference share − seats / (districts · elections)|
func ProportionalityDistance(stable, responsive, seats string, elections []Election, reference *partition.Plan) ([]partition.Score, error) {
	if len(elections) == 0 {
		return nil, ErrNoElections
	}
	shares := make([]ElectionShare, len(elections))
	var mean float64
	for i, e := range elections {
		share, err := VoteShare(reference, e)
		if err != nil {
			return nil, err
		}
		shares[i] = ElectionShare{Election: e, VoteShare: share}
		mean += share
	}
	mean /= float64(len(elections))
	totalSeats := float64(reference.NumDistricts() * len(elections))

	distance := partition.Score{Name: responsive, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		s, err := planWide(p, seats)
		if err != nil {
			return nil, err
		}
		return partition.PlanWide(math.Abs(mean - s/totalSeats)), nil
	}}

	return []partition.Score{
		StableProportionality(stable, shares),
		AggregateDemSeats(seats, elections),
		distance,
	}, nil
}

// MinShareOverThresholdPlusNextHighest scores minority opportunity: the
// number of districts whose minority share reaches threshold, plus the
// highest share among the districts below it (0 if none). Districts without
// population are skipped. The minority and
// total population tallies are returned alongside, named after their columns.
func MinShareOverThresholdPlusNextHighest(name, minorityColumn, popColumn string, threshold float64) []partition.Score {
	score := partition.Score{Name: name, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		minority, err := districtWide(p, minorityColumn)
		if err != nil {
			return nil, err
		}
		pop, err := districtWide(p, popColumn)
		if err != nil {
			return nil, err
		}
		over, maxUnder := 0, 0.0
		for i := range minority {
			if pop[i] <= 0 {
				continue
			}
			share := minority[i] / pop[i]
			if share >= threshold {
				over++
			} else if share > maxUnder {
				maxUnder = share
			}
		}

		return partition.PlanWide(float64(over) + maxUnder), nil
	}}

	return []partition.Score{Tally(minorityColumn, minorityColumn), Tally(popColumn, popColumn), score}
}
