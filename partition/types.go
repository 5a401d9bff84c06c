// SPDX-License-Identifier: MIT

package partition

import (
	"errors"
	"fmt"
)

// Sentinel errors for plan construction and scoring.
var (
	// ErrAssignmentLength indicates an assignment whose length differs from the node count.
	ErrAssignmentLength = errors.New("partition: assignment length does not match graph")

	// ErrNegativeDistrict indicates a negative district label.
	ErrNegativeDistrict = errors.New("partition: negative district label")

	// ErrDistrictOutOfRange indicates a district id outside 0..NumDistricts-1.
	ErrDistrictOutOfRange = errors.New("partition: district out of range")

	// ErrInvalidProposal indicates a nil proposal, a proposal without parent,
	// or flips that reference unknown nodes or districts.
	ErrInvalidProposal = errors.New("partition: invalid proposal")

	// ErrUndefinedScore indicates a lookup of a score name never registered.
	ErrUndefinedScore = errors.New("partition: undefined score")

	// ErrDuplicateScore indicates two scores registered under one name.
	ErrDuplicateScore = errors.New("partition: duplicate score name")

	// ErrScoreKind indicates a ScoreValue of the wrong variant.
	ErrScoreKind = errors.New("partition: unexpected score value kind")
)

// ScoreValue is the closed set of score results: PlanWide or DistrictWide.
type ScoreValue interface {
	isScoreValue()
}

// PlanWide is a single scalar describing the whole plan.
type PlanWide float64

// DistrictWide holds one value per district, indexed by district id.
// Values returned by Plan.Score are shared with the cache and must not be modified.
type DistrictWide []float64

func (PlanWide) isScoreValue()     {}
func (DistrictWide) isScoreValue() {}

// AsPlanWide unwraps a PlanWide value.
func AsPlanWide(v ScoreValue) (float64, error) {
	pw, ok := v.(PlanWide)
	if !ok {
		return 0, fmt.Errorf("want PlanWide, got %T: %w", v, ErrScoreKind)
	}

	return float64(pw), nil
}

// AsDistrictWide unwraps a DistrictWide value.
func AsDistrictWide(v ScoreValue) ([]float64, error) {
	dw, ok := v.(DistrictWide)
	if !ok {
		return nil, fmt.Errorf("want DistrictWide, got %T: %w", v, ErrScoreKind)
	}

	return dw, nil
}

// ScoreFunc computes a score for a plan.
type ScoreFunc func(p *Plan) (ScoreValue, error)

// Score is a named score function.
type Score struct {
	Name string
	Func ScoreFunc
}

// Registry is the immutable set of scores shared by a root plan and all of
// its descendants.
type Registry struct {
	scores map[string]Score
	names  []string
}

// NewRegistry indexes scores by name. Duplicate names are rejected.
func NewRegistry(scores ...Score) (*Registry, error) {
	r := &Registry{scores: make(map[string]Score, len(scores))}
	for _, s := range scores {
		if _, dup := r.scores[s.Name]; dup {
			return nil, fmt.Errorf("%q: %w", s.Name, ErrDuplicateScore)
		}
		r.scores[s.Name] = s
		r.names = append(r.names, s.Name)
	}

	return r, nil
}

// Lookup returns the score registered under name.
func (r *Registry) Lookup(name string) (Score, bool) {
	s, ok := r.scores[name]
	return s, ok
}

// Names returns score names in registration order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }
