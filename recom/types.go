// SPDX-License-Identifier: MIT

package recom

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/spanning"
)

var (
	// ErrNoCutEdges indicates a plan without any edge between two districts.
	ErrNoCutEdges = errors.New("recom: plan has no cut edges")

	// ErrAllFrozen indicates that every cut edge touches a frozen district.
	ErrAllFrozen = errors.New("recom: every cut edge touches a frozen district")

	// ErrInvalidParams indicates a non-positive ideal population, a negative
	// epsilon or an unknown tree method.
	ErrInvalidParams = errors.New("recom: invalid generator parameters")
)

// DefaultMaxCutEdgeDraws bounds rejection sampling of non-frozen cut edges
// before falling back to an explicit scan.
const DefaultMaxCutEdgeDraws = 1000

// Params configures a Generator.
type Params struct {
	// IdealPopulation is the target population of one district.
	IdealPopulation float64
	// Epsilon is the allowed relative deviation from IdealPopulation.
	Epsilon float64
	// Frozen districts are never merged.
	Frozen map[int]struct{}
	// TreeMethod is spanning.MethodKruskal (default) or spanning.MethodPrim.
	TreeMethod string
	// MaxCutEdgeDraws defaults to DefaultMaxCutEdgeDraws when ≤ 0.
	MaxCutEdgeDraws int
}

// Generator samples ReCom proposals for plans over one graph.
type Generator struct {
	graph    *dualgraph.Graph
	ideal    float64
	epsilon  float64
	minPop   float64
	maxPop   float64
	frozen   map[int]struct{}
	method   string
	maxDraws int
}

// New validates p and builds a Generator for g.
func New(g *dualgraph.Graph, p Params) (*Generator, error) {
	if p.IdealPopulation <= 0 || p.Epsilon < 0 {
		return nil, fmt.Errorf("ideal=%g epsilon=%g: %w", p.IdealPopulation, p.Epsilon, ErrInvalidParams)
	}
	method := p.TreeMethod
	if method == "" {
		method = spanning.MethodKruskal
	}
	if !spanning.ValidMethod(method) {
		return nil, fmt.Errorf("tree method %q: %w", method, ErrInvalidParams)
	}
	draws := p.MaxCutEdgeDraws
	if draws <= 0 {
		draws = DefaultMaxCutEdgeDraws
	}
	frozen := make(map[int]struct{}, len(p.Frozen))
	for d := range p.Frozen {
		frozen[d] = struct{}{}
	}

	return &Generator{
		graph:    g,
		ideal:    p.IdealPopulation,
		epsilon:  p.Epsilon,
		minPop:   p.IdealPopulation * (1 - p.Epsilon),
		maxPop:   p.IdealPopulation * (1 + p.Epsilon),
		frozen:   frozen,
		method:   method,
		maxDraws: draws,
	}, nil
}

// IdealPopulation returns the per-district target population.
func (g *Generator) IdealPopulation() float64 { return g.ideal }

// Epsilon returns the allowed relative deviation.
func (g *Generator) Epsilon() float64 { return g.epsilon }

// MinValidPop returns ideal·(1−ε).
func (g *Generator) MinValidPop() float64 { return g.minPop }

// MaxValidPop returns ideal·(1+ε).
func (g *Generator) MaxValidPop() float64 { return g.maxPop }

// ValidPopulation reports whether splitting total into pop and total−pop
// leaves both parts inside the closed valid range.
func (g *Generator) ValidPopulation(pop, total float64) bool {
	rest := total - pop

	return pop >= g.minPop && pop <= g.maxPop && rest >= g.minPop && rest <= g.maxPop
}

// Frozen reports whether district d is frozen.
func (g *Generator) Frozen(d int) bool {
	_, ok := g.frozen[d]
	return ok
}
