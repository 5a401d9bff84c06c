package accept_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/recom/accept"
	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstDistrictPop is a plan-wide score: population of district 0.
var firstDistrictPop = partition.Score{Name: "pop0", Func: func(p *partition.Plan) (partition.ScoreValue, error) {
	return partition.PlanWide(p.DistrictPopulations()[0]), nil
}}

// fixture returns a root plan on the path 0—1—2—3 (populations 1..4) with
// pop0 = 3, and its child with pop0 = 1.
func fixture(t *testing.T) (*partition.Plan, *partition.Plan) {
	t.Helper()
	g, err := dualgraph.New([]float64{1, 2, 3, 4}, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	require.NoError(t, err)
	root, err := partition.New(g, []int{0, 0, 1, 1}, firstDistrictPop)
	require.NoError(t, err)
	child, err := partition.FromProposal(&partition.Proposal{
		Parent:         root,
		Districts:      [2]int{0, 1},
		Flips:          map[int][]int{0: {0}, 1: {1, 2, 3}},
		NewPopulations: [2]float64{1, 9},
	})
	require.NoError(t, err)

	return root, child
}

func TestAlways(t *testing.T) {
	_, child := fixture(t)
	v, err := accept.Always()(child, 42)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestMetropolisHastings(t *testing.T) {
	cases := []struct {
		name     string
		maximize bool
		want     float64
	}{
		{"maximize, score drops", true, math.Exp(2)},
		{"minimize, score drops", false, math.Exp(-2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root, child := fixture(t)
			f, err := accept.MetropolisHastings(root, "pop0", 1, tc.maximize)
			require.NoError(t, err)

			for _, step := range []int{1, 2} {
				got, err := f(child, step)
				require.NoError(t, err)
				assert.InDelta(t, tc.want, got, 1e-12)
			}
		})
	}
}

func TestMetropolisHastings_ParentNotScored(t *testing.T) {
	root, child := fixture(t)
	f, err := accept.MetropolisHastings(root, "pop0", 1, true)
	require.NoError(t, err)

	grandchild, err := partition.FromProposal(&partition.Proposal{
		Parent:         child,
		Districts:      [2]int{0, 1},
		Flips:          map[int][]int{0: {0, 1}, 1: {2, 3}},
		NewPopulations: [2]float64{3, 7},
	})
	require.NoError(t, err)

	_, err = f(grandchild, 2)
	assert.ErrorIs(t, err, accept.ErrParentNotScored)

	// Once the parent is scored the reference is available.
	_, err = child.Score("pop0")
	require.NoError(t, err)
	got, err := f(grandchild, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-2), got, 1e-12)
}

func TestAnnealing_Errors(t *testing.T) {
	root, _ := fixture(t)

	_, err := accept.MetropolisHastings(root, "missing", 1, true)
	assert.ErrorIs(t, err, partition.ErrUndefinedScore)

	_, err = accept.SimulatedAnnealing(root, "pop0", accept.Cycle{}, true)
	assert.ErrorIs(t, err, accept.ErrInvalidCycle)
	_, err = accept.SimulatedAnnealing(root, "pop0", accept.Cycle{Hot: -1, Cold: 3}, true)
	assert.ErrorIs(t, err, accept.ErrInvalidCycle)
}

func TestCycleBeta(t *testing.T) {
	c := accept.Cycle{Hot: 2, Cooldown: 4, Cold: 2}
	want := map[int]float64{
		// hot
		0: 0, 1: 0,
		// cooldown
		2: 0, 3: 0.25, 5: 0.75,
		// cold
		6: 1, 7: 1,
		// next cycle
		8: 0, 11: 0.25,
	}
	for step, beta := range want {
		assert.InDelta(t, beta, c.Beta(step), 1e-12, "step %d", step)
	}

	c.Magnitude = 2
	assert.InDelta(t, 0.5, c.Beta(3), 1e-12)
	assert.InDelta(t, 2.0, c.Beta(7), 1e-12)
}

func TestSimulatedAnnealing(t *testing.T) {
	root, child := fixture(t)
	f, err := accept.SimulatedAnnealing(root, "pop0", accept.Cycle{Hot: 2, Cooldown: 2, Cold: 2}, true)
	require.NoError(t, err)

	hot, err := f(child, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, hot, "β = 0 accepts everything")

	cold, err := f(child, 5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(2), cold, 1e-12)
}

func TestAnnealing_CustomSchedule(t *testing.T) {
	root, child := fixture(t)
	f, err := accept.Annealing(root, "pop0", func(step int) float64 { return float64(step) / 10 }, false)
	require.NoError(t, err)

	got, err := f(child, 5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.5*2), got, 1e-12)
}
