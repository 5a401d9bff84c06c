package partition_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// path returns the 4-node path 0—1—2—3 with populations 1..4.
func path(t *testing.T) *dualgraph.Graph {
	t.Helper()
	g, err := dualgraph.New([]float64{1, 2, 3, 4}, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	require.NoError(t, err)

	return g
}

// countingScore returns a plan-wide score that counts its invocations.
func countingScore(name string, calls *int) partition.Score {
	return partition.Score{Name: name, Func: func(p *partition.Plan) (partition.ScoreValue, error) {
		*calls++
		return partition.PlanWide(len(p.CutEdges())), nil
	}}
}

func TestNew_NormalizesOneIndexed(t *testing.T) {
	g := path(t)
	in := []int{1, 1, 2, 2}
	p, err := partition.New(g, in)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1}, p.Assignment())
	assert.Equal(t, []int{1, 1, 2, 2}, in, "caller slice must not be modified")
	assert.Equal(t, 2, p.NumDistricts())
	assert.Equal(t, []int{1}, p.CutEdges())
	assert.False(t, p.HasParent())
	assert.Nil(t, p.Summary())
	assert.Equal(t, []float64{3, 7}, p.DistrictPopulations())
	assert.True(t, p.Contiguous())
}

func TestNew_ZeroIndexedKept(t *testing.T) {
	p, err := partition.New(path(t), []int{0, 2, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumDistricts())
	assert.Equal(t, 2, p.District(1))
	assert.Equal(t, []int{0, 2}, p.CutEdges())
}

func TestNew_Errors(t *testing.T) {
	g := path(t)
	cases := []struct {
		name       string
		assignment []int
		scores     []partition.Score
		want       error
	}{
		{"short", []int{0, 1}, nil, partition.ErrAssignmentLength},
		{"negative", []int{0, -1, 1, 1}, nil, partition.ErrNegativeDistrict},
		{"duplicate score", []int{0, 0, 1, 1}, []partition.Score{{Name: "x"}, {Name: "x"}}, partition.ErrDuplicateScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := partition.New(g, tc.assignment, tc.scores...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestScore_Memoized(t *testing.T) {
	var calls int
	p, err := partition.New(path(t), []int{0, 0, 1, 1}, countingScore("cut", &calls))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := p.Score("cut")
		require.NoError(t, err)
		assert.Equal(t, partition.PlanWide(1), v)
	}
	assert.Equal(t, 1, calls)

	_, err = p.Score("nope")
	assert.ErrorIs(t, err, partition.ErrUndefinedScore)
}

func TestScore_ErrorNotCached(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	s := partition.Score{Name: "flaky", Func: func(*partition.Plan) (partition.ScoreValue, error) {
		if fail {
			return nil, boom
		}
		return partition.PlanWide(7), nil
	}}
	p, err := partition.New(path(t), []int{0, 0, 1, 1}, s)
	require.NoError(t, err)

	_, err = p.Score("flaky")
	require.ErrorIs(t, err, boom)
	fail = false
	v, err := p.Score("flaky")
	require.NoError(t, err)
	assert.Equal(t, partition.PlanWide(7), v)
}

func TestFromProposal(t *testing.T) {
	var calls int
	root, err := partition.New(path(t), []int{0, 0, 1, 1}, countingScore("cut", &calls))
	require.NoError(t, err)

	prop := &partition.Proposal{
		Parent:         root,
		Districts:      [2]int{0, 1},
		Flips:          map[int][]int{0: {0}, 1: {1, 2, 3}},
		NewPopulations: [2]float64{1, 9},
	}

	// Before the parent is scored nothing is exposed.
	child, err := partition.FromProposal(prop)
	require.NoError(t, err)
	_, ok := child.TryGetParentScore("cut")
	assert.False(t, ok)
	assert.Equal(t, 0, calls, "TryGetParentScore must not compute")

	_, err = root.Score("cut")
	require.NoError(t, err)
	child, err = partition.FromProposal(prop)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 1, 1}, child.Assignment())
	assert.Equal(t, []int{0, 0, 1, 1}, child.ParentAssignment())
	assert.Equal(t, []int{0}, child.CutEdges())
	assert.True(t, child.HasParent())
	require.NotNil(t, child.Summary())
	assert.Equal(t, [2]float64{1, 9}, child.Summary().NewPopulations)
	assert.Equal(t, []float64{1, 9}, child.DistrictPopulations())

	pv, ok := child.TryGetParentScore("cut")
	require.True(t, ok)
	assert.Equal(t, partition.PlanWide(1), pv)
	assert.Equal(t, []int{0, 0, 1, 1}, root.Assignment(), "parent unchanged")
}

func TestFromProposal_Invalid(t *testing.T) {
	root, err := partition.New(path(t), []int{0, 0, 1, 1})
	require.NoError(t, err)

	cases := map[string]*partition.Proposal{
		"nil":               nil,
		"no parent":         {Districts: [2]int{0, 1}},
		"bad district":      {Parent: root, Districts: [2]int{0, 5}},
		"foreign flip":      {Parent: root, Districts: [2]int{0, 1}, Flips: map[int][]int{2: {0}}},
		"node out of range": {Parent: root, Districts: [2]int{0, 1}, Flips: map[int][]int{0: {9}}},
	}
	for name, prop := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := partition.FromProposal(prop)
			assert.ErrorIs(t, err, partition.ErrInvalidProposal)
		})
	}
}

func TestTakeSelfLoop(t *testing.T) {
	p, err := partition.New(path(t), []int{0, 0, 1, 1})
	require.NoError(t, err)

	assert.Same(t, p, p.TakeSelfLoop())
	p.TakeSelfLoop()
	assert.Equal(t, 2, p.SelfLoops())
}

func TestDistrictSubgraph(t *testing.T) {
	p, err := partition.New(path(t), []int{0, 1, 1, 2})
	require.NoError(t, err)

	sub := p.DistrictSubgraph(0, 1)
	assert.Equal(t, []int{0, 1, 2}, sub.Nodes)
	assert.Equal(t, 6.0, sub.TotalPop())
	require.Len(t, sub.Edges, 2)
}

func TestContiguous(t *testing.T) {
	p, err := partition.New(path(t), []int{0, 1, 1, 0})
	require.NoError(t, err)
	assert.False(t, p.Contiguous())
}

func TestScoreValueKinds(t *testing.T) {
	v, err := partition.AsPlanWide(partition.PlanWide(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = partition.AsPlanWide(partition.DistrictWide{1})
	assert.ErrorIs(t, err, partition.ErrScoreKind)

	dw, err := partition.AsDistrictWide(partition.DistrictWide{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, dw)

	_, err = partition.AsDistrictWide(partition.PlanWide(1))
	assert.ErrorIs(t, err, partition.ErrScoreKind)
}

func TestRegistryNames(t *testing.T) {
	r, err := partition.NewRegistry(partition.Score{Name: "b"}, partition.Score{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, r.Names())
	_, ok := r.Lookup("a")
	assert.True(t, ok)
}
