package chain_test

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/recom/chain"
	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/partition"
	"github.com/katalvlaran/recom/recom"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// splitGrid returns a 5×5 unit grid split 13/12 between districts 0 and 1.
func splitGrid(t *testing.T) *partition.Plan {
	t.Helper()
	g, err := dualgraph.Grid(5, 5)
	require.NoError(t, err)
	a := make([]int, 25)
	for i := 13; i < 25; i++ {
		a[i] = 1
	}
	p, err := partition.New(g, a)
	require.NoError(t, err)

	return p
}

// stripes returns a 6×6 unit grid with one district per pair of columns.
func stripes(t *testing.T) *partition.Plan {
	t.Helper()
	g, err := dualgraph.Grid(6, 6)
	require.NoError(t, err)
	a := make([]int, 36)
	for i := range a {
		a[i] = i / 12
	}
	p, err := partition.New(g, a)
	require.NoError(t, err)

	return p
}

// collect drains c and returns every emitted assignment.
func collect(t *testing.T, c *chain.Chain) [][]int {
	t.Helper()
	var out [][]int
	for c.Next() {
		out = append(out, c.Plan().Assignment())
	}
	require.NoError(t, c.Err())

	return out
}

func TestNew_Validation(t *testing.T) {
	plan := splitGrid(t)
	cases := []struct {
		name  string
		steps int
		eps   float64
		opts  []chain.Option
		want  error
	}{
		{"negative steps", -1, 0.1, nil, chain.ErrInvalidOption},
		{"negative epsilon", 1, -0.1, nil, chain.ErrInvalidOption},
		{"zero batch", 1, 0.1, []chain.Option{chain.WithBatchSize(0)}, chain.ErrInvalidOption},
		{"negative parallelism", 1, 0.1, []chain.Option{chain.WithParallelism(-2)}, chain.ErrInvalidOption},
		{"zero target", 1, 0.1, []chain.Option{chain.WithTargetPopulation(0)}, chain.ErrInvalidOption},
		{"unreachable target", 1, 0.1, []chain.Option{chain.WithTargetPopulation(5)}, chain.ErrUnreachableTarget},
		{"bad tree method", 1, 0.1, []chain.Option{chain.WithTreeMethod("boruvka")}, recom.ErrInvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := append([]chain.Option{chain.WithLogger(quiet)}, tc.opts...)
			_, err := chain.New(plan, tc.steps, tc.eps, opts...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_TargetPopulation(t *testing.T) {
	c, err := chain.New(splitGrid(t), 1, 0.1, chain.WithTargetPopulation(12), chain.WithLogger(quiet))
	require.NoError(t, err)
	assert.Equal(t, 12.0, c.IdealPopulation())

	c, err = chain.New(splitGrid(t), 1, 0.1, chain.WithLogger(quiet))
	require.NoError(t, err)
	assert.Equal(t, 12.5, c.IdealPopulation())
}

// TestScenarioA: one step on the 5×5 grid with constant acceptance is an
// accepted, balanced transition or an explicit self-loop.
func TestScenarioA(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		root := splitGrid(t)
		c, err := chain.New(root, 2, 0.5, chain.WithSeed(seed), chain.WithLogger(quiet))
		require.NoError(t, err)

		require.True(t, c.Next())
		assert.Same(t, root, c.Plan())
		assert.Equal(t, 0, c.Step())

		require.True(t, c.Next())
		next := c.Plan()
		if next == root {
			assert.Equal(t, 1, root.SelfLoops())
		} else {
			assert.Equal(t, 1, c.Stats().Accepted)
			for _, pop := range next.DistrictPopulations() {
				assert.GreaterOrEqual(t, pop, 6.25)
				assert.LessOrEqual(t, pop, 18.75)
			}
		}

		assert.False(t, c.Next())
		require.NoError(t, c.Err())
	}
}

func TestChainLength(t *testing.T) {
	for _, m := range []int{0, 1, 2, 25} {
		c, err := chain.New(stripes(t), m, 0.2, chain.WithSeed(3), chain.WithLogger(quiet))
		require.NoError(t, err)

		got := collect(t, c)
		assert.Len(t, got, m)
		if m > 0 {
			st := c.Stats()
			assert.Equal(t, m-1, st.Accepted+st.Rejected+st.NoProposal)
		}
		assert.False(t, c.Next(), "exhausted chain stays exhausted")
	}
}

func TestPopulationConservation(t *testing.T) {
	c, err := chain.New(stripes(t), 40, 0.2, chain.WithSeed(11), chain.WithLogger(quiet))
	require.NoError(t, err)

	for c.Next() {
		p := c.Plan()
		var total float64
		for _, pop := range p.DistrictPopulations() {
			total += pop
			assert.GreaterOrEqual(t, pop, 12*0.8)
			assert.LessOrEqual(t, pop, 12*1.2)
		}
		assert.Equal(t, p.Graph().TotalPop(), total)
		assert.True(t, p.Contiguous())
	}
	require.NoError(t, c.Err())
}

// emitted is one step of a chain as seen by a consumer.
type emitted struct {
	Assignment []int
	Summary    *partition.ProposalSummary
}

func TestDeterminismAcrossParallelism(t *testing.T) {
	var runs [][]emitted
	for _, par := range []int{1, 2, 8} {
		c, err := chain.New(stripes(t), 30, 0.2,
			chain.WithSeed(99),
			chain.WithParallelism(par),
			chain.WithBatchSize(8),
			chain.WithLogger(quiet),
		)
		require.NoError(t, err)
		var run []emitted
		for c.Next() {
			p := c.Plan()
			run = append(run, emitted{Assignment: p.Assignment(), Summary: p.Summary()})
		}
		require.NoError(t, c.Err())
		runs = append(runs, run)
	}

	moved := 0
	for _, e := range runs[0] {
		if e.Summary != nil {
			moved++
		}
	}
	require.Positive(t, moved)
	assert.Equal(t, runs[0], runs[1])
	assert.Equal(t, runs[0], runs[2])
}

func TestReset(t *testing.T) {
	c, err := chain.New(stripes(t), 15, 0.2, chain.WithSeed(5), chain.WithLogger(quiet))
	require.NoError(t, err)

	first := collect(t, c)
	c.Reset()
	assert.Equal(t, -1, c.Step())
	assert.Nil(t, c.Plan())
	assert.Equal(t, first, collect(t, c))
}

// firstBatchSurvivors counts the proposals of the first batch a chain seeded
// with seed samples from root at epsilon 0.5.
func firstBatchSurvivors(t *testing.T, root *partition.Plan, seed int64, batch int) int {
	t.Helper()
	ideal := root.Graph().TotalPop() / float64(root.NumDistricts())
	gen, err := recom.New(root.Graph(), recom.Params{IdealPopulation: ideal, Epsilon: 0.5})
	require.NoError(t, err)
	base := rand.New(rand.NewSource(seed)).Int63()
	survivors := 0
	for i := 0; i < batch; i++ {
		prop, err := gen.Sample(root, base+int64(i))
		require.NoError(t, err)
		if prop != nil {
			survivors++
		}
	}

	return survivors
}

// TestLeftovers: with a rejecting strategy, the survivors of the first batch
// are tried one per step before any new batch is sampled.
func TestLeftovers(t *testing.T) {
	const (
		seed  = 21
		batch = 6
		steps = 4
	)
	root := splitGrid(t)

	require.GreaterOrEqual(t, firstBatchSurvivors(t, root, seed, batch), steps)

	reg := prometheus.NewRegistry()
	m := chain.NewMetrics(reg)
	var calls int
	reject := func(*partition.Plan, int) (float64, error) {
		calls++
		return 0, nil
	}
	c, err := chain.New(root, steps, 0.5,
		chain.WithSeed(seed),
		chain.WithBatchSize(batch),
		chain.WithAcceptance(reject),
		chain.WithMetrics(m),
		chain.WithLogger(quiet),
	)
	require.NoError(t, err)

	for c.Next() {
		assert.Same(t, root, c.Plan())
	}
	require.NoError(t, c.Err())

	st := c.Stats()
	assert.Equal(t, steps-1, st.Rejected)
	assert.Equal(t, steps-2, st.LeftoversUsed)
	assert.Equal(t, steps-1, calls)
	assert.Equal(t, steps-1, root.SelfLoops())

	// Only one batch was ever sampled.
	assert.Equal(t, float64(batch), testutil.ToFloat64(m.Attempts("proposal"))+testutil.ToFloat64(m.Attempts("failed")))
	assert.Equal(t, float64(steps-1), testutil.ToFloat64(m.Steps(chain.OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Steps(chain.OutcomeInitial)))
}

func TestAcceptanceErrorStopsChain(t *testing.T) {
	const (
		seed  = 21
		batch = 6
	)
	root := splitGrid(t)
	require.Positive(t, firstBatchSurvivors(t, root, seed, batch))

	boom := errors.New("boom")
	c, err := chain.New(root, 5, 0.5,
		chain.WithSeed(seed),
		chain.WithBatchSize(batch),
		chain.WithAcceptance(func(*partition.Plan, int) (float64, error) { return 0, boom }),
		chain.WithLogger(quiet),
	)
	require.NoError(t, err)

	require.True(t, c.Next())
	assert.Equal(t, 0, c.Step())
	require.False(t, c.Next())
	assert.Equal(t, 1, c.Step())
	require.ErrorIs(t, c.Err(), boom)
	assert.False(t, c.Next())
}

func TestFrozenDeadlock(t *testing.T) {
	c, err := chain.New(splitGrid(t), 3, 0.5,
		chain.WithFrozenDistricts(1),
		chain.WithMaxCutEdgeDraws(10),
		chain.WithLogger(quiet),
	)
	require.NoError(t, err)

	require.True(t, c.Next())
	assert.False(t, c.Next())
	assert.ErrorIs(t, c.Err(), recom.ErrAllFrozen)
}

func TestAll_And_Run(t *testing.T) {
	c, err := chain.New(stripes(t), 6, 0.2, chain.WithSeed(1), chain.WithLogger(quiet))
	require.NoError(t, err)

	var steps []int
	for step := range c.All() {
		steps = append(steps, step)
		if step == 3 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3}, steps)

	stop := errors.New("stop")
	err = c.Run(func(step int, _ *partition.Plan) error {
		if step == 5 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)

	c.Reset()
	count := 0
	require.NoError(t, c.Run(func(int, *partition.Plan) error {
		count++
		return nil
	}))
	assert.Equal(t, 6, count)
}
