package partition_test

import (
	"testing"

	"github.com/katalvlaran/recom/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAssignment_SelfLoop(t *testing.T) {
	root, err := partition.New(path(t), []int{0, 0, 1, 1})
	require.NoError(t, err)

	next, err := partition.FromAssignment(root, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.Same(t, root, next)
	assert.Equal(t, 1, root.SelfLoops())
}

func TestFromAssignment_TwoDistricts(t *testing.T) {
	var calls int
	root, err := partition.New(path(t), []int{0, 0, 1, 2}, countingScore("cut", &calls))
	require.NoError(t, err)
	_, err = root.Score("cut")
	require.NoError(t, err)

	child, err := partition.FromAssignment(root, []int{0, 1, 1, 2})
	require.NoError(t, err)

	s := child.Summary()
	require.NotNil(t, s)
	assert.Equal(t, [2]int{0, 1}, s.Districts)
	assert.Equal(t, map[int][]int{0: {0}, 1: {1, 2}}, s.Flips)
	assert.Equal(t, [2]float64{1, 5}, s.NewPopulations)
	_, ok := child.TryGetParentScore("cut")
	assert.True(t, ok)
}

func TestFromAssignment_ManyDistricts(t *testing.T) {
	var calls int
	root, err := partition.New(path(t), []int{0, 0, 1, 2}, countingScore("cut", &calls))
	require.NoError(t, err)
	_, err = root.Score("cut")
	require.NoError(t, err)

	child, err := partition.FromAssignment(root, []int{1, 0, 2, 2})
	require.NoError(t, err)
	assert.True(t, child.HasParent())
	assert.Nil(t, child.Summary())
	_, ok := child.TryGetParentScore("cut")
	assert.False(t, ok)
}

func TestFromAssignment_Errors(t *testing.T) {
	root, err := partition.New(path(t), []int{0, 0, 1, 1})
	require.NoError(t, err)

	_, err = partition.FromAssignment(root, []int{0, 1})
	assert.ErrorIs(t, err, partition.ErrAssignmentLength)
	_, err = partition.FromAssignment(root, []int{0, 0, 1, 4})
	assert.ErrorIs(t, err, partition.ErrDistrictOutOfRange)
}
