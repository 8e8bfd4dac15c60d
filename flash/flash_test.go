package flash_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arxgo/anonycore/checker"
	"github.com/arxgo/anonycore/criteria"
	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/flash"
	"github.com/arxgo/anonycore/hierarchy"
	"github.com/arxgo/anonycore/lattice"
)

func ageHierarchy(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	codes := [][]int32{
		{0, 4},
		{1, 4},
		{2, 5},
		{3, 5},
	}
	h, err := hierarchy.New(codes)
	require.NoError(t, err)
	return h
}

// twoAttrHierarchy builds a 3-leaf, 3-level hierarchy (heights [3,3]):
// every level collapses to a single value at the top, one level at a
// time.
func twoAttrHierarchy(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	codes := [][]int32{
		{0, 3, 6},
		{1, 3, 6},
		{2, 4, 6},
	}
	h, err := hierarchy.New(codes)
	require.NoError(t, err)
	return h
}

// TestRun_FindsMinimalAnonymousNode runs the search end to end: it
// must find node (1) anonymous with loss 2.0, having rejected node (0).
func TestRun_FindsMinimalAnonymousNode(t *testing.T) {
	data := dataset.NewMatrixView(4, 1, []int32{0, 1, 2, 3}, []int{0}, nil)
	h := ageHierarchy(t)
	hs := []*hierarchy.Hierarchy{h}

	l, err := lattice.New([]int{0}, []int{1})
	require.NoError(t, err)

	k := criteria.Bind(criteria.KAnonymity{K: 2}, 0)
	ch, err := checker.New(data, hs, l, []criteria.Binding{k}, 0)
	require.NoError(t, err)

	eng := flash.New(l, ch, hs)
	sol, err := eng.Run()
	require.NoError(t, err)

	require.True(t, sol.Found)
	require.Equal(t, []int{1}, sol.Levels)
	require.InDelta(t, 2.0, float64(sol.Loss), 1e-9)
}

// TestRun_TwoAttributeLattice searches a 2-attribute, 3-level-each
// lattice (9 nodes) with k=2; the search must not exceed 9 node checks
// (it may terminate earlier via pruning).
func TestRun_TwoAttributeLattice(t *testing.T) {
	data := dataset.NewMatrixView(3, 2, []int32{
		0, 0,
		1, 1,
		2, 2,
	}, []int{0, 1}, nil)

	h0 := twoAttrHierarchy(t)
	h1 := twoAttrHierarchy(t)
	hs := []*hierarchy.Hierarchy{h0, h1}

	l, err := lattice.New([]int{0, 0}, []int{2, 2})
	require.NoError(t, err)
	require.Equal(t, uint64(9), l.NumNodes())

	k := criteria.Bind(criteria.KAnonymity{K: 2}, 0)
	ch, err := checker.New(data, hs, l, []criteria.Binding{k}, 0)
	require.NoError(t, err)

	eng := flash.New(l, ch, hs)
	sol, err := eng.Run()
	require.NoError(t, err)
	require.LessOrEqual(t, sol.NodesChecked, 9)
}
