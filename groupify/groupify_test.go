package groupify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/groupify"
	"github.com/arxgo/anonycore/hierarchy"
)

// ageHierarchy builds a 4-leaf, 2-level "age" hierarchy:
// {25->25*, 26->25*, 51->5*, 52->5*}, levels 0 (identity) and 1.
func ageHierarchy(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	// Dictionary codes: 0=25, 1=26, 2=51, 3=52. Level 1 generalizes
	// {0,1}->4 ("25*") and {2,3}->5 ("5*").
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

func TestGroupify_AgeHierarchyAcrossLevels(t *testing.T) {
	// 4 rows, ages 25,26,51,52 (dict codes 0,1,2,3).
	data := dataset.NewMatrixView(4, 1, []int32{0, 1, 2, 3}, []int{0}, nil)
	h := ageHierarchy(t)

	g, err := groupify.New(data, []*hierarchy.Hierarchy{h})
	require.NoError(t, err)

	t.Run("level 0: four singleton classes", func(t *testing.T) {
		res, err := g.Groupify([]int{0})
		require.NoError(t, err)
		require.Equal(t, 4, res.NumClasses)
		for e := res.Head; e != nil; e = e.Next {
			require.Equal(t, 1, e.Count)
		}
	})

	t.Run("level 1: two classes of size two", func(t *testing.T) {
		res, err := g.Groupify([]int{1})
		require.NoError(t, err)
		require.Equal(t, 2, res.NumClasses)
		for e := res.Head; e != nil; e = e.Next {
			require.Equal(t, 2, e.Count)
		}
	})
}

func TestGroupify_FirstSeenOrder(t *testing.T) {
	// Rows arrive in an order that interleaves two classes; the result
	// must preserve first-seen order regardless of hash iteration.
	data := dataset.NewMatrixView(6, 1, []int32{3, 0, 1, 2, 0, 3}, []int{0}, nil)
	h := ageHierarchy(t)

	g, err := groupify.New(data, []*hierarchy.Hierarchy{h})
	require.NoError(t, err)

	res, err := g.Groupify([]int{0})
	require.NoError(t, err)

	var order []int32
	for e := res.Head; e != nil; e = e.Next {
		order = append(order, e.Key[0])
	}
	require.Equal(t, []int32{3, 0, 1, 2}, order)
}

func TestGroupifyParallel_MatchesSequential(t *testing.T) {
	n := 200
	codes := make([]int32, n)
	for i := range codes {
		codes[i] = int32(i % 4)
	}
	data := dataset.NewMatrixView(n, 1, codes, []int{0}, nil)
	h := ageHierarchy(t)

	seq, err := groupify.New(data, []*hierarchy.Hierarchy{h})
	require.NoError(t, err)
	seqRes, err := seq.Groupify([]int{1})
	require.NoError(t, err)

	par, err := groupify.New(data, []*hierarchy.Hierarchy{h}, groupify.WithParallel(4))
	require.NoError(t, err)
	parRes, err := par.GroupifyParallel([]int{1})
	require.NoError(t, err)

	require.Equal(t, seqRes.NumClasses, parRes.NumClasses)
	require.Equal(t, seqRes.TotalRows, parRes.TotalRows)

	se, pe := seqRes.Head, parRes.Head
	for se != nil && pe != nil {
		require.Equal(t, se.Key, pe.Key)
		require.Equal(t, se.Count, pe.Count)
		se, pe = se.Next, pe.Next
	}
	require.Nil(t, se)
	require.Nil(t, pe)
}

func TestGroupify_SensitiveDistribution(t *testing.T) {
	// col0=QI age code, col1=sensitive disease code.
	data := dataset.NewMatrixView(4, 2, []int32{
		0, 7,
		1, 7,
		2, 8,
		3, 9,
	}, []int{0}, []int{1})
	h := ageHierarchy(t)

	g, err := groupify.New(data, []*hierarchy.Hierarchy{h})
	require.NoError(t, err)

	res, err := g.Groupify([]int{1})
	require.NoError(t, err)
	require.Equal(t, 2, res.NumClasses)

	for e := res.Head; e != nil; e = e.Next {
		require.Len(t, e.Dist, 1)
		total := 0
		for _, cnt := range e.Dist[0] {
			total += cnt
		}
		require.Equal(t, e.Count, total)
	}
}
