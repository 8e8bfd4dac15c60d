package snapshot_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/groupify"
	"github.com/arxgo/anonycore/hierarchy"
	"github.com/arxgo/anonycore/lattice"
	"github.com/arxgo/anonycore/snapshot"
)

// ageHierarchy builds the S1/S4 scenario's 4-leaf, 2-level "age"
// hierarchy: {25,26}->25*, {51,52}->5*.
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

func classKeys(res *groupify.Result) [][]int32 {
	var keys [][]int32
	for e := res.Head; e != nil; e = e.Next {
		keys = append(keys, e.Key)
	}
	sort.Slice(keys, func(i, j int) bool {
		for d := range keys[i] {
			if keys[i][d] != keys[j][d] {
				return keys[i][d] < keys[j][d]
			}
		}
		return false
	})
	return keys
}

// TestReapply_MatchesFreshGroupify verifies that a snapshot captured
// at a less-generalized node, reapplied to a more
// generalized descendant, yields the same class partition (as a
// multiset of keys/counts) as groupifying the descendant from scratch.
func TestReapply_MatchesFreshGroupify(t *testing.T) {
	data := dataset.NewMatrixView(4, 1, []int32{0, 1, 2, 3}, []int{0}, nil)
	h := ageHierarchy(t)
	hs := []*hierarchy.Hierarchy{h}

	g, err := groupify.New(data, hs)
	require.NoError(t, err)

	sourceRes, err := g.Groupify([]int{0})
	require.NoError(t, err)
	require.Equal(t, 4, sourceRes.NumClasses)

	snap := snapshot.Capture([]int{0}, sourceRes)

	reapplied := snapshot.Reapply(snap, hs, []int{1})
	freshRes, err := g.Groupify([]int{1})
	require.NoError(t, err)

	require.Equal(t, freshRes.NumClasses, reapplied.NumClasses)
	require.Equal(t, freshRes.TotalRows, reapplied.TotalRows)
	require.Equal(t, classKeys(freshRes), classKeys(reapplied))

	freshBySize := map[int]int{}
	for e := freshRes.Head; e != nil; e = e.Next {
		freshBySize[e.Count]++
	}
	reappliedBySize := map[int]int{}
	for e := reapplied.Head; e != nil; e = e.Next {
		reappliedBySize[e.Count]++
	}
	require.Equal(t, freshBySize, reappliedBySize)
}

// TestReapply_Identity verifies that reapplying to the same level the
// snapshot was captured at returns the snapshot unchanged.
func TestReapply_Identity(t *testing.T) {
	data := dataset.NewMatrixView(4, 1, []int32{0, 1, 2, 3}, []int{0}, nil)
	h := ageHierarchy(t)
	hs := []*hierarchy.Hierarchy{h}

	g, err := groupify.New(data, hs)
	require.NoError(t, err)
	res, err := g.Groupify([]int{0})
	require.NoError(t, err)

	snap := snapshot.Capture([]int{0}, res)
	reapplied := snapshot.Reapply(snap, hs, []int{0})

	require.Equal(t, res.NumClasses, reapplied.NumClasses)
	require.Equal(t, classKeys(res), classKeys(reapplied))
}

func TestCache_AdmitPolicy(t *testing.T) {
	l, err := lattice.New([]int{0}, []int{1})
	require.NoError(t, err)
	c, err := snapshot.NewCache(l, 4, snapshot.DefaultPolicy)
	require.NoError(t, err)

	// 2 classes out of 100 rows (<=0.2*100) and out of a 10-class
	// source (<=0.8*10): admitted.
	require.True(t, c.Admit(2, 100, 10))
	// 30 classes out of 100 rows exceeds the 0.2 dataset ratio: rejected.
	require.False(t, c.Admit(30, 100, 10))
	// 9 classes out of a 10-class source exceeds the 0.8 snapshot ratio
	// even though the dataset ratio alone would pass.
	require.False(t, c.Admit(9, 100, 10))
}

func TestCache_PutGetAndEviction(t *testing.T) {
	l, err := lattice.New([]int{0, 0}, []int{2, 2})
	require.NoError(t, err)
	c, err := snapshot.NewCache(l, 2, snapshot.DefaultPolicy)
	require.NoError(t, err)

	id0, _ := l.Encode([]int{0, 0})
	id1, _ := l.Encode([]int{1, 0})
	id2, _ := l.Encode([]int{2, 0})

	c.Put(id0, &snapshot.Snapshot{Levels: []int{0, 0}})
	c.Put(id1, &snapshot.Snapshot{Levels: []int{1, 0}})

	// Touching id0 makes id1 the least recently used entry.
	_, ok := c.Get(id0)
	require.True(t, ok)

	c.Put(id2, &snapshot.Snapshot{Levels: []int{2, 0}})
	_, ok = c.Get(id1)
	require.False(t, ok, "id1 was the least recently used entry and should have been evicted")
	_, ok = c.Get(id0)
	require.True(t, ok)
}

func TestCache_FindBestAncestor(t *testing.T) {
	l, err := lattice.New([]int{0, 0}, []int{2, 2})
	require.NoError(t, err)
	c, err := snapshot.NewCache(l, 8, snapshot.DefaultPolicy)
	require.NoError(t, err)

	idBottom, _ := l.Encode([]int{0, 0})
	idMid, _ := l.Encode([]int{1, 0})
	idTarget, _ := l.Encode([]int{2, 1})

	c.Put(idBottom, &snapshot.Snapshot{Levels: []int{0, 0}})
	c.Put(idMid, &snapshot.Snapshot{Levels: []int{1, 0}})

	best, snap, found := c.FindBestAncestor(idTarget)
	require.True(t, found)
	require.Equal(t, idMid, best)
	require.Equal(t, []int{1, 0}, snap.Levels)
}
