// Package snapshot maintains a bounded history cache of prior
// groupifications keyed by lattice node, and reconstructs a descendant
// node's class list from an ancestor's snapshot by re-applying the
// per-dimension generalization delta to each cached class key, instead
// of rescanning the base data.
package snapshot

import (
	"github.com/arxgo/anonycore/groupify"
	"github.com/arxgo/anonycore/hierarchy"
	"github.com/arxgo/anonycore/lattice"
)

// Class is a compact, hierarchy-independent serialization of one
// equivalence class: just enough to re-derive a descendant node's
// classes without revisiting the base data.
type Class struct {
	Key    []int32
	Count  int
	PCount int
	Dist   []map[int32]int
}

// Snapshot is a compact serialization of a checked node's class list,
// tagged with the node's transformation so later re-application knows
// the per-dimension "from" level.
type Snapshot struct {
	Levels  []int
	Classes []Class
}

// Capture builds a Snapshot from a groupify.Result computed at the node
// whose transformation is levels.
func Capture(levels []int, res *groupify.Result) *Snapshot {
	classes := make([]Class, 0, res.NumClasses)
	for e := res.Head; e != nil; e = e.Next {
		classes = append(classes, Class{
			Key:    append([]int32(nil), e.Key...),
			Count:  e.Count,
			PCount: e.PCount,
			Dist:   e.Dist,
		})
	}
	lv := append([]int(nil), levels...)
	return &Snapshot{Levels: lv, Classes: classes}
}

// Reapply reconstructs the class list for target transformation toLevels
// from a snapshot taken at an ancestor node, using hierarchies (one per
// QI dimension, same order as Snapshot.Levels/toLevels) to re-generalize
// each cached key from the snapshot's level to the target's level.
// Classes that collapse onto the same re-generalized key are merged
// (counts summed, distributions combined) in the snapshot's original
// first-seen order, for floating-point/summation determinism.
func Reapply(snap *Snapshot, hierarchies []*hierarchy.Hierarchy, toLevels []int) *groupify.Result {
	type bucket struct {
		entry *groupify.Entry
	}
	index := make(map[string]*bucket, len(snap.Classes))

	var head, tail *groupify.Entry
	numClasses := 0
	totalRows := 0
	newKey := make([]int32, len(toLevels))

	for _, c := range snap.Classes {
		for d := range toLevels {
			newKey[d] = hierarchies[d].GeneralizeFrom(c.Key[d], snap.Levels[d], toLevels[d])
		}
		k := encodeKey(newKey)

		b, ok := index[k]
		if !ok {
			e := &groupify.Entry{
				Key:  append([]int32(nil), newKey...),
				Dist: make([]map[int32]int, len(c.Dist)),
			}
			b = &bucket{entry: e}
			index[k] = b
			numClasses++
			if head == nil {
				head = e
			} else {
				tail.Next = e
			}
			tail = e
		}

		b.entry.Count += c.Count
		b.entry.PCount += c.PCount
		for si, dist := range c.Dist {
			if dist == nil {
				continue
			}
			if b.entry.Dist[si] == nil {
				b.entry.Dist[si] = make(map[int32]int, len(dist))
			}
			for code, cnt := range dist {
				b.entry.Dist[si][code] += cnt
			}
		}
		totalRows += c.Count
	}

	return &groupify.Result{Head: head, NumClasses: numClasses, TotalRows: totalRows}
}

// encodeKey renders a generalized key as a comparable map key.
func encodeKey(key []int32) string {
	buf := make([]byte, len(key)*4)
	for i, v := range key {
		u := uint32(v)
		buf[i*4] = byte(u)
		buf[i*4+1] = byte(u >> 8)
		buf[i*4+2] = byte(u >> 16)
		buf[i*4+3] = byte(u >> 24)
	}
	return string(buf)
}

// NodeID aliases lattice.NodeID so callers need not import lattice just
// to name a cache key.
type NodeID = lattice.NodeID
