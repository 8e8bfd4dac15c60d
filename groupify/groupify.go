package groupify

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/hierarchy"
)

// New builds a Groupifier for view, with one hierarchy per QI dimension
// in the same order as view.QIIndices(). The open-addressed hash table
// is preallocated to the next power of two at or above 2·Rows() (a 0.5
// load factor), with a floor of 16 slots, sized once and reused by every
// subsequent Groupify call.
func New(view dataset.View, hierarchies []*hierarchy.Hierarchy, opts ...Option) (*Groupifier, error) {
	qi := view.QIIndices()
	if len(hierarchies) != len(qi) {
		return nil, ErrHierarchyCountMismatch
	}

	g := &Groupifier{
		view:        view,
		hierarchies: hierarchies,
		qi:          qi,
		sensitive:   view.SensitiveIndices(),
	}
	for _, opt := range opts {
		opt(g)
	}

	size := nextPow2(2 * view.Rows())
	if size < 16 {
		size = 16
	}
	g.table = make([]slot, size)
	g.mask = uint32(size - 1)

	return g, nil
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// keyBuf is a scratch buffer reused by hashKey; Groupify is single
// threaded on the sequential path so this is safe without locking.
type keyBuf struct {
	buf []byte
}

func hashKey(kb *keyBuf, key []int32) uint32 {
	need := len(key) * 4
	if cap(kb.buf) < need {
		kb.buf = make([]byte, need)
	}
	buf := kb.buf[:need]
	for i, v := range key {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	h := xxhash.Sum64(buf)
	// Fold to 32 bits: deterministic, ASLR-independent.
	return uint32(h) ^ uint32(h>>32)
}

func keyEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Groupify computes the equivalence-class partitioning of the bound
// dataset under transformation levels (one generalization level per QI
// dimension, same order as the hierarchies passed to New). Classes are
// returned in first-seen (row-order) order via Result.Head.Next chains.
func (g *Groupifier) Groupify(levels []int) (*Result, error) {
	if len(levels) != len(g.qi) {
		return nil, ErrLevelCountMismatch
	}

	g.resetTable()

	var head, tail *Entry
	numClasses := 0
	var kb keyBuf
	key := make([]int32, len(g.qi))

	rows := g.view.Rows()
	for r := 0; r < rows; r++ {
		for d, col := range g.qi {
			raw := g.view.Value(r, col)
			key[d] = g.hierarchies[d].Generalize(raw, levels[d])
		}

		e, created := g.insert(&kb, key)
		if created {
			numClasses++
			if head == nil {
				head = e
			} else {
				tail.Next = e
			}
			tail = e
		}
		e.Count++
		for si, col := range g.sensitive {
			if e.Dist[si] == nil {
				e.Dist[si] = make(map[int32]int)
			}
			e.Dist[si][g.view.Value(r, col)]++
		}
	}

	return &Result{Head: head, NumClasses: numClasses, TotalRows: rows}, nil
}

// resetTable clears every slot's used flag without reallocating the
// backing array, so the groupifier reuses its preallocated hash array
// across node checks.
func (g *Groupifier) resetTable() {
	for i := range g.table {
		g.table[i] = slot{}
	}
}

// insert finds or creates the Entry for key in the open-addressed table,
// using linear probing. Returns (entry, true) if a new class was
// created, (entry, false) if key already had a class.
func (g *Groupifier) insert(kb *keyBuf, key []int32) (*Entry, bool) {
	h := hashKey(kb, key)
	idx := h & g.mask
	for {
		s := &g.table[idx]
		if !s.used {
			keyCopy := make([]int32, len(key))
			copy(keyCopy, key)
			e := &Entry{Key: keyCopy, Dist: make([]map[int32]int, len(g.sensitive))}
			*s = slot{used: true, hash: h, entry: e}
			return e, true
		}
		if s.hash == h && keyEqual(s.entry.Key, key) {
			return s.entry, false
		}
		idx = (idx + 1) & g.mask
	}
}
