package snapshot

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arxgo/anonycore/lattice"
)

// ErrCacheSizeInvalid is returned by NewCache when historySize <= 0.
var ErrCacheSizeInvalid = errors.New("snapshot: history size must be > 0")

// Policy controls which snapshots are admitted into the cache. Both
// ratios apply as a conjunction: a candidate is admitted only if its
// class count is at most datasetRatio of the total row count AND at
// most snapshotRatio of the source snapshot's own class count.
type Policy struct {
	DatasetRatio  float64
	SnapshotRatio float64
}

// DefaultPolicy admits a snapshot only if it has already collapsed the
// dataset substantially.
var DefaultPolicy = Policy{DatasetRatio: 0.2, SnapshotRatio: 0.8}

// Cache is a bounded, LRU-evicted history of node snapshots, admitted
// under Policy. Lookups favor the closest dominating ancestor so a
// descendant node can reconstruct its classes without rescanning the
// base dataset.
type Cache struct {
	lru    *lru.Cache[lattice.NodeID, *Snapshot]
	policy Policy
	l      *lattice.Lattice
}

// NewCache builds a Cache bounded to historySize entries, evicted LRU,
// admitting candidates under policy.
func NewCache(l *lattice.Lattice, historySize int, policy Policy) (*Cache, error) {
	if historySize <= 0 {
		return nil, ErrCacheSizeInvalid
	}
	c, err := lru.New[lattice.NodeID, *Snapshot](historySize)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c, policy: policy, l: l}, nil
}

// Admit reports whether a snapshot with numClasses equivalence classes,
// captured from a source dataset of rowCount rows descended (directly
// or transitively) from a snapshot of sourceClassCount classes, should
// be retained. If sourceClassCount is 0 (capturing from a fresh
// groupification of the base data rather than from a reapplied ancestor
// snapshot), only the dataset-ratio threshold applies.
func (c *Cache) Admit(numClasses, rowCount, sourceClassCount int) bool {
	if rowCount <= 0 {
		return false
	}
	if float64(numClasses) > c.policy.DatasetRatio*float64(rowCount) {
		return false
	}
	if sourceClassCount > 0 && float64(numClasses) > c.policy.SnapshotRatio*float64(sourceClassCount) {
		return false
	}
	return true
}

// Put inserts snap for id, evicting the least recently used entry if
// the cache is at capacity. Callers must consult Admit first; Put does
// not itself apply policy.
func (c *Cache) Put(id lattice.NodeID, snap *Snapshot) {
	c.lru.Add(id, snap)
}

// Get returns the snapshot cached at exactly id, if any.
func (c *Cache) Get(id lattice.NodeID) (*Snapshot, bool) {
	return c.lru.Get(id)
}

// FindBestAncestor scans the cache for the dominating ancestor of id
// (every dimension of the ancestor's transformation <= id's) with the
// smallest lattice distance, i.e. the fewest generalization steps still
// needed to reach id. Returns (zero, false) if no cached node dominates
// id.
func (c *Cache) FindBestAncestor(id lattice.NodeID) (lattice.NodeID, *Snapshot, bool) {
	var best lattice.NodeID
	var bestSnap *Snapshot
	bestDist := -1
	found := false

	for _, key := range c.lru.Keys() {
		if key == id {
			continue
		}
		// key must be less-generalized (or equal) than id on every
		// dimension for Reapply's GeneralizeFrom calls to be valid
		// (fromLevel <= toLevel); id is the "parent" under
		// IsParentChildOrEqual's higher-level-dominates convention.
		if !c.l.IsParentChildOrEqual(id, key) {
			continue
		}
		snap, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		dist := latticeDistance(c.l, key, id)
		if !found || dist < bestDist {
			best, bestSnap, bestDist, found = key, snap, dist, true
		}
	}
	return best, bestSnap, found
}

// latticeDistance sums the per-dimension level difference between an
// ancestor and a descendant node, i.e. the number of single-step
// generalizations still needed to reach id from ancestor.
func latticeDistance(l *lattice.Lattice, ancestor, id lattice.NodeID) int {
	a := l.Decode(ancestor)
	b := l.Decode(id)
	dist := 0
	for i := range a {
		dist += b[i] - a[i]
	}
	return dist
}
