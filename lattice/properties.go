package lattice

import "github.com/bits-and-blooms/bitset"

// propertyStore holds the per-node predictive-property bitmap plus, for
// each directional property, the ordered list of nodes where it was
// recorded directly ("witnesses"). Directional has_property queries scan
// witnesses for dominance: the query consults both the node's own
// bitmap and, for directional properties, the transitive implication
// from a recorded witness.
//
// The bitmap is addressed as node·numProperties + property, a single
// flat bitset.BitSet rather than one bitset per node — it grows lazily
// (bitset.BitSet grows its backing words on demand) since the full Π
// radix_d address space is rarely all touched by a real search.
type propertyStore struct {
	bits *bitset.BitSet

	witnesses  [numProperties][]NodeID
	hasWitness [numProperties]map[NodeID]bool // de-dup guard for witnesses

	order []NodeID // insertion order of nodes that received CHECKED
	seen  map[NodeID]bool
}

func newPropertyStore() *propertyStore {
	ps := &propertyStore{
		bits: bitset.New(0),
		seen: make(map[NodeID]bool),
	}
	for p := Property(0); p < numProperties; p++ {
		ps.hasWitness[p] = make(map[NodeID]bool)
	}
	return ps
}

func (ps *propertyStore) bitIndex(id NodeID, p Property) uint {
	return uint(id)*uint(numProperties) + uint(p)
}

// putOwn sets the direct (non-propagated) bit for (id, p) and, unless p
// is non-propagating, records id as a witness for p.
func (ps *propertyStore) putOwn(id NodeID, p Property, directional bool) {
	ps.bits.Set(ps.bitIndex(id, p))
	if directional && !ps.hasWitness[p][id] {
		ps.hasWitness[p][id] = true
		ps.witnesses[p] = append(ps.witnesses[p], id)
	}
	if p == CHECKED && !ps.seen[id] {
		ps.seen[id] = true
		ps.order = append(ps.order, id)
	}
}

func (ps *propertyStore) hasOwn(id NodeID, p Property) bool {
	return ps.bits.Test(ps.bitIndex(id, p))
}

// PutProperty records p directly on id. Monotonic: once set, a property
// is never retracted.
func (l *Lattice) PutProperty(id NodeID, p Property) {
	l.props.putOwn(id, p, l.dir[p] != NONE)
}

// HasProperty reports whether id has property p, either directly or via
// transitive implication from an already-recorded witness.
func (l *Lattice) HasProperty(id NodeID, p Property) bool {
	if l.props.hasOwn(id, p) {
		return true
	}
	switch l.dir[p] {
	case UP:
		// id inherits p if some witness w ≤ id (w is a descendant of id,
		// i.e. id is w's ancestor) already has p directly.
		for _, w := range l.props.witnesses[p] {
			if l.IsParentChildOrEqual(id, w) {
				return true
			}
		}
	case DOWN:
		// id inherits p if some witness w ≥ id (w is an ancestor of id)
		// already has p directly.
		for _, w := range l.props.witnesses[p] {
			if l.IsParentChildOrEqual(w, id) {
				return true
			}
		}
	}
	return false
}

// CheckedOrder returns the materialized (CHECKED) nodes in the order
// they were first checked.
func (l *Lattice) CheckedOrder() []NodeID {
	out := make([]NodeID, len(l.props.order))
	copy(out, l.props.order)
	return out
}

// AllNodes returns every node in the lattice's address space, ordered by
// increasing NodeID. Intended only for small lattices as an unsafe full
// enumeration — callers should prefer CheckedOrder for anything touched
// during a real search.
func (l *Lattice) AllNodes() []NodeID {
	out := make([]NodeID, l.numNodes)
	for i := range out {
		out[i] = NodeID(i)
	}
	return out
}
