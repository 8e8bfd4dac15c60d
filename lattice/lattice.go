package lattice

// Lattice is the product lattice over per-attribute generalization
// levels. It owns all node property storage (the arena-allocated
// "world" value); components elsewhere hold only NodeID values, never
// pointers into lattice-internal structures.
type Lattice struct {
	minLevel   []int
	maxLevel   []int
	radix      []int    // radix[d] = maxLevel[d] - minLevel[d] + 1
	multiplier []uint64 // multiplier[d], precomputed right-to-left

	numNodes uint64 // Π radix[d]

	dir   [numProperties]Direction
	props *propertyStore
	loss  map[NodeID]lossCell
}

// New validates minLevel/maxLevel and constructs the Lattice. Returns a
// ConfigurationError-class sentinel if the dimensionality, a
// level range, or the total node count is invalid — never a partially
// built Lattice.
func New(minLevel, maxLevel []int) (*Lattice, error) {
	d := len(minLevel)
	if d == 0 {
		return nil, ErrNoDimensions
	}
	if d > MaxDimensions {
		return nil, ErrTooManyDimensions
	}
	if len(maxLevel) != d {
		return nil, ErrDimensionMismatch
	}

	radix := make([]int, d)
	for i := 0; i < d; i++ {
		if minLevel[i] > maxLevel[i] {
			return nil, ErrMinExceedsMax
		}
		radix[i] = maxLevel[i] - minLevel[i] + 1
	}

	multiplier := make([]uint64, d)
	var total uint64 = 1
	// multiplier is built right-to-left: multiplier[d-1] = 1,
	// multiplier[i] = multiplier[i+1] * radix[i+1].
	for i := d - 1; i >= 0; i-- {
		multiplier[i] = total
		next := total * uint64(radix[i])
		if radix[i] != 0 && next/uint64(radix[i]) != total {
			return nil, ErrLatticeTooLarge
		}
		total = next
	}

	l := &Lattice{
		minLevel:   append([]int(nil), minLevel...),
		maxLevel:   append([]int(nil), maxLevel...),
		radix:      radix,
		multiplier: multiplier,
		numNodes:   total,
		dir:        defaultPropertyDirection,
		props:      newPropertyStore(),
	}
	return l, nil
}

// Dimensions returns D, the number of QI attributes in the lattice.
func (l *Lattice) Dimensions() int { return len(l.minLevel) }

// NumNodes returns the total number of distinct nodes, Π radix_d.
func (l *Lattice) NumNodes() uint64 { return l.numNodes }

// SetAggregateMonotonic promotes Anonymous/NotAnonymous to UP/DOWN
// propagation when the configured privacy model is fully monotonic.
// Must be called, if at all, before any property is recorded; it is
// not safe to change propagation rules mid-search.
func (l *Lattice) SetAggregateMonotonic() {
	l.dir[Anonymous] = UP
	l.dir[NotAnonymous] = DOWN
}

// Encode maps a Transformation tuple t (one level per dimension) to its
// NodeID: id = Σ (t_d - minLevel_d) · multiplier_d.
func (l *Lattice) Encode(t []int) (NodeID, error) {
	if len(t) != l.Dimensions() {
		return 0, ErrDimensionMismatch
	}
	var id uint64
	for d, lvl := range t {
		id += uint64(lvl-l.minLevel[d]) * l.multiplier[d]
	}
	return NodeID(id), nil
}

// Decode maps a NodeID back to its Transformation tuple via right-to-left
// divmod against the precomputed radices.
func (l *Lattice) Decode(id NodeID) []int {
	d := l.Dimensions()
	t := make([]int, d)
	rem := uint64(id)
	for i := d - 1; i >= 0; i-- {
		t[i] = int(rem%uint64(l.radix[i])) + l.minLevel[i]
		rem /= uint64(l.radix[i])
	}
	return t
}

// Level returns Σ ℓ_d for the node identified by id.
func (l *Lattice) Level(id NodeID) int {
	t := l.Decode(id)
	sum := 0
	for _, lvl := range t {
		sum += lvl
	}
	return sum
}

// LevelOf returns Σ t_d for an explicit Transformation tuple.
func LevelOf(t []int) int {
	sum := 0
	for _, lvl := range t {
		sum += lvl
	}
	return sum
}

// Bottom returns the node with every dimension at its minLevel (the
// identity transformation, no generalization applied).
func (l *Lattice) Bottom() NodeID { return 0 }

// Top returns the node with every dimension at its maxLevel (maximal
// generalization).
func (l *Lattice) Top() NodeID {
	return NodeID(l.numNodes - 1)
}

// Predecessors returns the one-step predecessors of id: for each
// dimension d where t_d > minLevel_d, the node obtained by decrementing
// t_d by one. Order follows dimension index ascending.
func (l *Lattice) Predecessors(id NodeID) []NodeID {
	t := l.Decode(id)
	out := make([]NodeID, 0, len(t))
	for d := 0; d < len(t); d++ {
		if t[d] > l.minLevel[d] {
			t[d]--
			pid, _ := l.Encode(t)
			out = append(out, pid)
			t[d]++
		}
	}
	return out
}

// Successors returns the one-step successors of id: for each dimension
// d where t_d < maxLevel_d, the node obtained by incrementing t_d by
// one. Returned in reverse dimensional order, preserved from the
// original iteration order without second-guessing whether the
// reversal is load-bearing for correctness or only for reproducing
// logged traces.
func (l *Lattice) Successors(id NodeID) []NodeID {
	t := l.Decode(id)
	out := make([]NodeID, 0, len(t))
	for d := len(t) - 1; d >= 0; d-- {
		if t[d] < l.maxLevel[d] {
			t[d]++
			sid, _ := l.Encode(t)
			out = append(out, sid)
			t[d]--
		}
	}
	return out
}

// IsParentChildOrEqual reports whether parent ≥ child component-wise:
// ∀d. parent_d ≥ child_d. A node is considered its own
// parent and child under this relation.
func (l *Lattice) IsParentChildOrEqual(parent, child NodeID) bool {
	pt := l.Decode(parent)
	ct := l.Decode(child)
	for d := range pt {
		if pt[d] < ct[d] {
			return false
		}
	}
	return true
}

// EqualDimensionsBitmask returns a bitmask with bit d set iff a and b
// agree on dimension d.
func (l *Lattice) EqualDimensionsBitmask(a, b NodeID) uint64 {
	at := l.Decode(a)
	bt := l.Decode(b)
	var mask uint64
	for d := range at {
		if at[d] == bt[d] {
			mask |= 1 << uint(d)
		}
	}
	return mask
}
