// Package lattice encodes the product lattice of per-attribute
// generalization levels as 64-bit mixed-radix node identifiers, and
// provides predecessor/successor enumeration, parent/child comparison,
// and predictive-property storage with UP/DOWN/NONE inheritance.
//
// A Lattice is immutable after construction except for its per-node
// property bitmap, which accumulates monotonically: properties are
// never retracted.
package lattice

import (
	"errors"
	"fmt"
)

// NodeID is a 64-bit mixed-radix encoding of a Transformation tuple.
// Total addressable nodes fit in 2^63; D ≤ 15 by design
// (enforced by dataset.MaxQIAttributes upstream).
type NodeID uint64

// Sentinel errors surfaced by New. All are ConfigurationError-class:
// fatal, reported once, before any lattice node is touched.
var (
	// ErrNoDimensions indicates zero QI attributes were supplied.
	ErrNoDimensions = errors.New("lattice: no dimensions")

	// ErrTooManyDimensions indicates D > 15, exceeding the 64-bit
	// mixed-radix addressing budget.
	ErrTooManyDimensions = errors.New("lattice: more than 15 dimensions")

	// ErrMinExceedsMax indicates minLevel_d > maxLevel_d for some d.
	ErrMinExceedsMax = errors.New("lattice: minLevel exceeds maxLevel")

	// ErrLatticeTooLarge indicates the product of radices overflows the
	// 64-bit node-ID space.
	ErrLatticeTooLarge = errors.New("lattice: total node count overflows uint64")

	// ErrDimensionMismatch indicates a Transformation tuple's length
	// does not match the lattice's dimensionality.
	ErrDimensionMismatch = errors.New("lattice: dimension count mismatch")
)

// MaxDimensions bounds the lattice dimensionality to fit a 64-bit
// mixed-radix NodeID with headroom for realistic per-attribute radices.
const MaxDimensions = 15

// Direction describes how a Property propagates across the partial
// order once recorded on a node.
type Direction int

const (
	// NONE: the property holds only for the node it was recorded on.
	NONE Direction = iota
	// UP: every ancestor (every node with all levels ≥ this node's)
	// implicitly has the property too.
	UP
	// DOWN: every descendant (every node with all levels ≤ this node's)
	// implicitly has the property too.
	DOWN
)

// Property is one of the predictive properties recorded on a lattice
// node. Each has a Direction, looked up in the owning Lattice's
// direction table (initialized from defaultPropertyDirection), not
// stored per-instance, so the zero value of Property is never ambiguous
// about its propagation rule.
type Property int

// The predictive properties tracked per node.
const (
	CHECKED Property = iota
	VISITED
	EXPANDED
	KAnonymous
	NotKAnonymous
	Anonymous
	NotAnonymous
	InsufficientUtility
	SuccessorsPruned
	ForceSnapshot

	numProperties // sentinel: count of defined properties, not a real property
)

// defaultPropertyDirection is the default direction table for the
// properties above. Anonymous/NotAnonymous default to NONE here; a
// fully monotonic privacy model (Configuration.Monotonicity == FULL) may
// promote them to UP/DOWN via Lattice.SetAggregateMonotonic — that
// decision belongs to the caller that knows the configured
// monotonicity (the root package's Anonymize).
var defaultPropertyDirection = [numProperties]Direction{
	CHECKED:             NONE,
	VISITED:             NONE,
	EXPANDED:            NONE,
	KAnonymous:          UP,
	NotKAnonymous:       DOWN,
	Anonymous:           NONE,
	NotAnonymous:        NONE,
	InsufficientUtility: UP,
	SuccessorsPruned:    UP,
	ForceSnapshot:       NONE,
}

// String renders the Property name for diagnostics.
func (p Property) String() string {
	switch p {
	case CHECKED:
		return "CHECKED"
	case VISITED:
		return "VISITED"
	case EXPANDED:
		return "EXPANDED"
	case KAnonymous:
		return "K_ANONYMOUS"
	case NotKAnonymous:
		return "NOT_K_ANONYMOUS"
	case Anonymous:
		return "ANONYMOUS"
	case NotAnonymous:
		return "NOT_ANONYMOUS"
	case InsufficientUtility:
		return "INSUFFICIENT_UTILITY"
	case SuccessorsPruned:
		return "SUCCESSORS_PRUNED"
	case ForceSnapshot:
		return "FORCE_SNAPSHOT"
	default:
		return fmt.Sprintf("Property(%d)", int(p))
	}
}
