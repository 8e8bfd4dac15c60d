// Package groupify computes the equivalence-class partitioning of a
// dataset under a candidate generalization transformation: every row's
// generalized QI key is hashed into a class, classes accumulate a count
// and, per sensitive attribute, a value distribution, and are exposed as
// a singly linked list in first-seen (row-order) order.
package groupify

import (
	"errors"

	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/hierarchy"
)

// Sentinel errors.
var (
	// ErrHierarchyCountMismatch indicates the number of supplied
	// hierarchies does not match the number of QI columns in the view.
	ErrHierarchyCountMismatch = errors.New("groupify: hierarchy count does not match QI column count")

	// ErrLevelCountMismatch indicates a Groupify call's levels slice
	// does not match the QI dimensionality.
	ErrLevelCountMismatch = errors.New("groupify: level count does not match QI dimensionality")
)

// Entry is one equivalence class: a canonical generalized key, its
// row count, an optional population
// count for the journalist attacker model, a per-sensitive-attribute
// value distribution, an outlier flag, and a Next pointer threading
// first-seen insertion order across the whole class list.
type Entry struct {
	// Key is the generalized QI tuple shared by every row in this class,
	// one dictionary code per QI dimension.
	Key []int32

	// Count is the number of sample rows matching Key.
	Count int

	// PCount is the population count for the journalist attacker model.
	// Zero means "not available"; the metric package falls back to the
	// prosecutor model (1/Count) in that case.
	PCount int

	// Dist holds, for each sensitive column (in the order returned by
	// the View's SensitiveIndices), a map from dictionary code to the
	// number of rows in this class carrying that code.
	Dist []map[int32]int

	// IsNotOutlier is false until the class is evaluated;
	// criteria.Evaluate sets it to true for every empty class or class
	// satisfying all criteria, and to false for every other class.
	IsNotOutlier bool

	// Next threads entries in first-seen (row-order) order. The last
	// entry's Next is nil.
	Next *Entry
}

// Result is the output of a Groupify call: the ordered class list
// (Head, walked via Entry.Next) plus bookkeeping counters the checker
// and metric packages need without re-walking the list.
type Result struct {
	Head       *Entry
	NumClasses int
	TotalRows  int
}

// Groupifier computes equivalence classes for a fixed dataset.View and
// set of per-QI-dimension hierarchies. It owns a preallocated
// open-addressed hash table reused across calls to Groupify, avoiding a
// fresh allocation on every node check.
type Groupifier struct {
	view        dataset.View
	hierarchies []*hierarchy.Hierarchy
	qi          []int
	sensitive   []int

	table    []slot
	mask     uint32
	parallel int
}

// Option configures a Groupifier at construction.
type Option func(*Groupifier)

// WithParallel enables sharded parallel row hashing across n goroutines,
// an optimization with no observable semantic effect. n <= 1 is
// equivalent to the sequential default.
func WithParallel(n int) Option {
	return func(g *Groupifier) {
		if n > 1 {
			g.parallel = n
		}
	}
}

// slot is one open-addressing bucket: empty unless used is true.
type slot struct {
	used  bool
	hash  uint32
	entry *Entry
}
