// Package flash implements the best-first, monotonicity-exploiting
// lattice search: a two-phase traversal that first locates
// the binary anonymous/not-anonymous frontier along a deterministic
// chain from bottom to top, then refines within the anonymous region
// for minimum loss, pruning whole cones via predictive properties.
package flash

import (
	"github.com/arxgo/anonycore/checker"
	"github.com/arxgo/anonycore/hierarchy"
	"github.com/arxgo/anonycore/lattice"
	"github.com/arxgo/anonycore/metric"
)

// ProgressSink is an explicit capability passed by reference into the
// search, replacing a global mutable listener. NodeChecked is
// called once per node check, in the order the search visits them.
type ProgressSink interface {
	NodeChecked(id lattice.NodeID, anonymous bool, loss metric.InformationLoss)
}

// NoopSink implements ProgressSink with no observable effect; the
// default when no sink is supplied.
type NoopSink struct{}

// NodeChecked implements ProgressSink.
func (NoopSink) NodeChecked(lattice.NodeID, bool, metric.InformationLoss) {}

// Solution is the outcome of a completed search: the best anonymous
// transformation found (if any), its loss, and how many nodes were
// actually checked (as opposed to pruned without a check).
type Solution struct {
	Found        bool
	Node         lattice.NodeID
	Levels       []int
	Loss         metric.InformationLoss
	NodesChecked int
}

// Engine binds a lattice, its checker, and the per-dimension
// hierarchies (needed for the heuristic's heightShare term) into one
// search run. Engine is single-use: construct a fresh one per search,
// since the core runs single-threaded to completion with no
// cancellation token.
type Engine struct {
	l           *lattice.Lattice
	checker     *checker.Checker
	hierarchies []*hierarchy.Hierarchy
	sink        ProgressSink

	checked int
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithProgressSink installs a ProgressSink observed as the search
// checks nodes.
func WithProgressSink(sink ProgressSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// New builds a search Engine.
func New(l *lattice.Lattice, ch *checker.Checker, hierarchies []*hierarchy.Hierarchy, opts ...Option) *Engine {
	e := &Engine{l: l, checker: ch, hierarchies: hierarchies, sink: NoopSink{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
