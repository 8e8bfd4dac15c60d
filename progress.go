package anoncore

import (
	"fmt"
	"io"

	"github.com/arxgo/anonycore/flash"
	"github.com/arxgo/anonycore/lattice"
	"github.com/arxgo/anonycore/metric"
)

// ProgressSink is re-exported from package flash so callers configuring
// an anoncore.Config need not import flash directly for this one type:
// an explicit capability passed by reference into the search, rather
// than a global mutable listener.
type ProgressSink = flash.ProgressSink

// noopSink is the package-local default; kept distinct from
// flash.NoopSink only so Config's zero value never needs to reach into
// another package's exported zero-size type to construct its default.
type noopSink struct{}

func (noopSink) NodeChecked(lattice.NodeID, bool, metric.InformationLoss) {}

// WriterSink implements ProgressSink by writing one line per checked
// node to W, a minimal "print as you go" example sink.
type WriterSink struct {
	W io.Writer
}

// NodeChecked implements ProgressSink.
func (s WriterSink) NodeChecked(id lattice.NodeID, anonymous bool, loss metric.InformationLoss) {
	fmt.Fprintf(s.W, "checked node %d: anonymous=%v loss=%.4f\n", id, anonymous, float64(loss))
}
