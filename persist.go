package anoncore

import (
	"github.com/arxgo/anonycore/lattice"
)

// PersistedNode is one record of the persisted-state format: a checked
// node's transformation tuple, its combined-verdict outcome, and its
// loss.
type PersistedNode struct {
	Levels    []int
	Anonymous bool
	Loss      float64
	Bound     float64
}

// WritePersistedState walks l's checked nodes in first-checked order
// and renders one PersistedNode per entry — the inverse of
// LoadPersistedState, used to serialize a completed or partial search
// for later resumption without rescanning the base data.
func WritePersistedState(l *lattice.Lattice) []PersistedNode {
	checked := l.CheckedOrder()
	out := make([]PersistedNode, 0, len(checked))
	for _, id := range checked {
		real, bound, ok := l.Loss(id)
		if !ok {
			continue
		}
		out = append(out, PersistedNode{
			Levels:    l.Decode(id),
			Anonymous: l.HasProperty(id, lattice.Anonymous),
			Loss:      real,
			Bound:     bound,
		})
	}
	return out
}

// LoadPersistedState deserializes a previously-computed lattice's
// checked nodes: for each record, it sets CHECKED, ANONYMOUS or
// NOT_ANONYMOUS, and the loss/bound cell on the matching node,
// silently skipping records whose Levels fail to Encode, since a malformed
// record cannot correspond to any valid node in l.
func LoadPersistedState(l *lattice.Lattice, records []PersistedNode) {
	for _, rec := range records {
		id, err := l.Encode(rec.Levels)
		if err != nil {
			continue
		}
		l.PutProperty(id, lattice.CHECKED)
		if rec.Anonymous {
			l.PutProperty(id, lattice.Anonymous)
		} else {
			l.PutProperty(id, lattice.NotAnonymous)
		}
		l.PutLoss(id, rec.Loss, rec.Bound)
	}
}
