// Package checker orchestrates the groupifier, privacy criteria, and
// utility metric for a single lattice node: it chooses a source
// (snapshot or base data), groupifies, evaluates privacy, computes
// loss, and records properties back onto the lattice.
package checker

import (
	"errors"

	"github.com/arxgo/anonycore/criteria"
	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/groupify"
	"github.com/arxgo/anonycore/hierarchy"
	"github.com/arxgo/anonycore/lattice"
	"github.com/arxgo/anonycore/metric"
	"github.com/arxgo/anonycore/snapshot"
)

// ErrNoHierarchies is a ConfigurationError indicating the checker was
// built with zero QI hierarchies, which cannot correspond to any valid
// lattice dimensionality.
var ErrNoHierarchies = errors.New("checker: no hierarchies configured")

// Result is the outcome of checking one node.
type Result struct {
	Anonymous bool
	Loss      metric.Loss
	Verdict   criteria.Verdict
}

// Checker binds everything a node check needs: the base data, the
// per-QI-dimension hierarchies, the groupifier, the lattice (for
// encoding/decoding and property recording), the snapshot cache, the
// criteria to test, and the configured metric.
type Checker struct {
	view        dataset.View
	hierarchies []*hierarchy.Hierarchy
	g           *groupify.Groupifier
	l           *lattice.Lattice
	cache       *snapshot.Cache

	criteria        []criteria.Binding
	allowedOutliers float64

	useEntropy bool
	payoutCfg  metric.PayoutConfig
}

// Option configures a Checker at construction.
type Option func(*Checker)

// WithSnapshotCache enables snapshot-derived groupification.
func WithSnapshotCache(c *snapshot.Cache) Option {
	return func(ch *Checker) { ch.cache = c }
}

// WithEntropyMetric selects the entropy-based information-loss metric.
func WithEntropyMetric() Option {
	return func(ch *Checker) { ch.useEntropy = true }
}

// WithPayoutMetric selects the Stackelberg publisher-payout metric.
func WithPayoutMetric(cfg metric.PayoutConfig) Option {
	return func(ch *Checker) {
		ch.useEntropy = false
		ch.payoutCfg = cfg
	}
}

// New builds a Checker. By default the entropy-based metric is used;
// pass WithPayoutMetric to select the publisher-payout metric instead.
func New(view dataset.View, hierarchies []*hierarchy.Hierarchy, l *lattice.Lattice, crits []criteria.Binding, allowedOutliers float64, opts ...Option) (*Checker, error) {
	if len(hierarchies) == 0 {
		return nil, ErrNoHierarchies
	}
	g, err := groupify.New(view, hierarchies)
	if err != nil {
		return nil, err
	}
	ch := &Checker{
		view:            view,
		hierarchies:     hierarchies,
		g:               g,
		l:               l,
		criteria:        crits,
		allowedOutliers: allowedOutliers,
		useEntropy:      true,
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch, nil
}

// Check performs the full per-node evaluation flow for node id at
// transformation levels: groupify (from the best cached ancestor if one dominates id,
// else from base data), evaluate privacy criteria with outlier-budget
// bookkeeping, compute loss, record properties on the lattice, and
// consider the result for snapshot admission.
func (c *Checker) Check(id lattice.NodeID, levels []int) (Result, error) {
	res, sourceClassCount, err := c.groupifyFor(id, levels)
	if err != nil {
		return Result{}, err
	}

	verdict := criteria.Evaluate(res, c.criteria, c.allowedOutliers)

	kAnon := kAnonymousVerdict(res, c.criteria)

	var loss metric.Loss
	if c.useEntropy {
		loss = metric.AggregateEntropyLoss(res, c.hierarchies, levels)
	} else {
		loss = metric.AggregatePayoutLoss(c.payoutCfg, res, c.hierarchies, levels)
	}

	c.recordProperties(id, verdict, kAnon)
	c.l.PutLoss(id, float64(loss.Real), float64(loss.Bound))

	if c.cache != nil {
		snap := snapshot.Capture(levels, res)
		if c.cache.Admit(res.NumClasses, res.TotalRows, sourceClassCount) {
			c.cache.Put(id, snap)
		}
	}

	return Result{Anonymous: verdict.Anonymous, Loss: loss, Verdict: verdict}, nil
}

// groupifyFor produces the class list for levels, reusing the closest
// dominating ancestor's snapshot when one is cached, otherwise
// groupifying the base data. sourceClassCount is the ancestor
// snapshot's class count (0 if groupified fresh), used by the
// admission-policy conjunction.
func (c *Checker) groupifyFor(id lattice.NodeID, levels []int) (*groupify.Result, int, error) {
	if c.cache != nil {
		if _, snap, ok := c.cache.FindBestAncestor(id); ok {
			return snapshot.Reapply(snap, c.hierarchies, levels), len(snap.Classes), nil
		}
	}
	res, err := c.g.Groupify(levels)
	if err != nil {
		return nil, 0, err
	}
	return res, 0, nil
}

// kAnonymousVerdict evaluates only the KAnonymity criteria among crits,
// recorded independently of the combined verdict so K_ANONYMOUS /
// NOT_K_ANONYMOUS can drive its own UP/DOWN pruning.
func kAnonymousVerdict(res *groupify.Result, crits []criteria.Binding) bool {
	var kCrits []criteria.Binding
	for _, b := range crits {
		if _, ok := b.Criterion.(criteria.KAnonymity); ok {
			kCrits = append(kCrits, b)
		}
	}
	if len(kCrits) == 0 {
		return true
	}
	for e := res.Head; e != nil; e = e.Next {
		if e.Count == 0 {
			continue
		}
		for _, b := range kCrits {
			if !b.Criterion.IsAnonymous(e, b.SensitiveIndex) {
				return false
			}
		}
	}
	return true
}

func (c *Checker) recordProperties(id lattice.NodeID, v criteria.Verdict, kAnon bool) {
	c.l.PutProperty(id, lattice.CHECKED)
	if v.Anonymous {
		c.l.PutProperty(id, lattice.Anonymous)
	} else {
		c.l.PutProperty(id, lattice.NotAnonymous)
	}
	if kAnon {
		c.l.PutProperty(id, lattice.KAnonymous)
	} else {
		c.l.PutProperty(id, lattice.NotKAnonymous)
	}
}
