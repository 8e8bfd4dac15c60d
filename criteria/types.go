// Package criteria implements the privacy predicates evaluated against
// an equivalence-class partition: k-anonymity, the ℓ-diversity family,
// and t-closeness, plus the combined verdict with outlier-budget
// bookkeeping.
package criteria

import (
	"errors"

	"github.com/arxgo/anonycore/groupify"
)

// ErrBadOutlierRate indicates allowedOutliers is outside [0,1).
var ErrBadOutlierRate = errors.New("criteria: allowedOutliers must be in [0,1)")

// DiversityKind selects among the ℓ-diversity formulations.
type DiversityKind int

const (
	// DistinctDiversity requires at least ℓ distinct sensitive values.
	DistinctDiversity DiversityKind = iota
	// RecursiveDiversity requires the most frequent value not to dominate
	// the rest by more than a factor c (recursive (c,ℓ)-diversity).
	RecursiveDiversity
	// EntropyDiversity requires the Shannon entropy of the class's
	// sensitive-value distribution to be at least log(ℓ).
	EntropyDiversity
)

// TClosenessKind selects the distance used by t-closeness.
type TClosenessKind int

const (
	// EqualDistance treats sensitive values as an unordered set (plain
	// earth-mover's distance over the discrete distribution).
	EqualDistance TClosenessKind = iota
	// HierarchicalDistance weights the earth-mover's distance by the
	// sensitive attribute's own generalization hierarchy.
	HierarchicalDistance
)

// Criterion is the common interface every privacy predicate implements:
// IsAnonymous reports whether a class satisfies the predicate in
// isolation.
type Criterion interface {
	// IsAnonymous reports whether a single class satisfies the
	// criterion; sensitiveIndex selects which of the class's Dist
	// slices to evaluate.
	IsAnonymous(e *groupify.Entry, sensitiveIndex int) bool
}

// KAnonymity requires class.count >= K.
type KAnonymity struct {
	K int
}

// IsAnonymous implements Criterion.
func (c KAnonymity) IsAnonymous(e *groupify.Entry, _ int) bool {
	return e.Count >= c.K
}

// LDiversity requires, per DiversityKind, a minimum sensitive-value
// spread within the class.
type LDiversity struct {
	Kind DiversityKind
	L    int
	// C is the dominance bound for RecursiveDiversity (c,ℓ)-diversity;
	// unused for the other kinds.
	C float64
}

// IsAnonymous implements Criterion.
func (c LDiversity) IsAnonymous(e *groupify.Entry, sensitiveIndex int) bool {
	dist := e.Dist[sensitiveIndex]
	switch c.Kind {
	case DistinctDiversity:
		return len(dist) >= c.L
	case RecursiveDiversity:
		return recursiveDiverse(dist, c.L, c.C)
	case EntropyDiversity:
		return entropyDiverse(dist, c.L)
	default:
		return false
	}
}

// TCloseness requires the earth-mover's distance between a class's
// sensitive-value distribution and the global distribution not to
// exceed T.
type TCloseness struct {
	Kind TClosenessKind
	T    float64
	// Global is the dataset-wide distribution (code -> fraction of
	// rows), precomputed once by the caller over the whole dataset.
	Global map[int32]float64
	// HierarchyDistance, used only when Kind == HierarchicalDistance,
	// returns the ground distance between two sensitive dictionary
	// codes at generalization level 0.
	HierarchyDistance func(a, b int32) float64
}

// IsAnonymous implements Criterion.
func (c TCloseness) IsAnonymous(e *groupify.Entry, sensitiveIndex int) bool {
	dist := e.Dist[sensitiveIndex]
	local := toFractions(dist, e.Count)
	var d float64
	if c.Kind == HierarchicalDistance && c.HierarchyDistance != nil {
		d = hierarchicalEMD(local, c.Global, c.HierarchyDistance)
	} else {
		d = equalEMD(local, c.Global)
	}
	return d <= c.T
}
