// Package metric computes information loss for a checked node: an
// entropy-based generalization cost and the Stackelberg-game
// publisher-payout metric that folds attacker-model risk into the
// loss, with a real value and a monotone lower bound suitable for
// INSUFFICIENT_UTILITY pruning.
package metric

import "errors"

// ErrBadGSFactor indicates gsFactor is outside [0,1].
var ErrBadGSFactor = errors.New("metric: gsFactor must be in [0,1]")

// AttackerModel selects how a class's attacker-success probability is
// derived from its count and population count.
type AttackerModel int

const (
	// Prosecutor assumes the attacker already knows the victim is in
	// the sample: p = 1/count.
	Prosecutor AttackerModel = iota
	// Journalist assumes the attacker only knows the victim is in a
	// larger population: p = 1/pcount, falling back to Prosecutor when
	// pcount is unavailable (0).
	Journalist
)

// InformationLoss is a single non-negative real information-loss value.
// Comparison and addition are ordinary float64 operations; Bound is
// guaranteed <= the corresponding Real by every metric in this package.
type InformationLoss float64

// Loss bundles a realized loss with its lower bound, the pair C7/C8
// pass around together.
type Loss struct {
	Real  InformationLoss
	Bound InformationLoss
}

// GSFactors derives the gFactor/sFactor weighting pair from a single
// gsFactor in [0,1]: each factor scales linearly from 0 to 1 as
// gsFactor moves from 0 to 0.5, then holds at 1 for gsFactor >= 0.5,
// yielding gFactor = sFactor = 1 at 0.5.
func GSFactors(gsFactor float64) (gFactor, sFactor float64) {
	f := func(x float64) float64 {
		if x < 0.5 {
			return 2 * x
		}
		return 1
	}
	return f(gsFactor), f(gsFactor)
}
