package metric

import (
	"math"

	"github.com/arxgo/anonycore/groupify"
	"github.com/arxgo/anonycore/hierarchy"
)

// PayoutConfig parameterizes the Stackelberg-game publisher-payout
// metric.
type PayoutConfig struct {
	Model            AttackerModel
	MaxPayout        float64 // publisherBenefit
	AttackerPayout   float64 // attackerCost
	GFactor, SFactor float64 // derived once via GSFactors(gsFactor)
}

// successProbability returns the attacker's success probability for a
// class under cfg.Model: 1/count for Prosecutor, 1/pcount for
// Journalist falling back to 1/count when pcount is unavailable.
func successProbability(e *groupify.Entry, model AttackerModel) float64 {
	if model == Journalist && e.PCount > 0 {
		return 1 / float64(e.PCount)
	}
	return 1 / float64(e.Count)
}

// payout computes the expected publisher payout π(infoLoss, p): the
// publisher's benefit scaled down both by how much information was
// lost and by the attacker's expected gain.
func payout(cfg PayoutConfig, infoLoss InformationLoss, p float64) float64 {
	return cfg.MaxPayout * (1 - float64(infoLoss)) * (1 - p*cfg.AttackerPayout/cfg.MaxPayout)
}

// ClassContribution computes one class's contribution to the real loss
// and to the attacker-free bound:
//
//   - outlier class: real = sFactor · count · maxPayout
//   - anonymous class: real = gFactor · count · (maxPayout − π(infoLoss, p))
//   - bound (any class): gFactor · count · (maxPayout − π(infoLoss, 0))
func ClassContribution(cfg PayoutConfig, e *groupify.Entry, infoLoss InformationLoss) Loss {
	bound := cfg.GFactor * float64(e.Count) * (cfg.MaxPayout - payout(cfg, infoLoss, 0))

	var real float64
	if !e.IsNotOutlier {
		real = cfg.SFactor * float64(e.Count) * cfg.MaxPayout
	} else {
		p := successProbability(e, cfg.Model)
		real = cfg.GFactor * float64(e.Count) * (cfg.MaxPayout - payout(cfg, infoLoss, p))
	}
	return Loss{Real: InformationLoss(real), Bound: InformationLoss(bound)}
}

// AggregatePayoutLoss sums ClassContribution over every class in res,
// each class's entropy-based infoLoss computed at levels, in the
// class list's first-seen order, for summation determinism.
func AggregatePayoutLoss(cfg PayoutConfig, res *groupify.Result, hierarchies []*hierarchy.Hierarchy, levels []int) Loss {
	var total Loss
	for e := res.Head; e != nil; e = e.Next {
		il := EntropyLoss(e, hierarchies, levels)
		c := ClassContribution(cfg, e, il)
		total.Real += c.Real
		total.Bound += c.Bound
	}
	return total
}

// MaxLoss returns the maximum possible loss, rowCount · maxPayout: the
// value a fully-suppressed node with no generalization reaches.
func MaxLoss(rowCount int, maxPayout float64) InformationLoss {
	return InformationLoss(float64(rowCount) * maxPayout)
}

// NumericFallback tries candidate risk-model evaluators in order
// (conventionally Pitman, Zayatz, SNB per Dankar et al.) and returns
// the first finite result, or NaN if every candidate produces NaN.
func NumericFallback(candidates ...func() float64) float64 {
	for _, f := range candidates {
		v := f()
		if !math.IsNaN(v) {
			return v
		}
	}
	return math.NaN()
}
