package metric

import (
	"errors"
	"math"
)

// ErrNoSampleUniques is the PreconditionError raised when a
// population-uniqueness estimator is asked to extrapolate from a
// sample with zero sample-unique classes — there is nothing to
// extrapolate from.
var ErrNoSampleUniques = errors.New("metric: no sample uniques to estimate population uniqueness from")

// SampleStats summarizes the equivalence-class size distribution an
// estimator needs: sampleSize (rows sampled), classCount (distinct
// equivalence classes observed), and uniqueCount (classes of size 1).
type SampleStats struct {
	SampleSize  int
	ClassCount  int
	UniqueCount int
}

// PitmanEstimator estimates population uniqueness via the Pitman
// sample-coverage model (Dankar et al., citing Pitman 1996): scales
// sample uniques by the inverse sampling fraction adjusted by the
// ratio of singleton to doubleton class counts. doubletonCount is the
// number of classes of size exactly 2.
func PitmanEstimator(s SampleStats, doubletonCount int, populationSize int) float64 {
	if s.UniqueCount == 0 {
		return math.NaN()
	}
	if doubletonCount == 0 {
		return math.NaN()
	}
	f := float64(s.SampleSize) / float64(populationSize)
	ratio := float64(s.UniqueCount) / float64(doubletonCount)
	est := float64(s.UniqueCount) * math.Pow(ratio, -f/(1-f))
	if math.IsInf(est, 0) {
		return math.NaN()
	}
	return est
}

// ZayatzEstimator estimates population uniqueness via Zayatz's
// log-linear model, a simpler fallback requiring only the sampling
// fraction and observed sample uniqueness.
func ZayatzEstimator(s SampleStats, populationSize int) float64 {
	if s.UniqueCount == 0 {
		return math.NaN()
	}
	f := float64(s.SampleSize) / float64(populationSize)
	if f <= 0 || f >= 1 {
		return math.NaN()
	}
	est := float64(s.UniqueCount) / f * (1 - f)
	return est
}

// SNBEstimator is the simple negative-binomial fallback: a direct
// extrapolation of sample uniqueness by the inverse sampling fraction,
// used only when both Pitman and Zayatz fail to produce a finite
// estimate.
func SNBEstimator(s SampleStats, populationSize int) float64 {
	if s.UniqueCount == 0 {
		return math.NaN()
	}
	f := float64(s.SampleSize) / float64(populationSize)
	if f <= 0 {
		return math.NaN()
	}
	return float64(s.UniqueCount) / f
}

// EstimatePopulationUniques runs the Pitman -> Zayatz -> SNB fallback
// chain and returns the first finite estimate. Returns
// ErrNoSampleUniques up front if the sample has no unique classes at
// all, since every estimator requires at least one to extrapolate
// from.
func EstimatePopulationUniques(s SampleStats, doubletonCount, populationSize int) (float64, error) {
	if s.UniqueCount == 0 {
		return 0, ErrNoSampleUniques
	}
	v := NumericFallback(
		func() float64 { return PitmanEstimator(s, doubletonCount, populationSize) },
		func() float64 { return ZayatzEstimator(s, populationSize) },
		func() float64 { return SNBEstimator(s, populationSize) },
	)
	return v, nil
}
