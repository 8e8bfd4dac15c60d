package metric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arxgo/anonycore/groupify"
	"github.com/arxgo/anonycore/hierarchy"
	"github.com/arxgo/anonycore/metric"
)

func ageHierarchy(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	codes := [][]int32{
		{0, 4},
		{1, 4},
		{2, 5},
		{3, 5},
	}
	h, err := hierarchy.New(codes)
	require.NoError(t, err)
	return h
}

// TestEntropyLoss_WorkedExample verifies that at level 1, each 2-row
// class has loss 0.5, so the count-weighted total across the 4 sample
// rows is 2.0.
func TestEntropyLoss_WorkedExample(t *testing.T) {
	h := ageHierarchy(t)
	hs := []*hierarchy.Hierarchy{h}

	classA := &groupify.Entry{Key: []int32{4}, Count: 2, IsNotOutlier: true}
	classB := &groupify.Entry{Key: []int32{5}, Count: 2, IsNotOutlier: true}
	classA.Next = classB
	res := &groupify.Result{Head: classA, NumClasses: 2, TotalRows: 4}

	loss := metric.EntropyLoss(classA, hs, []int{1})
	require.InDelta(t, 0.5, float64(loss), 1e-9)

	agg := metric.AggregateEntropyLoss(res, hs, []int{1})
	require.InDelta(t, 2.0, float64(agg.Real), 1e-9)
}

// TestEntropyLoss_IdentityIsOne verifies the identity transformation
// (no generalization) yields loss 1 per class.
func TestEntropyLoss_IdentityIsOne(t *testing.T) {
	h := ageHierarchy(t)
	hs := []*hierarchy.Hierarchy{h}
	e := &groupify.Entry{Key: []int32{0}, Count: 1}
	require.InDelta(t, 1.0, float64(metric.EntropyLoss(e, hs, []int{0})), 1e-9)
}

// TestGSFactors_HalfIsIdentity verifies the scheme yields
// gFactor = sFactor = 1 at gsFactor = 0.5.
func TestGSFactors_HalfIsIdentity(t *testing.T) {
	g, s := metric.GSFactors(0.5)
	require.Equal(t, 1.0, g)
	require.Equal(t, 1.0, s)

	g, s = metric.GSFactors(0.25)
	require.InDelta(t, 0.5, g, 1e-9)
	require.InDelta(t, 0.5, s, 1e-9)

	g, s = metric.GSFactors(0.9)
	require.Equal(t, 1.0, g)
	require.Equal(t, 1.0, s)
}

// TestClassContribution_ProsecutorFullCoverage covers the prosecutor
// model, single class of 100 rows, infoLoss = 0 (maximal coverage).
func TestClassContribution_ProsecutorFullCoverage(t *testing.T) {
	cfg := metric.PayoutConfig{
		Model:          metric.Prosecutor,
		MaxPayout:      1200,
		AttackerPayout: 4,
		GFactor:        1,
		SFactor:        1,
	}
	e := &groupify.Entry{Count: 100, IsNotOutlier: true}

	c := metric.ClassContribution(cfg, e, 0)
	require.InDelta(t, 4.0, float64(c.Real), 0.01)
}

// TestClassContribution_JournalistFallback verifies that pcount = 0
// makes the journalist model behave identically to the prosecutor
// model.
func TestClassContribution_JournalistFallback(t *testing.T) {
	cfg := metric.PayoutConfig{
		Model:          metric.Journalist,
		MaxPayout:      1200,
		AttackerPayout: 4,
		GFactor:        1,
		SFactor:        1,
	}
	prosecutorCfg := cfg
	prosecutorCfg.Model = metric.Prosecutor

	e := &groupify.Entry{Count: 100, PCount: 0, IsNotOutlier: true}

	journalist := metric.ClassContribution(cfg, e, 0)
	prosecutor := metric.ClassContribution(prosecutorCfg, e, 0)
	require.InDelta(t, float64(prosecutor.Real), float64(journalist.Real), 1e-12)
}

// TestBoundLessThanOrEqualReal verifies that the attacker-free bound
// never exceeds realized loss, for both anonymous and outlier classes.
func TestBoundLessThanOrEqualReal(t *testing.T) {
	cfg := metric.PayoutConfig{
		Model:          metric.Prosecutor,
		MaxPayout:      1000,
		AttackerPayout: 10,
		GFactor:        1,
		SFactor:        1,
	}

	anon := &groupify.Entry{Count: 50, IsNotOutlier: true}
	c := metric.ClassContribution(cfg, anon, 0.3)
	require.LessOrEqual(t, float64(c.Bound), float64(c.Real)+1e-9)

	outlier := &groupify.Entry{Count: 10, IsNotOutlier: false}
	c2 := metric.ClassContribution(cfg, outlier, 0.3)
	require.LessOrEqual(t, float64(c2.Bound), float64(c2.Real)+1e-9)
}

func TestMaxLoss(t *testing.T) {
	require.Equal(t, metric.InformationLoss(1200), metric.MaxLoss(100, 12))
}

func TestNumericFallback(t *testing.T) {
	v := metric.NumericFallback(
		func() float64 { return math.NaN() },
		func() float64 { return math.NaN() },
		func() float64 { return 42 },
	)
	require.Equal(t, 42.0, v)

	v = metric.NumericFallback(
		func() float64 { return math.NaN() },
	)
	require.True(t, math.IsNaN(v))
}

func TestEstimatePopulationUniques_NoSampleUniques(t *testing.T) {
	_, err := metric.EstimatePopulationUniques(metric.SampleStats{SampleSize: 10, UniqueCount: 0}, 2, 100)
	require.ErrorIs(t, err, metric.ErrNoSampleUniques)
}
