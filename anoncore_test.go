package anoncore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arxgo/anonycore"
	"github.com/arxgo/anonycore/criteria"
	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/hierarchy"
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

// TestNewConfig_RejectsTooManyQI verifies that more than 15 QI
// attributes is rejected at configuration time, before any lattice
// node is touched.
func TestNewConfig_RejectsTooManyQI(t *testing.T) {
	k := criteria.Bind(criteria.KAnonymity{K: 2}, 0)
	minLevels := make([]int, 16)
	maxLevels := make([]int, 16)

	_, err := anoncore.NewConfig([]criteria.Binding{k}, minLevels, maxLevels, 0, anoncore.MetricEntropy)
	require.Error(t, err)

	var cfgErr *anoncore.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.ErrorIs(t, err, anoncore.ErrTooManyQI)
}

// TestNewConfig_RejectsNoCriteria verifies that an empty criteria set
// is rejected rather than silently producing a search that accepts
// every transformation.
func TestNewConfig_RejectsNoCriteria(t *testing.T) {
	_, err := anoncore.NewConfig(nil, []int{0}, []int{1}, 0, anoncore.MetricEntropy)
	require.ErrorIs(t, err, anoncore.ErrNoCriteria)
}

// TestAnonymize_FindsMinimalGeneralization runs the full pipeline over
// a 4-row, single-QI-attribute dataset and checks it picks the same
// minimal node the flash and checker package tests verify in isolation.
func TestAnonymize_FindsMinimalGeneralization(t *testing.T) {
	data := dataset.NewMatrixView(4, 1, []int32{0, 1, 2, 3}, []int{0}, nil)
	h := ageHierarchy(t)

	k := criteria.Bind(criteria.KAnonymity{K: 2}, 0)
	cfg, err := anoncore.NewConfig([]criteria.Binding{k}, []int{0}, []int{1}, 0, anoncore.MetricEntropy)
	require.NoError(t, err)

	res, err := anoncore.Anonymize(data, []*hierarchy.Hierarchy{h}, cfg)
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, []int{1}, res.Levels)
	require.InDelta(t, 2.0, float64(res.Loss), 1e-9)
}

// TestAnonymize_RejectsHierarchyCountMismatch verifies that supplying
// fewer hierarchies than QI attributes is a ConfigurationError, not a
// panic or silent misalignment.
func TestAnonymize_RejectsHierarchyCountMismatch(t *testing.T) {
	data := dataset.NewMatrixView(4, 1, []int32{0, 1, 2, 3}, []int{0}, nil)
	k := criteria.Bind(criteria.KAnonymity{K: 2}, 0)
	cfg, err := anoncore.NewConfig([]criteria.Binding{k}, []int{0}, []int{1}, 0, anoncore.MetricEntropy)
	require.NoError(t, err)

	_, err = anoncore.Anonymize(data, nil, cfg)
	require.Error(t, err)

	var cfgErr *anoncore.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
