package anoncore

import (
	"github.com/arxgo/anonycore/criteria"
	"github.com/arxgo/anonycore/metric"
	"github.com/arxgo/anonycore/snapshot"
)

// Monotonicity classifies how the combined privacy verdict propagates
// across the lattice: FULL promotes ANONYMOUS/
// NOT_ANONYMOUS to UP/DOWN propagation; PARTIAL and NONE leave them
// NONE, relying only on K_ANONYMOUS/NOT_K_ANONYMOUS for pruning.
type Monotonicity int

const (
	MonotonicityNone Monotonicity = iota
	MonotonicityPartial
	MonotonicityFull
)

// Config is the full set of inputs the core needs beyond the dataset
// view and hierarchies: privacy criteria, the chosen metric, the
// lattice's level bounds, the attacker model and its parameters, and
// the snapshot cache's sizing.
type Config struct {
	Criteria        []criteria.Binding
	AllowedOutliers float64
	Monotonicity    Monotonicity

	Metric    MetricKind
	GSFactor  float64
	Attacker  metric.AttackerModel
	PublisherBenefit float64
	AttackerCost     float64

	MinLevels []int
	MaxLevels []int

	HistorySize          int
	SnapshotSizeDataset  float64
	SnapshotSizeSnapshot float64

	// SuppressionMarker replaces a suppressed cell's value in the
	// output rows; default is "*".
	SuppressionMarker string

	sink ProgressSink
}

// MetricKind selects the utility metric the checker computes loss
// with.
type MetricKind int

const (
	MetricEntropy MetricKind = iota
	MetricPayout
)

// Option configures a Config at construction.
type Option func(*Config)

// WithHistorySize overrides the default snapshot-cache size (200).
func WithHistorySize(n int) Option {
	return func(c *Config) { c.HistorySize = n }
}

// WithSnapshotThresholds overrides the default admission ratios (0.2,
// 0.8).
func WithSnapshotThresholds(dataset, snap float64) Option {
	return func(c *Config) {
		c.SnapshotSizeDataset = dataset
		c.SnapshotSizeSnapshot = snap
	}
}

// WithSuppressionMarker overrides the default "*" suppression marker.
func WithSuppressionMarker(marker string) Option {
	return func(c *Config) { c.SuppressionMarker = marker }
}

// WithProgressSink installs a ProgressSink observed during the search.
func WithProgressSink(sink ProgressSink) Option {
	return func(c *Config) { c.sink = sink }
}

// NewConfig validates and builds a Config. It returns a
// *ConfigurationError wrapping the first violated invariant: more than
// 15 QI attributes (checked against minLevels' length, since the
// lattice dimensionality is one QI per dimension), min exceeding max
// on any dimension, allowedOutliers outside [0,1), or no criteria
// configured.
func NewConfig(
	crits []criteria.Binding,
	minLevels, maxLevels []int,
	allowedOutliers float64,
	metricKind MetricKind,
	opts ...Option,
) (*Config, error) {
	if len(minLevels) > 15 {
		return nil, &ConfigurationError{Err: ErrTooManyQI}
	}
	if len(minLevels) != len(maxLevels) {
		return nil, &ConfigurationError{Err: ErrMinExceedsMax}
	}
	for d := range minLevels {
		if minLevels[d] > maxLevels[d] {
			return nil, &ConfigurationError{Err: ErrMinExceedsMax}
		}
	}
	if allowedOutliers < 0 || allowedOutliers >= 1 {
		return nil, &ConfigurationError{Err: ErrBadOutlierRate}
	}
	if len(crits) == 0 {
		return nil, &ConfigurationError{Err: ErrNoCriteria}
	}

	c := &Config{
		Criteria:        crits,
		AllowedOutliers: allowedOutliers,
		Metric:          metricKind,
		GSFactor:        0.5,
		MinLevels:       append([]int(nil), minLevels...),
		MaxLevels:       append([]int(nil), maxLevels...),

		HistorySize:          200,
		SnapshotSizeDataset:  0.2,
		SnapshotSizeSnapshot: 0.8,
		SuppressionMarker:    "*",
		sink:                 noopSink{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// snapshotPolicy returns the admission policy derived from the
// configured thresholds.
func (c *Config) snapshotPolicy() snapshot.Policy {
	return snapshot.Policy{DatasetRatio: c.SnapshotSizeDataset, SnapshotRatio: c.SnapshotSizeSnapshot}
}
