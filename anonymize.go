package anoncore

import (
	"time"

	"github.com/arxgo/anonycore/checker"
	"github.com/arxgo/anonycore/criteria"
	"github.com/arxgo/anonycore/dataset"
	"github.com/arxgo/anonycore/flash"
	"github.com/arxgo/anonycore/hierarchy"
	"github.com/arxgo/anonycore/lattice"
	"github.com/arxgo/anonycore/metric"
	"github.com/arxgo/anonycore/snapshot"
)

// Anonymize runs the full pipeline: validate view against cfg, build the
// lattice and snapshot cache, wire the checker and metric, and run the
// FLASH search to completion.
//
// Failure is limited to ConfigurationError-class invariant violations
//; a fatal error aborts before any lattice node is touched,
// and no partial Result is ever returned.
func Anonymize(view dataset.View, hierarchies []*hierarchy.Hierarchy, cfg *Config) (Result, error) {
	start := elapsedClockNow()

	if err := dataset.Validate(view); err != nil {
		return Result{}, &ConfigurationError{Err: err}
	}
	if len(hierarchies) != len(view.QIIndices()) {
		return Result{}, &ConfigurationError{Err: ErrHierarchyDimensionMismatch}
	}
	for _, b := range cfg.Criteria {
		if k, ok := b.Criterion.(criteria.KAnonymity); ok && k.K > view.Rows() {
			return Result{}, &ConfigurationError{Err: ErrKExceedsRowCount}
		}
	}

	l, err := lattice.New(cfg.MinLevels, cfg.MaxLevels)
	if err != nil {
		return Result{}, &ConfigurationError{Err: err}
	}
	if cfg.Monotonicity == MonotonicityFull {
		l.SetAggregateMonotonic()
	}

	var cache *snapshot.Cache
	if cfg.HistorySize > 0 {
		cache, err = snapshot.NewCache(l, cfg.HistorySize, cfg.snapshotPolicy())
		if err != nil {
			return Result{}, &ConfigurationError{Err: err}
		}
	}

	checkerOpts := []checker.Option{}
	if cache != nil {
		checkerOpts = append(checkerOpts, checker.WithSnapshotCache(cache))
	}
	switch cfg.Metric {
	case MetricPayout:
		gFactor, sFactor := metric.GSFactors(cfg.GSFactor)
		checkerOpts = append(checkerOpts, checker.WithPayoutMetric(metric.PayoutConfig{
			Model:          cfg.Attacker,
			MaxPayout:      cfg.PublisherBenefit,
			AttackerPayout: cfg.AttackerCost,
			GFactor:        gFactor,
			SFactor:        sFactor,
		}))
	default:
		checkerOpts = append(checkerOpts, checker.WithEntropyMetric())
	}

	ch, err := checker.New(view, hierarchies, l, cfg.Criteria, cfg.AllowedOutliers, checkerOpts...)
	if err != nil {
		return Result{}, &ConfigurationError{Err: err}
	}

	eng := flash.New(l, ch, hierarchies, flash.WithProgressSink(cfg.sink))
	sol, err := eng.Run()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Found:        sol.Found,
		Node:         sol.Node,
		Levels:       sol.Levels,
		Loss:         sol.Loss,
		Elapsed:      elapsedClockNow().Sub(start),
		NodesChecked: sol.NodesChecked,
	}, nil
}

// elapsedClockNow isolates the one wall-clock read Anonymize performs,
// so Result.Elapsed reflects real search time without scattering
// time.Now() calls through the pipeline.
func elapsedClockNow() time.Time { return time.Now() }
