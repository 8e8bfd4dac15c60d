package criteria

import (
	"math"

	"github.com/arxgo/anonycore/groupify"
)

// Verdict is the outcome of evaluating every configured criterion
// against a class list.
type Verdict struct {
	Anonymous     bool
	OutlierRows   int
	OutlierBudget int
}

// Evaluate tests every class in res against every criterion (each
// Binding's SensitiveIndex selects the Entry.Dist slice its criterion
// reads; criteria with no sensitive-attribute dependence, such as
// KAnonymity, ignore the index). A class failing
// any criterion is tentatively marked an outlier (IsNotOutlier stays
// false); if the total row count of such classes is within
// allowedOutliers·rowCount, the node is still ANONYMOUS and those
// classes are confirmed as outliers (suppressed). Otherwise the node
// is NOT_ANONYMOUS.
//
// allowedOutliers must be in [0,1); callers validate this once at
// configuration time, so Evaluate itself does not re-validate it.
func Evaluate(res *groupify.Result, crits []Binding, allowedOutliers float64) Verdict {
	budget := int(math.Floor(allowedOutliers * float64(res.TotalRows)))

	outlierRows := 0
	for e := res.Head; e != nil; e = e.Next {
		if e.Count == 0 {
			e.IsNotOutlier = true
			continue
		}
		if classSatisfiesAll(e, crits) {
			e.IsNotOutlier = true
			continue
		}
		e.IsNotOutlier = false
		outlierRows += e.Count
	}

	v := Verdict{OutlierRows: outlierRows, OutlierBudget: budget}
	v.Anonymous = outlierRows <= budget
	return v
}

func classSatisfiesAll(e *groupify.Entry, crits []Binding) bool {
	for _, b := range crits {
		if !b.Criterion.IsAnonymous(e, b.SensitiveIndex) {
			return false
		}
	}
	return true
}

// Binding pairs a Criterion with the sensitive-attribute
// index (into Entry.Dist) it should be evaluated against; criteria
// with no such dependence (KAnonymity) pass SensitiveIndex = 0 and
// ignore it.
type Binding struct {
	Criterion      Criterion
	SensitiveIndex int
}

// Bind pairs a Criterion with the sensitive-attribute index it reads.
func Bind(c Criterion, sensitiveIndex int) Binding {
	return Binding{Criterion: c, SensitiveIndex: sensitiveIndex}
}
