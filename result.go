package anoncore

import (
	"strconv"
	"time"

	"github.com/arxgo/anonycore/lattice"
	"github.com/arxgo/anonycore/metric"
)

// Result is the output of Anonymize: the chosen
// transformation (or "no solution"), its information loss, wall-clock
// elapsed, and the count of nodes actually checked.
type Result struct {
	Found        bool
	Node         lattice.NodeID
	Levels       []int
	Loss         metric.InformationLoss
	Elapsed      time.Duration
	NodesChecked int
}

// Transform renders rows 0..rowCount-1 in order: for each row it asks
// classOf for the row's generalized QI key and whether the row is
// suppressed (belongs to an outlier class), and renders each key code
// as a decimal string, or marker in every QI column of a suppressed
// row. It does not itself groupify or consult hierarchies; classOf
// supplies the keys.
func (r Result) Transform(rowCount int, classOf func(row int) (generalizedKey []int32, suppressed bool), marker string) [][]string {
	out := make([][]string, rowCount)
	for row := 0; row < rowCount; row++ {
		key, suppressed := classOf(row)
		rendered := make([]string, len(key))
		for i, code := range key {
			if suppressed {
				rendered[i] = marker
			} else {
				rendered[i] = strconv.Itoa(int(code))
			}
		}
		out[row] = rendered
	}
	return out
}
