package groupify

import (
	"sync"

	"github.com/arxgo/anonycore/dataset"
)

// GroupifyParallel computes the same result as Groupify but shards rows
// into g.parallel contiguous, row-order-preserving chunks processed by
// independent goroutines, each with its own local open-addressed table.
// Chunks are then merged strictly in chunk order into the global result.
//
// Because each chunk owns a contiguous, increasing range of row indices
// and chunks are merged in that same order, a class's first-seen chunk
// is always the chunk containing the smallest row index at which it
// appears globally — so the merged Head/Next order is identical to the
// sequential Groupify's order: the parallel and sequential paths yield
// identical final class lists.
//
// If g.parallel <= 1, GroupifyParallel delegates to Groupify.
func (g *Groupifier) GroupifyParallel(levels []int) (*Result, error) {
	if g.parallel <= 1 {
		return g.Groupify(levels)
	}
	if len(levels) != len(g.qi) {
		return nil, ErrLevelCountMismatch
	}

	rows := g.view.Rows()
	n := g.parallel
	if n > rows {
		n = rows
	}
	if n <= 1 {
		return g.Groupify(levels)
	}

	chunkSize := (rows + n - 1) / n
	chunkResults := make([]*Result, n)
	chunkGroupifiers := make([]*Groupifier, n)

	var wg sync.WaitGroup
	for c := 0; c < n; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			continue
		}

		local := &Groupifier{
			view:        &rowRangeView{View: g.view, start: start, end: end},
			hierarchies: g.hierarchies,
			qi:          g.qi,
			sensitive:   g.sensitive,
		}
		size := nextPow2(2 * (end - start))
		if size < 16 {
			size = 16
		}
		local.table = make([]slot, size)
		local.mask = uint32(size - 1)
		chunkGroupifiers[c] = local

		wg.Add(1)
		go func(idx int, local *Groupifier) {
			defer wg.Done()
			res, err := local.Groupify(levels)
			if err == nil {
				chunkResults[idx] = res
			}
		}(c, local)
	}
	wg.Wait()

	return g.mergeChunks(chunkResults), nil
}

// mergeChunks merges per-chunk Results, in chunk order, into a single
// ordered class list using the receiver's own hash table.
func (g *Groupifier) mergeChunks(chunks []*Result) *Result {
	g.resetTable()

	var head, tail *Entry
	numClasses := 0
	totalRows := 0
	var kb keyBuf

	for _, res := range chunks {
		if res == nil {
			continue
		}
		totalRows += res.TotalRows
		for ce := res.Head; ce != nil; ce = ce.Next {
			e, created := g.insert(&kb, ce.Key)
			if created {
				numClasses++
				if head == nil {
					head = e
				} else {
					tail.Next = e
				}
				tail = e
				e.Dist = make([]map[int32]int, len(g.sensitive))
			}
			e.Count += ce.Count
			for si := range g.sensitive {
				if ce.Dist[si] == nil {
					continue
				}
				if e.Dist[si] == nil {
					e.Dist[si] = make(map[int32]int, len(ce.Dist[si]))
				}
				for code, cnt := range ce.Dist[si] {
					e.Dist[si][code] += cnt
				}
			}
		}
	}

	return &Result{Head: head, NumClasses: numClasses, TotalRows: totalRows}
}

// rowRangeView adapts a dataset.View to a contiguous row sub-range
// [start,end), letting each parallel shard reuse Groupify unmodified.
type rowRangeView struct {
	dataset.View
	start, end int
}

func (v *rowRangeView) Rows() int { return v.end - v.start }

func (v *rowRangeView) Value(row, col int) int32 {
	return v.View.Value(row+v.start, col)
}
