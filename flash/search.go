package flash

import (
	"container/heap"

	"github.com/arxgo/anonycore/checker"
	"github.com/arxgo/anonycore/lattice"
	"github.com/arxgo/anonycore/metric"
)

// Run executes the full FLASH search: phase (a) walks a single
// deterministic chain from bottom to top, checking it in order up to the
// first anonymous node (the anonymous/not-anonymous frontier on that
// chain) to seed a first incumbent; phase
// (b) then best-first-expands the whole lattice from bottom, pruning
// via the properties phase (a) already recorded, to find the
// minimum-loss anonymous node.
func (e *Engine) Run() (Solution, error) {
	best := Solution{}

	if err := e.findFrontier(&best); err != nil {
		return Solution{}, err
	}
	if err := e.refine(&best); err != nil {
		return Solution{}, err
	}

	best.NodesChecked = e.checked
	return best, nil
}

// findFrontier walks the chain bottom -> top obtained by always
// stepping to the successor with the lowest heuristic score (a single
// maximal chain in the product order), checking nodes along it and
// stopping at the first anonymous node. This seeds
// best with an initial incumbent so phase (b)'s bound pruning has
// something to prune against immediately.
func (e *Engine) findFrontier(best *Solution) error {
	chain := e.deterministicChain()
	for _, id := range chain {
		if e.l.HasProperty(id, lattice.NotAnonymous) {
			continue
		}
		res, err := e.check(id)
		if err != nil {
			return err
		}
		if res.Anonymous {
			e.considerIncumbent(best, id, res.Loss.Real)
			return nil
		}
	}
	return nil
}

// deterministicChain returns the sequence of nodes from Bottom to Top
// obtained by repeatedly taking the successor with the smallest
// heuristic value (ties broken by NodeID, for determinism).
func (e *Engine) deterministicChain() []lattice.NodeID {
	chain := []lattice.NodeID{e.l.Bottom()}
	cur := e.l.Bottom()
	top := e.l.Top()
	for cur != top {
		succs := e.l.Successors(cur)
		if len(succs) == 0 {
			break
		}
		next := succs[0]
		nextScore := e.heuristic(next)
		for _, s := range succs[1:] {
			score := e.heuristic(s)
			if score < nextScore || (score == nextScore && s < next) {
				next, nextScore = s, score
			}
		}
		chain = append(chain, next)
		cur = next
	}
	return chain
}

// refine best-first-expands the lattice from Bottom, exploiting
// monotonic properties to prune whole cones:
//
//   - NOT_K_ANONYMOUS (DOWN): skip the check, inherited from a
//     descendant; its successors are still expanded.
//   - INSUFFICIENT_UTILITY (UP): skip the whole cone above.
//   - a node whose bound >= best's loss is marked INSUFFICIENT_UTILITY
//     and skipped, since no descendant can improve on the incumbent.
func (e *Engine) refine(best *Solution) error {
	pq := make(priorityQueue, 0)
	heap.Init(&pq)
	heap.Push(&pq, &pqItem{id: e.l.Bottom(), score: e.heuristic(e.l.Bottom())})

	visited := make(map[lattice.NodeID]bool)

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*pqItem)
		id := item.id
		if visited[id] {
			continue
		}
		visited[id] = true

		if e.l.HasProperty(id, lattice.NotKAnonymous) {
			for _, s := range e.l.Successors(id) {
				if !visited[s] {
					heap.Push(&pq, &pqItem{id: s, score: e.heuristic(s)})
				}
			}
			continue
		}
		if e.l.HasProperty(id, lattice.InsufficientUtility) {
			continue
		}

		res, err := e.check(id)
		if err != nil {
			return err
		}

		if best.Found && float64(res.Loss.Bound) >= float64(best.Loss) {
			e.l.PutProperty(id, lattice.InsufficientUtility)
			continue
		}

		if res.Anonymous {
			e.considerIncumbent(best, id, res.Loss.Real)
		}

		for _, s := range e.l.Successors(id) {
			if visited[s] {
				continue
			}
			heap.Push(&pq, &pqItem{id: s, score: e.heuristic(s)})
		}
	}
	return nil
}

// check wraps e.checker.Check, threading through the progress sink and
// the checked-node counter. If id was already checked (recorded via
// CHECKED plus a cached loss cell), it reuses that verdict instead of
// re-groupifying — node checks are idempotent but not free.
func (e *Engine) check(id lattice.NodeID) (checker.Result, error) {
	if e.l.HasProperty(id, lattice.CHECKED) {
		if real, bound, ok := e.l.Loss(id); ok {
			return checker.Result{
				Anonymous: e.l.HasProperty(id, lattice.Anonymous),
				Loss:      metric.Loss{Real: metric.InformationLoss(real), Bound: metric.InformationLoss(bound)},
			}, nil
		}
	}

	levels := e.l.Decode(id)
	res, err := e.checker.Check(id, levels)
	if err != nil {
		return checker.Result{}, err
	}
	e.checked++
	e.sink.NodeChecked(id, res.Anonymous, res.Loss.Real)
	return res, nil
}

func (e *Engine) considerIncumbent(best *Solution, id lattice.NodeID, loss metric.InformationLoss) {
	if best.Found && float64(loss) >= float64(best.Loss) {
		return
	}
	best.Found = true
	best.Node = id
	best.Levels = e.l.Decode(id)
	best.Loss = loss
}
