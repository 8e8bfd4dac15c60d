package flash

import "github.com/arxgo/anonycore/lattice"

// pqItem is one entry in the phase-(b) best-first frontier: a node
// pending a check, ordered by ascending heuristic score.
type pqItem struct {
	id    lattice.NodeID
	score float64
}

// priorityQueue is a container/heap min-heap over pqItem, ties broken
// by NodeID for deterministic traversal order, with no dependence on
// map iteration order.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].score != pq[j].score {
		return pq[i].score < pq[j].score
	}
	return pq[i].id < pq[j].id
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
