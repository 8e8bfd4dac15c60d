package flash

import "github.com/arxgo/anonycore/lattice"

// heuristic scores a node for branching priority: ascending values are
// preferred, biasing the search toward less generalization. It combines,
// per dimension, heightShare_d(ℓ_d) = ℓ_d / (height_d - 1) (the
// fraction of that attribute's generalization ladder already climbed;
// 0 at the identity level, 1 at full generalization) with a
// dimensional-priority term that weights taller hierarchies more
// heavily, since climbing one level of a tall hierarchy loses
// proportionally less information than one level of a short one.
func (e *Engine) heuristic(id lattice.NodeID) float64 {
	t := e.l.Decode(id)
	var sum float64
	for d, h := range e.hierarchies {
		height := h.Height()
		if height <= 1 {
			continue
		}
		share := float64(t[d]) / float64(height-1)
		priority := float64(height) // taller hierarchies carry more weight
		sum += share * priority
	}
	return sum
}
