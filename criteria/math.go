package criteria

import "math"

// recursiveDiverse implements recursive (c,ℓ)-diversity: ℓ <= 1 is
// satisfied vacuously; otherwise a class with fewer than ℓ distinct
// values is not diverse, and a class with at least ℓ is diverse if,
// sorting value frequencies descending as r_1 >= r_2 >= ... ,
// r_1 < c·(r_ℓ + r_{ℓ+1} + ... + r_m).
func recursiveDiverse(dist map[int32]int, l int, c float64) bool {
	if l <= 1 {
		return true
	}
	if len(dist) < l {
		return false
	}
	freqs := make([]int, 0, len(dist))
	for _, n := range dist {
		freqs = append(freqs, n)
	}
	sortDescending(freqs)

	tailSum := 0
	for i := l - 1; i < len(freqs); i++ {
		tailSum += freqs[i]
	}
	return float64(freqs[0]) < c*float64(tailSum)
}

func sortDescending(xs []int) {
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		j := i - 1
		for j >= 0 && xs[j] < v {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}

// entropyDiverse requires the Shannon entropy (natural log) of the
// class's sensitive-value distribution to be at least log(l).
func entropyDiverse(dist map[int32]int, l int) bool {
	if l <= 1 {
		return true
	}
	total := 0
	for _, n := range dist {
		total += n
	}
	if total == 0 {
		return false
	}
	var entropy float64
	for _, n := range dist {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		entropy -= p * math.Log(p)
	}
	return entropy >= math.Log(float64(l))
}

// toFractions converts a count distribution into a fraction-of-class
// distribution.
func toFractions(dist map[int32]int, count int) map[int32]float64 {
	out := make(map[int32]float64, len(dist))
	if count == 0 {
		return out
	}
	for code, n := range dist {
		out[code] = float64(n) / float64(count)
	}
	return out
}

// equalEMD computes the earth-mover's distance between two discrete
// distributions over an unordered alphabet, which reduces to half the
// L1 distance between the probability vectors.
func equalEMD(local, global map[int32]float64) float64 {
	seen := make(map[int32]bool, len(local)+len(global))
	var sum float64
	for code, p := range local {
		sum += math.Abs(p - global[code])
		seen[code] = true
	}
	for code, q := range global {
		if seen[code] {
			continue
		}
		sum += math.Abs(q)
	}
	return sum / 2
}

// hierarchicalEMD computes a ground-distance-weighted earth-mover's
// distance using the sensitive attribute's own generalization
// hierarchy as the cost of moving probability mass between two leaf
// codes. This is the single-iteration greedy transportation used by
// the ARX hierarchical t-closeness formulation: repeatedly match the
// largest remaining surplus to the nearest remaining deficit.
func hierarchicalEMD(local, global map[int32]float64, dist func(a, b int32) float64) float64 {
	surplus := make(map[int32]float64, len(local))
	deficit := make(map[int32]float64, len(global))
	codes := make(map[int32]bool, len(local)+len(global))
	for code, p := range local {
		surplus[code] = p
		codes[code] = true
	}
	for code, q := range global {
		deficit[code] += q
		codes[code] = true
	}
	for code := range codes {
		net := surplus[code] - deficit[code]
		if net > 0 {
			surplus[code] = net
			deficit[code] = 0
		} else {
			deficit[code] = -net
			surplus[code] = 0
		}
	}

	var work float64
	for {
		sCode, sAmt := pickMax(surplus)
		if sAmt <= 0 {
			break
		}
		dCode, dAmt := pickNearest(deficit, sCode, dist)
		if dAmt <= 0 {
			break
		}
		moved := math.Min(sAmt, dAmt)
		work += moved * dist(sCode, dCode)
		surplus[sCode] -= moved
		deficit[dCode] -= moved
	}
	return work
}

func pickMax(m map[int32]float64) (int32, float64) {
	var bestCode int32
	bestVal := -1.0
	first := true
	for code, v := range m {
		if first || v > bestVal || (v == bestVal && code < bestCode) {
			bestCode, bestVal, first = code, v, false
		}
	}
	return bestCode, bestVal
}

// pickNearest returns the code with positive remaining mass in m that
// is nearest to from by dist, breaking ties by code for determinism.
// Entries with non-positive remaining mass are skipped so an exhausted
// deficit never gets re-matched.
func pickNearest(m map[int32]float64, from int32, dist func(a, b int32) float64) (int32, float64) {
	var bestCode int32
	bestVal := 0.0
	bestDist := math.Inf(1)
	first := true
	for code, v := range m {
		if v <= 0 {
			continue
		}
		d := dist(from, code)
		if first || d < bestDist || (d == bestDist && code < bestCode) {
			bestCode, bestVal, bestDist, first = code, v, d, false
		}
	}
	return bestCode, bestVal
}
