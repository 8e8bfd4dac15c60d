// Package hierarchy implements generalization hierarchies for
// quasi-identifying attributes: the per-attribute matrix H_d[v][ℓ]
// mapping a leaf dictionary code and a generalization level to a
// generalized dictionary code, plus the derived per-level domain size
// and per-(value,level) share used by the metric package.
//
// A Hierarchy is immutable after construction and validated once, eagerly, so that a malformed hierarchy
// surfaces as a ConfigurationError before any lattice node is touched.
package hierarchy

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by New. All are ConfigurationError-class:
// fatal, surfaced once, never retried.
var (
	// ErrEmptyHierarchy indicates zero leaf values were supplied.
	ErrEmptyHierarchy = errors.New("hierarchy: no leaf values")

	// ErrZeroHeight indicates height_d < 1.
	ErrZeroHeight = errors.New("hierarchy: height must be >= 1")

	// ErrNotRectangular indicates rows of differing length.
	ErrNotRectangular = errors.New("hierarchy: rows are not rectangular")

	// ErrIdentityViolated indicates column 0 is not the identity mapping
	// (H_d[v][0] != v for some v).
	ErrIdentityViolated = errors.New("hierarchy: column 0 is not the identity")

	// ErrNotMonotonic indicates some row refines (un-generalizes) as the
	// level increases, violating the "never refines" invariant.
	ErrNotMonotonic = errors.New("hierarchy: generalization is not monotonic")
)

// Hierarchy is a rectangular (leaf × level) matrix of generalized
// dictionary codes for a single QI attribute, together with its derived
// per-level domain sizes and per-cell share values.
//
// codes[v][l] == H_d[v][l]. height == len(codes[0]).
// domainSize[l] is the number of distinct codes appearing in column l.
// share[v][l] is the fraction of level-0 leaves that collapse into the
// same generalized value as codes[v][l], i.e. |preimage(codes[v][l])| /
// len(codes).
type Hierarchy struct {
	codes      [][]int32
	height     int
	domainSize []int
	share      [][]float64

	// representative[l][code] is the leaf value of some row whose
	// column-l code equals code; used by GeneralizeFrom to re-generalize
	// an already-generalized code to a higher level without the
	// original leaf value (used by the snapshot package).
	representative []map[int32]int32
}

// New validates and constructs a Hierarchy from a rectangular leaf×level
// matrix of dictionary codes. New fails fast (returning a
// ConfigurationError-class sentinel) rather than deferring validation to
// first use.
func New(codes [][]int32) (*Hierarchy, error) {
	if len(codes) == 0 {
		return nil, ErrEmptyHierarchy
	}
	height := len(codes[0])
	if height < 1 {
		return nil, ErrZeroHeight
	}
	for v, row := range codes {
		if len(row) != height {
			return nil, fmt.Errorf("%w: leaf %d has %d levels, want %d", ErrNotRectangular, v, len(row), height)
		}
		if row[0] != int32(v) {
			return nil, fmt.Errorf("%w: leaf %d maps to %d at level 0", ErrIdentityViolated, v, row[0])
		}
	}

	if err := validateMonotonic(codes, height); err != nil {
		return nil, err
	}

	domainSize := computeDomainSizes(codes, height)
	share := computeShares(codes, height, domainSize, len(codes))
	representative := computeRepresentatives(codes, height)

	return &Hierarchy{
		codes:          codes,
		height:         height,
		domainSize:     domainSize,
		share:          share,
		representative: representative,
	}, nil
}

func computeRepresentatives(codes [][]int32, height int) []map[int32]int32 {
	representative := make([]map[int32]int32, height)
	for l := 0; l < height; l++ {
		representative[l] = make(map[int32]int32, len(codes))
		for v, row := range codes {
			if _, ok := representative[l][row[l]]; !ok {
				representative[l][row[l]] = int32(v)
			}
		}
	}
	return representative
}

// validateMonotonic enforces that, for every leaf, the generalized code
// sequence across levels never "refines": once two leaves are merged at
// some level, they remain merged at every higher level. Detecting this
// directly would require global preimage comparisons; it is equivalent,
// and cheaper, to check that the codes-to-domain mapping at level l+1 is
// a function of the code at level l (same input code at level l always
// yields the same code at level l+1).
func validateMonotonic(codes [][]int32, height int) error {
	for l := 0; l+1 < height; l++ {
		seen := make(map[int32]int32, len(codes))
		for _, row := range codes {
			cur, next := row[l], row[l+1]
			if prevNext, ok := seen[cur]; ok {
				if prevNext != next {
					return fmt.Errorf("%w: level %d->%d splits code %d into %d and %d",
						ErrNotMonotonic, l, l+1, cur, prevNext, next)
				}
				continue
			}
			seen[cur] = next
		}
	}
	return nil
}

func computeDomainSizes(codes [][]int32, height int) []int {
	domainSize := make([]int, height)
	for l := 0; l < height; l++ {
		distinct := make(map[int32]struct{}, len(codes))
		for _, row := range codes {
			distinct[row[l]] = struct{}{}
		}
		domainSize[l] = len(distinct)
	}
	return domainSize
}

func computeShares(codes [][]int32, height int, domainSize []int, numLeaves int) [][]float64 {
	share := make([][]float64, len(codes))
	for l := 0; l < height; l++ {
		preimageCount := make(map[int32]int, domainSize[l])
		for _, row := range codes {
			preimageCount[row[l]]++
		}
		for v, row := range codes {
			if share[v] == nil {
				share[v] = make([]float64, height)
			}
			share[v][l] = float64(preimageCount[row[l]]) / float64(numLeaves)
		}
	}
	return share
}

// Height returns height_d, the number of generalization levels (columns).
func (h *Hierarchy) Height() int { return h.height }

// NumLeaves returns the number of level-0 dictionary codes this
// hierarchy covers.
func (h *Hierarchy) NumLeaves() int { return len(h.codes) }

// Generalize returns H_d[value][level], the dictionary code a leaf value
// maps to at the given generalization level. Panics if value or level is
// out of range — callers are expected to validate level bounds once via
// Height, not per cell.
func (h *Hierarchy) Generalize(value int32, level int) int32 {
	return h.codes[value][level]
}

// DomainSize returns the number of distinct generalized codes at level.
func (h *Hierarchy) DomainSize(level int) int { return h.domainSize[level] }

// Share returns share_d(value, level) ∈ (0,1], the fraction of level-0
// leaves that collapse into the same generalized value as value does at
// level. value must be a level-0 leaf index, not an already-generalized
// code — use ShareOfCode for a code produced by Generalize at level.
func (h *Hierarchy) Share(value int32, level int) float64 { return h.share[value][level] }

// ShareOfCode returns share_d(code, level) for a dictionary code already
// generalized to level (e.g. groupify.Entry.Key[d], produced by
// Generalize(raw, level)), as opposed to a level-0 leaf index. It
// resolves code back to a representative leaf via the same
// representative[level][code] table GeneralizeFrom uses, then looks up
// that leaf's share at level.
func (h *Hierarchy) ShareOfCode(code int32, level int) float64 {
	leaf := h.representative[level][code]
	return h.share[leaf][level]
}

// GeneralizeFrom re-generalizes a code already at fromLevel to toLevel
// (toLevel >= fromLevel) without needing the original leaf value: it
// looks up a representative leaf for (fromLevel, code) and generalizes
// that leaf to toLevel. Monotonicity (validated at New) guarantees every
// leaf mapping to code at fromLevel generalizes identically at toLevel,
// so the choice of representative is immaterial.
//
// Used by the snapshot package to re-apply a per-dimension
// generalization delta to a cached class key.
func (h *Hierarchy) GeneralizeFrom(code int32, fromLevel, toLevel int) int32 {
	if fromLevel == toLevel {
		return code
	}
	leaf := h.representative[fromLevel][code]
	return h.codes[leaf][toLevel]
}
