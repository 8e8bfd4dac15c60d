// Package dataset defines the read-only view the core consumes over a
// dictionary-encoded micro-dataset: row/column access, attribute roles,
// and the QI/sensitive index lists the lattice and criteria packages
// iterate over.
//
// dataset never parses, decodes, or owns the underlying table — callers
// supply an already dictionary-encoded matrix (or any type satisfying
// View) and dataset only indexes into it.
package dataset

import (
	"errors"
	"fmt"
)

// Attribute classifies a column's role in the anonymization process.
// Only QI columns participate in the generalization lattice; Sensitive
// columns feed the ℓ-diversity/t-closeness distribution tables;
// Insensitive columns are carried through untouched; Identifier columns
// are never read by the lattice at all (they exist purely so a caller
// can assert, at construction time, that no identifier leaks into the
// QI index list).
type Attribute int

const (
	// QI marks a quasi-identifying column; participates in the lattice.
	QI Attribute = iota
	// Sensitive marks a column whose value distribution is protected by
	// ℓ-diversity/t-closeness criteria.
	Sensitive
	// Insensitive marks a column with no privacy role.
	Insensitive
	// Identifier marks a column that must never appear as a QI or be
	// read by the lattice (e.g. a direct identifier already suppressed
	// upstream).
	Identifier
)

// String renders the Attribute for error messages and diagnostics.
func (a Attribute) String() string {
	switch a {
	case QI:
		return "QI"
	case Sensitive:
		return "Sensitive"
	case Insensitive:
		return "Insensitive"
	case Identifier:
		return "Identifier"
	default:
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
}

// Sentinel errors for dataset construction.
var (
	// ErrIdentifierAsQI indicates a column marked Identifier was also
	// listed as a QI index — a configuration fault, not a runtime error.
	ErrIdentifierAsQI = errors.New("dataset: identifier column listed as QI")

	// ErrIndexOutOfRange indicates a QI or sensitive index falls outside
	// [0, Cols()).
	ErrIndexOutOfRange = errors.New("dataset: column index out of range")

	// ErrTooManyQI indicates more than 15 QI attributes were supplied;
	// the 64-bit mixed-radix node encoding (lattice package) requires
	// D ≤ 15 by design.
	ErrTooManyQI = errors.New("dataset: more than 15 QI attributes")
)

// MaxQIAttributes bounds the lattice dimensionality the 64-bit node
// encoding can address (see package lattice).
const MaxQIAttributes = 15

// View is the read-only contract the core consumes from an external,
// already dictionary-encoded data source.
//
// Implementations MUST be safe for concurrent read access: the checker
// and groupifier may read View concurrently with Parallel groupification
// enabled (see groupify.WithParallel).
type View interface {
	// Rows returns the number of rows (records) in the dataset.
	Rows() int

	// Cols returns the number of columns (attributes) in the dataset.
	Cols() int

	// Value returns the dictionary code stored at (row, col).
	Value(row, col int) int32

	// QIIndices returns the column indices participating in the
	// generalization lattice, in attribute dimension order (dimension d
	// of the lattice corresponds to QIIndices()[d]).
	QIIndices() []int

	// SensitiveIndices returns the column indices whose value
	// distributions feed ℓ-diversity/t-closeness criteria.
	SensitiveIndices() []int
}

// Validate checks the structural invariants a View must satisfy before
// any lattice is built: index ranges and the QI ≤ 15 bound. It returns
// a *ConfigurationError-compatible sentinel-wrapped error; callers that
// build a lattice from an unvalidated View risk silent out-of-range
// node encodings.
func Validate(v View) error {
	cols := v.Cols()
	qi := v.QIIndices()
	if len(qi) > MaxQIAttributes {
		return fmt.Errorf("%w: got %d", ErrTooManyQI, len(qi))
	}
	for _, idx := range qi {
		if idx < 0 || idx >= cols {
			return fmt.Errorf("%w: QI index %d, cols=%d", ErrIndexOutOfRange, idx, cols)
		}
	}
	for _, idx := range v.SensitiveIndices() {
		if idx < 0 || idx >= cols {
			return fmt.Errorf("%w: sensitive index %d, cols=%d", ErrIndexOutOfRange, idx, cols)
		}
	}
	return nil
}
