// Package anoncore searches a multi-dimensional generalization lattice
// for a transformation of a micro-dataset's quasi-identifying columns
// that satisfies the configured privacy criteria while minimizing
// information loss under the configured utility metric.
//
// 🔒 What is anoncore?
//
//	A deterministic, single-threaded search core that brings together:
//
//	  • A generalization lattice with predictive-property propagation
//	  • A snapshot/history cache that reconstructs descendant classes
//	    without rescanning the base data
//	  • k-anonymity, ℓ-diversity and t-closeness as pluggable criteria
//	  • Entropy and Stackelberg-payout utility metrics
//	  • A two-phase FLASH search over the lattice
//
// ✨ Why anoncore?
//
//   - Deterministic  — fixed-seed hashing and insertion-order reductions
//     make every run reproducible
//   - Incremental    — the snapshot cache turns descendant lookups into
//     small deltas instead of full rescans
//   - Pluggable      — criteria and metrics are small interfaces, not a
//     fixed pipeline
//
// Under the hood, everything is organized under dedicated subpackages:
//
//	dataset/   — the read-only view the core consumes, no I/O of its own
//	hierarchy/ — per-attribute generalization matrices
//	lattice/   — the NodeID space and its predictive properties
//	groupify/  — equivalence-class partitioning
//	snapshot/  — the history cache and its re-generalization
//	criteria/  — k-anonymity, ℓ-diversity, t-closeness
//	metric/    — entropy loss and Stackelberg publisher payout
//	checker/   — per-node evaluation, wiring groupify/criteria/metric
//	flash/     — the lattice search itself
//
// The package owns three tightly coupled subsystems: the lattice with
// its predictive-property propagation, the node checker with its
// snapshot/history cache, and the utility metrics that feed the FLASH
// search. Input parsing, dictionary encoding, output rendering, and
// CLI/API wrapping are deliberately out of scope — this package
// consumes a dataset.View, a set of hierarchy.Hierarchy values, and a
// Config, and returns a Result.
package anoncore
