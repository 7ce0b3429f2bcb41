// Package sema implements the semantic checker: one depth-first pass that
// resolves names, folds required constants, validates every well-formedness
// rule and records the side tables the IR generator reads.
package sema
