// Package diag defines the diagnostic model shared by all compiler phases.
//
// A Diagnostic is a (severity, code, message, primary span) record with
// optional notes pointing at related places in the source. Phases never
// print anything: they emit through a Reporter, which the driver binds to a
// Bag. Rendering lives in internal/diagfmt.
//
// Codes are grouped by phase: LEX1xxx lexer, SYN2xxx parser, SEM3xxx the
// semantic checker, IO4xxx file system, IR5xxx generator self-checks and
// OBS6xxx observability. SEM3001..SEM3012 are the twelve core semantic
// error classes; SEM3013 and up are checks layered on top of them.
//
// A Bag preserves emission order and performs no deduplication, so the order
// of Items is exactly the order in which the checker walked the program.
package diag
