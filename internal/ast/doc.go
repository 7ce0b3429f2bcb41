// Package ast defines the syntax tree produced by the parser.
//
// Nodes are plain pointer trees: a node has a Kind, a Span and a
// kind-specific Data payload. The tree is immutable after parsing; the
// semantic checker records its findings in side tables keyed by node
// pointers, never in the nodes themselves.
package ast
