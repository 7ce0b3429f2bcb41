// Package ir holds the intermediate representation produced by the front
// end: a Program of Globals and Funcs, each Func an ordered list of basic
// blocks ending in exactly one Terminator.
//
// Builder is the only way code is emitted. It keeps an explicit cursor and
// drops instructions aimed at blocks that are already terminated or were
// found unreachable, so callers can translate statements after a `return`
// without special cases.
package ir
