// Package bitvector implements fixed-width two's-complement machine words
// in two flavors: Concrete, a single wrapping uint64 value, and Abstract,
// a three-valued (zeros, ones) mask pair that soundly over-approximates a set of
// concrete values with some bits left unknown.
//
// Width is carried as a runtime field (W, 1..=64) rather than a type
// parameter: the values manipulated by the model checker span widths that
// are only known once a machine description is loaded, so a const-generic
// encoding (as used by the reference implementation this package is
// modeled on) does not fit Go's generics. Every constructor validates W
// and panics on operand-width mismatch, mirroring how lvlath's matrix
// package panics on dimension mismatch rather than silently truncating.
package bitvector
