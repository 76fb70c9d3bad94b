// Package panicres pairs a value of any type with the abstract panic code
// the operation that produced it may have raised, mirroring every
// division-capable operator's (and, at the machine level, every
// init/next's) two-part forward result.
package panicres

import "github.com/vlath-eng/symcheck/bitvector"

const (
	CodeNone           uint32 = 0
	CodeDivByZero      uint32 = 1
	CodeSignedOverflow uint32 = 2
)

// Result bundles an operation's value with its abstract panic code;
// PanicCode is always a 32-bit Abstract so it composes with the
// three-valued lattice like any other bitvector. T is bitvector.Abstract
// for a single-field division result, or machine.Valuation for a whole
// init/next step result.
type Result[T any] struct {
	Value     T
	PanicCode bitvector.Abstract
}

// None builds a Result with no possibility of panicking.
func None[T any](value T) Result[T] {
	return Result[T]{Value: value, PanicCode: bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(32, uint64(CodeNone)))}
}

// WithCode builds a Result whose panic code is exactly code.
func WithCode[T any](value T, code uint32) Result[T] {
	return Result[T]{Value: value, PanicCode: bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(32, uint64(code)))}
}

// MayPanic reports whether any concretization of r's panic code is
// nonzero.
func (r Result[T]) MayPanic() bool {
	concrete, ok := r.PanicCode.ConcreteValue()
	if ok {
		return concrete.AsUnsigned() != uint64(CodeNone)
	}
	return true
}

// AlwaysPanics reports whether every concretization of r's panic code is
// nonzero, i.e. the operation is certain to panic.
func (r Result[T]) AlwaysPanics() bool {
	return !r.PanicCode.Contains(bitvector.NewConcrete(32, uint64(CodeNone)))
}
