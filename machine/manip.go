package machine

import (
	"errors"
	"fmt"

	"github.com/vlath-eng/symcheck/bitvector"
)

// Sentinel errors for atomic-property field projection, named after the
// error taxonomy's kinds rather than any particular Go type.
var (
	ErrFieldNotFound            = errors.New("machine: field not found")
	ErrIndexInvalid             = errors.New("machine: index invalid for this field")
	ErrIndexRequired            = errors.New("machine: index required for this field")
	ErrSignednessNotEstablished = errors.New("machine: signed comparison on a field of ambiguous signedness")
)

// Signedness records whether a field's ordered comparisons must be
// interpreted as signed, unsigned, or are not yet established (requiring
// an explicit as_signed/as_unsigned annotation at the use site).
type Signedness int

const (
	SignednessUnspecified Signedness = iota
	SignednessUnsigned
	SignednessSigned
)

// Get projects a named field out of state, returning ErrFieldNotFound if
// absent. The reserved PanicFieldName is an ordinary entry here: whatever
// regenerates a state from a StepResult is responsible for folding
// StepResult.PanicCode into state[PanicFieldName] before interning it.
func Get(state Valuation, fieldName string) (Field, error) {
	f, ok := state[fieldName]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrFieldNotFound, fieldName)
	}
	return f, nil
}

// Set overwrites the named field of state in place, returning
// ErrFieldNotFound if the field was never present (Set never introduces a
// new field, matching a Machine's fixed input/state schema).
func Set(state Valuation, fieldName string, value Field) error {
	if _, ok := state[fieldName]; !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, fieldName)
	}
	state[fieldName] = value
	return nil
}

// GetScalar projects a named scalar field out of state, returning
// ErrIndexRequired if the field is array-valued (an array field has no
// meaning without an index to select one of its elements).
func GetScalar(state Valuation, fieldName string) (bitvector.Abstract, error) {
	f, err := Get(state, fieldName)
	if err != nil {
		return bitvector.Abstract{}, err
	}
	if f.IsArray {
		return bitvector.Abstract{}, fmt.Errorf("%w: %q", ErrIndexRequired, fieldName)
	}
	return f.Scalar, nil
}

// SetScalar overwrites a named scalar field of state in place.
func SetScalar(state Valuation, fieldName string, value bitvector.Abstract) error {
	return Set(state, fieldName, ScalarField(value))
}

// GetElement reads element index out of a named array field via
// arrdomain.Array.Read, returning ErrIndexInvalid if the field is scalar
// (indexing only makes sense against an array field).
func GetElement(state Valuation, fieldName string, index uint64) (bitvector.Abstract, error) {
	f, err := Get(state, fieldName)
	if err != nil {
		return bitvector.Abstract{}, err
	}
	if !f.IsArray {
		return bitvector.Abstract{}, fmt.Errorf("%w: %q", ErrIndexInvalid, fieldName)
	}
	idx := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(f.Array.IndexWidth, index))
	return f.Array.Read(idx), nil
}

// SetElement writes value into a named array field's index element via
// arrdomain.Array.Write, in place.
func SetElement(state Valuation, fieldName string, index uint64, value bitvector.Abstract) error {
	f, err := Get(state, fieldName)
	if err != nil {
		return err
	}
	if !f.IsArray {
		return fmt.Errorf("%w: %q", ErrIndexInvalid, fieldName)
	}
	idx := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(f.Array.IndexWidth, index))
	state[fieldName] = ArrayField(f.Array.Write(idx, value))
	return nil
}

// WithPanic returns a copy of state with PanicFieldName set to code,
// folding a step's panic result into the state record the way regenerate
// logic interns every vertex.
func WithPanic(state Valuation, code bitvector.Abstract) Valuation {
	out := state.Clone()
	out[PanicFieldName] = ScalarField(code)
	return out
}
