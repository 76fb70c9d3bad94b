// Package machine defines the interfaces and named-field value types the
// verification core consumes from a system description: a Valuation is a
// named bundle of bitvector fields (used for both the input tuple and the
// state record), and Abstract/Refin are the two facets a system under
// verification must implement (bundled with its input schema by Machine).
package machine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vlath-eng/symcheck/arrdomain"
	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/refin"
)

// PanicFieldName is the reserved field name under which a step's panic
// code is folded into the resulting state's Valuation, so an atomic
// property can refer to it exactly like any other named field.
const PanicFieldName = "__panic"

// Field is one named entry of a Valuation: either a scalar bitvector
// field or an array-domain field, discriminated by IsArray. Exactly one
// of Scalar and Array is meaningful for a given Field.
type Field struct {
	Scalar  bitvector.Abstract
	Array   arrdomain.Array
	IsArray bool
}

// ScalarField wraps a bitvector value as a scalar Field.
func ScalarField(v bitvector.Abstract) Field { return Field{Scalar: v} }

// ArrayField wraps an array-domain value as an array Field.
func ArrayField(v arrdomain.Array) Field { return Field{Array: v, IsArray: true} }

// key renders f's own content for use by Valuation.Key.
func (f Field) key() string {
	if f.IsArray {
		return "a:" + f.Array.Key()
	}
	return "s:" + strconv.FormatUint(f.Scalar.Zeros, 16) + ":" + strconv.FormatUint(f.Scalar.Ones, 16)
}

// Valuation is a named bundle of Fields: an abstract Input or an abstract
// State. It satisfies statespace.Keyed via Key, so structurally-equal
// valuations collapse onto one state-space vertex.
type Valuation map[string]Field

// Key renders a canonical, order-independent string identifying the
// exact content of every field -- two Valuations with the same Key
// denote the same abstract state.
func (v Valuation) Key() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(v[name].key())
		b.WriteByte(';')
	}
	return b.String()
}

// Clone returns a shallow copy; both Scalar and Array values are never
// mutated in place by their own packages (Array.Write always clones
// first), so a field-by-field map copy is a full copy.
func (v Valuation) Clone() Valuation {
	out := make(Valuation, len(v))
	for name, f := range v {
		out[name] = f
	}
	return out
}

// FieldMark is the refinement-mark counterpart of Field: either a scalar
// refin.Mark or an arrdomain.Mark, discriminated the same way as Field.
type FieldMark struct {
	Scalar  refin.Mark
	Array   arrdomain.Mark
	IsArray bool
}

// ScalarMark wraps a refin.Mark as a scalar FieldMark.
func ScalarMark(m refin.Mark) FieldMark { return FieldMark{Scalar: m} }

// ArrayMark wraps an arrdomain.Mark as an array FieldMark.
func ArrayMark(m arrdomain.Mark) FieldMark { return FieldMark{Array: m, IsArray: true} }

// IsSet reports whether this mark demands anything.
func (m FieldMark) IsSet() bool {
	if m.IsArray {
		return m.Array.IsSet()
	}
	return m.Scalar.IsSet()
}

func unionFieldMark(a, b FieldMark) FieldMark {
	if !a.IsSet() {
		return b
	}
	if !b.IsSet() {
		return a
	}
	if a.IsArray || b.IsArray {
		return ArrayMark(arrdomain.UnionMark(a.Array, b.Array))
	}
	return ScalarMark(refin.Union(a.Scalar, b.Scalar))
}

// MarkValuation is the refinement-mark counterpart of a Valuation: one
// FieldMark per named field.
type MarkValuation map[string]FieldMark

// IsSet reports whether any field carries a set mark.
func (m MarkValuation) IsSet() bool {
	for _, mk := range m {
		if mk.IsSet() {
			return true
		}
	}
	return false
}

// Union merges two mark valuations field-by-field.
func Union(a, b MarkValuation) MarkValuation {
	out := make(MarkValuation, len(a)+len(b))
	for name, mk := range a {
		out[name] = mk
	}
	for name, mk := range b {
		out[name] = unionFieldMark(out[name], mk)
	}
	return out
}
