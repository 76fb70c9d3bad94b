// Package arrdomain implements the abstract array domain: a total
// function from an unsigned I-bit index to a three-valued L-bit element,
// represented sparsely as a default element plus overrides for indices
// that differ from it.
package arrdomain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vlath-eng/symcheck/bitvector"
)

// Array is the sparse representation of an abstract array value.
type Array struct {
	IndexWidth uint8
	ElemWidth  uint8
	Default    bitvector.Abstract
	Overrides  map[uint64]bitvector.Abstract
}

// New returns an array with every index mapped to the same default
// element.
func New(indexWidth, elemWidth uint8, def bitvector.Abstract) Array {
	return Array{IndexWidth: indexWidth, ElemWidth: elemWidth, Default: def, Overrides: map[uint64]bitvector.Abstract{}}
}

func (a Array) clone() Array {
	overrides := make(map[uint64]bitvector.Abstract, len(a.Overrides))
	for k, v := range a.Overrides {
		overrides[k] = v
	}
	return Array{IndexWidth: a.IndexWidth, ElemWidth: a.ElemWidth, Default: a.Default, Overrides: overrides}
}

// Read is the forward read operator: sound for any abstract index,
// exact when idx resolves to a single concrete value.
func (a Array) Read(idx bitvector.Abstract) bitvector.Abstract {
	if v, ok := idx.ConcreteValue(); ok {
		if e, has := a.Overrides[v.AsUnsigned()]; has {
			return e
		}
		return a.Default
	}
	// idx denotes more than one possible index: the result must be sound
	// for every one of them, including any index this array leaves at the
	// default (hence Default is always folded in here).
	result := a.Default
	for key, e := range a.Overrides {
		if idx.Contains(bitvector.NewConcrete(idx.W, key)) {
			result = bitvector.Join(result, e)
		}
	}
	return result
}

// Write is the forward write operator. A concrete index updates exactly
// that override; an abstract index must soundly account for every index
// it might denote, so it joins value into every potentially-written slot
// (including the default, which stands for every index without its own
// override) rather than overwriting any of them.
func (a Array) Write(idx, value bitvector.Abstract) Array {
	if v, ok := idx.ConcreteValue(); ok {
		out := a.clone()
		out.Overrides[v.AsUnsigned()] = value
		return out
	}
	out := a.clone()
	out.Default = bitvector.Join(a.Default, value)
	for key, e := range a.Overrides {
		if idx.Contains(bitvector.NewConcrete(idx.W, key)) {
			out.Overrides[key] = bitvector.Join(e, value)
		}
	}
	return out
}

// Key renders a canonical string identifying a's exact sparse content,
// for use by a containing machine.Valuation's own Key.
func (a Array) Key() string {
	keys := make([]uint64, 0, len(a.Overrides))
	for k := range a.Overrides {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var b strings.Builder
	b.WriteString(strconv.FormatUint(a.Default.Zeros, 16))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(a.Default.Ones, 16))
	for _, k := range keys {
		e := a.Overrides[k]
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(k, 16))
		b.WriteByte('=')
		b.WriteString(strconv.FormatUint(e.Zeros, 16))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(e.Ones, 16))
	}
	return b.String()
}

// Equal reports whether a and b denote the same sparse array value.
func (a Array) Equal(b Array) bool {
	if a.IndexWidth != b.IndexWidth || a.ElemWidth != b.ElemWidth || !a.Default.Equal(b.Default) {
		return false
	}
	if len(a.Overrides) != len(b.Overrides) {
		return false
	}
	for k, v := range a.Overrides {
		ov, ok := b.Overrides[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
