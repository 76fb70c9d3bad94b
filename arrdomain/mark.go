package arrdomain

import (
	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/refin"
)

// Mark is the refinement-mark counterpart of Array: a sparse map from
// index to element mark, plus a mark on the default element standing in
// for every index without its own entry.
type Mark struct {
	Default refin.Mark
	Entries map[uint64]refin.Mark
}

// Unmarked returns the empty array mark of the given element width.
func Unmarked(elemWidth uint8) Mark {
	return Mark{Default: refin.Unmarked(elemWidth), Entries: map[uint64]refin.Mark{}}
}

// IsSet reports whether any element of the mark is set.
func (m Mark) IsSet() bool {
	if m.Default.IsSet() {
		return true
	}
	for _, e := range m.Entries {
		if e.IsSet() {
			return true
		}
	}
	return false
}

// Fold computes the mark's overall importance: the maximum importance of
// any entry, saturating at the index level by adding one (an index that
// needs refinement is itself one step more important than the element
// value it carries, since pinning the index is a prerequisite).
func (m Mark) Fold() uint8 {
	var best uint8
	consider := func(mk refin.Mark, indexed bool) {
		if !mk.IsSet() {
			return
		}
		imp := mk.Importance
		if indexed && imp < 255 {
			imp++
		}
		if imp > best {
			best = imp
		}
	}
	consider(m.Default, false)
	for _, e := range m.Entries {
		consider(e, true)
	}
	return best
}

// UnionMark combines two array marks of the same element width: each
// slot's mark is the refin.Union of the two sources' marks for that slot,
// matching how scalar marks accumulate (refin.Union) across contributing
// paths.
func UnionMark(a, b Mark) Mark {
	out := Mark{Default: refin.Union(a.Default, b.Default), Entries: make(map[uint64]refin.Mark, len(a.Entries)+len(b.Entries))}
	for k, mk := range a.Entries {
		out.Entries[k] = mk
	}
	for k, mk := range b.Entries {
		out.Entries[k] = refin.Union(out.Entries[k], mk)
	}
	return out
}

// BackwardRead is the default-policy backward operator for Read: the
// later mark on the read result is folded back onto whichever slot(s)
// could have produced it -- the matching override if idx is concrete, or
// every potentially-matching slot (including default) plus a full mark on
// idx itself otherwise.
func BackwardRead(a Array, idx bitvector.Abstract, later refin.Mark) (Mark, refin.Mark) {
	if !later.IsSet() {
		return Unmarked(a.ElemWidth), refin.Unmarked(idx.W)
	}
	if v, ok := idx.ConcreteValue(); ok {
		m := Unmarked(a.ElemWidth)
		m.Entries[v.AsUnsigned()] = later
		return m, refin.Unmarked(idx.W)
	}
	m := Unmarked(a.ElemWidth)
	m.Default = later
	for key := range a.Overrides {
		if idx.Contains(bitvector.NewConcrete(idx.W, key)) {
			m.Entries[key] = later
		}
	}
	return m, refin.FullMask(idx, later.Importance)
}

// readMarkAt is the mark that would land on a.Read(idx) given a later
// mark on the whole array -- i.e. the part of later that BackwardRead
// would have folded onto idx's slot, computed forward instead of
// backward. BackwardWrite uses it to recover the mark on the value just
// written.
func readMarkAt(later Mark, idx bitvector.Abstract) refin.Mark {
	if v, ok := idx.ConcreteValue(); ok {
		if e, has := later.Entries[v.AsUnsigned()]; has {
			return refin.Union(e, later.Default)
		}
		return later.Default
	}
	m := later.Default
	for key, e := range later.Entries {
		if idx.Contains(bitvector.NewConcrete(idx.W, key)) {
			m = refin.Union(m, e)
		}
	}
	return m
}

// BackwardWrite is the backward operator for Write: a later mark on the
// written-to array is split into a mark on the array as it stood before
// the write (every slot the write left untouched keeps its later mark;
// the written slot(s) no longer depend on their earlier value), a mark on
// the index, and a mark on the value that was written.
func BackwardWrite(a Array, idx, value bitvector.Abstract, later Mark) (earlierArray Mark, idxMark, valueMark refin.Mark) {
	valueMark = readMarkAt(later, idx)

	if v, ok := idx.ConcreteValue(); ok {
		earlier := Mark{Default: later.Default, Entries: make(map[uint64]refin.Mark, len(later.Entries))}
		for k, mk := range later.Entries {
			if k == v.AsUnsigned() {
				continue
			}
			earlier.Entries[k] = mk
		}
		return earlier, refin.Unmarked(idx.W), valueMark
	}

	// idx is abstract: the write may or may not have touched any given
	// slot, so every slot the later mark cares about must keep demanding
	// its earlier value too (sound over-approximation), and idx itself
	// needs a full mark since which slots it touched matters.
	return later, refin.FullMask(idx, valueMark.Importance), valueMark
}
