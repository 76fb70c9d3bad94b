package refin

import "github.com/vlath-eng/symcheck/bitvector"

// Mark is a refinement annotation parallel to a bitvector.Abstract: an
// unmarked value (Importance == 0) means "this bit-set does not matter
// right now"; a marked value's Bits must be a subset of the corresponding
// abstract value's unknown bits, and Importance (1..=255) orders competing
// refinement candidates, higher winning ties broken by earliest predecessor
// (decided by the caller, see package refine).
type Mark struct {
	W          uint8
	Bits       uint64
	Importance uint8
}

// Unmarked returns the empty (zero-importance) mark of width w.
func Unmarked(w uint8) Mark { return Mark{W: w} }

// NewMark builds a marked value. importance must be nonzero and is
// validated (NewMark panics otherwise); bits is not validated, and a mark
// built with zero bits reports IsSet false.
func NewMark(w uint8, bits uint64, importance uint8) Mark {
	if importance == 0 {
		panic("refin: marked value must have nonzero importance")
	}
	return Mark{W: w, Bits: bits, Importance: importance}
}

// IsSet reports whether this mark actually demands anything.
func (m Mark) IsSet() bool { return m.Importance != 0 && m.Bits != 0 }

// ClampToUnknown restricts a mark's bits to abstract's unknown-bit set, as
// required by the mark-subset-of-unknown invariant; if nothing survives,
// the mark collapses to unmarked.
func (m Mark) ClampToUnknown(abstract bitvector.Abstract) Mark {
	if !m.IsSet() {
		return m
	}
	bits := m.Bits & abstract.UnknownMask()
	if bits == 0 {
		return Unmarked(m.W)
	}
	return Mark{W: m.W, Bits: bits, Importance: m.Importance}
}

// Union combines two marks of the same width: their bit sets are OR'd and
// the importance is the maximum of the two (a bit that is marked by either
// source still matters, at the higher of the two priorities).
func Union(a, b Mark) Mark {
	if !a.IsSet() {
		return b
	}
	if !b.IsSet() {
		return a
	}
	imp := a.Importance
	if b.Importance > imp {
		imp = b.Importance
	}
	return Mark{W: a.W, Bits: a.Bits | b.Bits, Importance: imp}
}

// FullMask returns a mark covering the abstract value's complete unknown
// set at the given importance -- the default ("everything matters")
// backward policy.
func FullMask(abstract bitvector.Abstract, importance uint8) Mark {
	unknown := abstract.UnknownMask()
	if unknown == 0 || importance == 0 {
		return Unmarked(abstract.W)
	}
	return Mark{W: abstract.W, Bits: unknown, Importance: importance}
}
