package refin

import "github.com/vlath-eng/symcheck/bitvector"

// Every backward operator below returns marks already clamped to each
// input's unknown-bit set, satisfying the mark-subset-of-unknown invariant
// unconditionally.

// BackwardNot is exact: every marked output bit traces straight back to
// the same input bit.
func BackwardNot(a bitvector.Abstract, later Mark) Mark {
	return later.ClampToUnknown(a)
}

// BackwardAnd is exact: output bit k depends on a_k only if b_k is not
// definitely 0 (a 0 on either side forces the AND regardless of the
// other), and symmetrically for b.
func BackwardAnd(a, b bitvector.Abstract, later Mark) (Mark, Mark) {
	if !later.IsSet() {
		return Unmarked(a.W), Unmarked(b.W)
	}
	bKnownZero := b.Zeros &^ b.UnknownMask()
	aKnownZero := a.Zeros &^ a.UnknownMask()
	aBits := later.Bits &^ bKnownZero
	bBits := later.Bits &^ aKnownZero
	return Mark{W: a.W, Bits: aBits, Importance: later.Importance}.ClampToUnknown(a),
		Mark{W: b.W, Bits: bBits, Importance: later.Importance}.ClampToUnknown(b)
}

// BackwardOr mirrors BackwardAnd: a 1 on either side forces the result
// regardless of the other, so a bit only matters on a side that is not
// definitely known-1.
func BackwardOr(a, b bitvector.Abstract, later Mark) (Mark, Mark) {
	if !later.IsSet() {
		return Unmarked(a.W), Unmarked(b.W)
	}
	bKnownOne := b.Ones &^ b.UnknownMask()
	aKnownOne := a.Ones &^ a.UnknownMask()
	aBits := later.Bits &^ bKnownOne
	bBits := later.Bits &^ aKnownOne
	return Mark{W: a.W, Bits: aBits, Importance: later.Importance}.ClampToUnknown(a),
		Mark{W: b.W, Bits: bBits, Importance: later.Importance}.ClampToUnknown(b)
}

// BackwardXor is exact: every output bit always depends on both inputs.
func BackwardXor(a, b bitvector.Abstract, later Mark) (Mark, Mark) {
	if !later.IsSet() {
		return Unmarked(a.W), Unmarked(b.W)
	}
	return Mark{W: a.W, Bits: later.Bits, Importance: later.Importance}.ClampToUnknown(a),
		Mark{W: b.W, Bits: later.Bits, Importance: later.Importance}.ClampToUnknown(b)
}

// BackwardEq and BackwardNe are exact: any unknown bit on either side that
// is not already forced equal/unequal could flip the comparison, so every
// unknown bit of both operands is marked when the (width-1) later mark is
// set.
func BackwardEq(a, b bitvector.Abstract, later Mark) (Mark, Mark) {
	return backwardComparisonPair(a, b, later)
}

func BackwardNe(a, b bitvector.Abstract, later Mark) (Mark, Mark) {
	return backwardComparisonPair(a, b, later)
}

func backwardComparisonPair(a, b bitvector.Abstract, later Mark) (Mark, Mark) {
	if !later.IsSet() {
		return Unmarked(a.W), Unmarked(b.W)
	}
	return FullMask(a, later.Importance), FullMask(b, later.Importance)
}

// Ordered comparisons (ult/ule/slt/sle) use the default policy: the whole
// unknown set of both operands is marked, since a tight exact backward
// would need to reason about the relative position of each bit in the
// extremal computation.
func BackwardUlt(a, b bitvector.Abstract, later Mark) (Mark, Mark) { return backwardComparisonPair(a, b, later) }
func BackwardUle(a, b bitvector.Abstract, later Mark) (Mark, Mark) { return backwardComparisonPair(a, b, later) }
func BackwardSlt(a, b bitvector.Abstract, later Mark) (Mark, Mark) { return backwardComparisonPair(a, b, later) }
func BackwardSle(a, b bitvector.Abstract, later Mark) (Mark, Mark) { return backwardComparisonPair(a, b, later) }

// BackwardUext/BackwardSext are exact: a marked bit in the low input-width
// bits traces straight back; for sext, any marked bit in the extended
// (sign-copy) region traces back to the sign bit.
func BackwardUext(inputW uint8, input bitvector.Abstract, later Mark) Mark {
	if !later.IsSet() {
		return Unmarked(inputW)
	}
	bits := later.Bits & maskLow(inputW)
	return Mark{W: inputW, Bits: bits, Importance: later.Importance}.ClampToUnknown(input)
}

func BackwardSext(inputW uint8, input bitvector.Abstract, later Mark) Mark {
	if !later.IsSet() {
		return Unmarked(inputW)
	}
	low := maskLow(inputW)
	bits := later.Bits & low
	if later.Bits&^low != 0 {
		// some marked bit lives in the sign-extended region; it traces
		// back to the sign bit of the input.
		bits |= uint64(1) << (inputW - 1)
	}
	return Mark{W: inputW, Bits: bits, Importance: later.Importance}.ClampToUnknown(input)
}

func maskLow(w uint8) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << w) - 1
}

// Shift backward operators mark only the bits of the value operand that
// fall within the shift window spanned by the amount's possible concrete
// values [umin, umax]; the amount operand itself uses the default policy.
func BackwardLogicShl(value, amount bitvector.Abstract, later Mark) (Mark, Mark) {
	return shiftBackward(value, amount, later, func(bits uint64, amt uint64, w uint8) uint64 {
		if amt >= uint64(w) {
			return 0
		}
		return bits >> amt
	})
}

func BackwardLogicShr(value, amount bitvector.Abstract, later Mark) (Mark, Mark) {
	return shiftBackward(value, amount, later, func(bits uint64, amt uint64, w uint8) uint64 {
		if amt >= uint64(w) {
			return 0
		}
		return (bits << amt) & maskLow(w)
	})
}

func BackwardArithShr(value, amount bitvector.Abstract, later Mark) (Mark, Mark) {
	return shiftBackward(value, amount, later, func(bits uint64, amt uint64, w uint8) uint64 {
		if amt >= uint64(w) {
			return 0
		}
		shifted := (bits << amt) & maskLow(w)
		// a marked high (filled) bit also implicates the sign bit.
		if bits != 0 && amt > 0 {
			highMask := maskLow(w) &^ (maskLow(w) >> amt)
			if bits&highMask != 0 {
				shifted |= uint64(1) << (w - 1)
			}
		}
		return shifted
	})
}

func shiftBackward(value, amount bitvector.Abstract, later Mark, project func(bits uint64, amt uint64, w uint8) uint64) (Mark, Mark) {
	if !later.IsSet() {
		return Unmarked(value.W), Unmarked(amount.W)
	}
	lo := amount.UMin().AsUnsigned()
	hi := amount.UMax().AsUnsigned()
	var bits uint64
	for amt := lo; amt <= hi; amt++ {
		bits |= project(later.Bits, amt, value.W)
	}
	valueMark := Mark{W: value.W, Bits: bits, Importance: later.Importance}.ClampToUnknown(value)
	amountMark := FullMask(amount, later.Importance)
	return valueMark, amountMark
}

// Default-policy backward operators for arithmetic ops where exactness is
// not required by the spec: the entire unknown set of every input is
// marked at the later mark's importance.
func BackwardAdd(a, b bitvector.Abstract, later Mark) (Mark, Mark) { return defaultBinary(a, b, later) }
func BackwardSub(a, b bitvector.Abstract, later Mark) (Mark, Mark) { return defaultBinary(a, b, later) }
func BackwardMul(a, b bitvector.Abstract, later Mark) (Mark, Mark) { return defaultBinary(a, b, later) }
func BackwardNeg(a bitvector.Abstract, later Mark) Mark {
	if !later.IsSet() {
		return Unmarked(a.W)
	}
	return FullMask(a, later.Importance)
}

// BackwardUDiv/BackwardSDiv/BackwardURem/BackwardSRem implement the
// default ("mark everything unknown") backward policy left open by the
// spec for division/remainder -- forward soundness does not require exact
// backward ops here, and the reference implementation itself leaves these
// as placeholders.
func BackwardUDiv(a, b bitvector.Abstract, laterValue Mark, laterPanic Mark) (Mark, Mark) {
	return defaultBinary(a, b, Union(laterValue, laterPanic))
}
func BackwardSDiv(a, b bitvector.Abstract, laterValue Mark, laterPanic Mark) (Mark, Mark) {
	return defaultBinary(a, b, Union(laterValue, laterPanic))
}
func BackwardURem(a, b bitvector.Abstract, laterValue Mark, laterPanic Mark) (Mark, Mark) {
	return defaultBinary(a, b, Union(laterValue, laterPanic))
}
func BackwardSRem(a, b bitvector.Abstract, laterValue Mark, laterPanic Mark) (Mark, Mark) {
	return defaultBinary(a, b, Union(laterValue, laterPanic))
}

func defaultBinary(a, b bitvector.Abstract, later Mark) (Mark, Mark) {
	if !later.IsSet() {
		return Unmarked(a.W), Unmarked(b.W)
	}
	return FullMask(a, later.Importance), FullMask(b, later.Importance)
}
