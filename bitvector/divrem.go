package bitvector

import "math/bits"

// PanicNone, PanicDivByZero and PanicSignedOverflow are the panic codes a
// division/remainder operator can report. 0 always means "no panic".
const (
	PanicNone            uint32 = 0
	PanicDivByZero       uint32 = 1
	PanicSignedOverflow  uint32 = 2
)

// DivRemResult bundles the abstract result of a division/remainder
// operator with its abstract 32-bit panic code -- the three-valued
// counterpart of the spec's PanicResult record, specialized to these four
// operators (see panicres.Result for the generic wrapper used by the
// machine-state layer).
type DivRemResult struct {
	Value Abstract
	Panic Abstract
}

// UDiv computes unsigned division, with a divide-by-zero panic.
func (a Abstract) UDiv(b Abstract) DivRemResult {
	requireSameWidth(a.W, b.W)
	zeroPossible := b.Contains(Zero(a.W))
	nonzeroPossible := !(b.UMin().AsUnsigned() == 0 && b.UMax().AsUnsigned() == 0)

	minResult := a.UMin().UDiv(b.UMax())
	maxResult := a.UMax().UDiv(b.UMin())
	value := convertUArith(a.W, minResult.AsUnsigned(), maxResult.AsUnsigned())

	return DivRemResult{Value: value, Panic: panicFromPossibility(zeroPossible, nonzeroPossible)}
}

// URem computes unsigned remainder, with a divide-by-zero panic.
func (a Abstract) URem(b Abstract) DivRemResult {
	requireSameWidth(a.W, b.W)
	zeroPossible := b.Contains(Zero(a.W))
	nonzeroPossible := !(b.UMin().AsUnsigned() == 0 && b.UMax().AsUnsigned() == 0)

	dividendMin, dividendMax := a.UMin(), a.UMax()
	divisorMin, divisorMax := b.UMin(), b.UMax()

	minDivRes := dividendMin.UDiv(divisorMax).AsUnsigned()
	maxDivRes := dividendMax.UDiv(divisorMin).AsUnsigned()

	var value Abstract
	if minDivRes != maxDivRes {
		value = NewUnknown(a.W)
	} else {
		minRes := dividendMin.URem(divisorMax).AsUnsigned()
		maxRes := dividendMax.URem(divisorMin).AsUnsigned()
		value = convertUArith(a.W, minRes, maxRes)
	}
	return DivRemResult{Value: value, Panic: panicFromPossibility(zeroPossible, nonzeroPossible)}
}

// SDiv computes signed division, with divide-by-zero and signed-overflow
// panics (INT_MIN / -1).
func (a Abstract) SDiv(b Abstract) DivRemResult {
	requireSameWidth(a.W, b.W)
	value := computeSignedDivRem(a, b, func(x, y Concrete) Concrete { return x.SDiv(y) })
	panicMask := computeDivRemPanicMask(a, b, false)
	return DivRemResult{Value: value, Panic: panicMask}
}

// SRem computes signed remainder. Per the reference semantics, if SDiv on
// the same operands is not a single concrete value the remainder is made
// fully unknown (remainder and quotient move together).
func (a Abstract) SRem(b Abstract) DivRemResult {
	requireSameWidth(a.W, b.W)
	sdiv := a.SDiv(b)
	if _, ok := sdiv.Value.ConcreteValue(); !ok {
		panicMask := computeDivRemPanicMask(a, b, true)
		return DivRemResult{Value: NewUnknown(a.W), Panic: panicMask}
	}
	value := computeSignedDivRem(a, b, func(x, y Concrete) Concrete { return x.SRem(y) })
	panicMask := computeDivRemPanicMask(a, b, true)
	return DivRemResult{Value: value, Panic: panicMask}
}

func convertUArith(w uint8, min, max uint64) Abstract {
	different := min ^ max
	if different == 0 {
		return NewAbstractFromConcrete(NewConcrete(w, min))
	}
	highestBit := uint8(63 - bits.LeadingZeros64(different))
	unknownMask := maskOf(highestBit + 1)
	return NewValueUnknown(w, min, unknownMask)
}

// panicFromPossibility reports the panic code abstraction given whether a
// zero divisor and a nonzero divisor are each still possible.
func panicFromPossibility(zeroPossible, nonzeroPossible bool) Abstract {
	switch {
	case zeroPossible && nonzeroPossible:
		return NewUnknown(32)
	case zeroPossible:
		return NewAbstractFromConcrete(NewConcrete(32, uint64(PanicDivByZero)))
	default:
		return NewAbstractFromConcrete(NewConcrete(32, uint64(PanicNone)))
	}
}

// computeSignedDivRem implements the case-split minmax algorithm: the
// divisor's signed range is split into {positive, zero, -1, negative<=-2}
// sub-ranges (each handled separately, since division behaves very
// differently across them), the dividend/divisor extremes of each
// non-empty sub-range are applied to opFn in all four corner combinations,
// and the result masks are accumulated across sub-ranges.
func computeSignedDivRem(dividend, divisor Abstract, opFn func(Concrete, Concrete) Concrete) Abstract {
	w := dividend.W
	var zeros, ones uint64

	divisorMin := divisor.SMin().AsSigned()
	divisorMax := divisor.SMax().AsSigned()

	applyRange := func(aMin, aMax, bMin, bMax Concrete) {
		x := opFn(aMin, bMin).AsUnsigned()
		y := opFn(aMin, bMax).AsUnsigned()
		z := opFn(aMax, bMin).AsUnsigned()
		wv := opFn(aMax, bMax).AsUnsigned()

		foundZeros := (^x | ^y | ^z | ^wv) & maskOf(w)
		foundOnes := x | y | z | wv
		different := foundZeros & foundOnes

		zeros |= foundZeros
		ones |= foundOnes

		if different == 0 {
			return
		}
		highestBit := uint8(63 - bits.LeadingZeros64(different))
		unknownMask := maskOf(highestBit + 1)
		zeros |= unknownMask
		ones |= unknownMask
	}

	dividendMin, dividendMax := dividend.SMin(), dividend.SMax()

	if divisorMax > 0 {
		lo := divisorMin
		if lo <= 1 {
			lo = 1
		}
		applyRange(dividendMin, dividendMax, signedConcrete(w, lo), signedConcrete(w, divisorMax))
	}
	if divisorMin <= 0 && divisorMax >= 0 {
		applyRange(dividendMin, dividendMax, Zero(w), Zero(w))
	}
	if divisorMin <= -1 && divisorMax >= -1 {
		minusOne := Ones(w)
		dMin := dividendMin
		dMax := dividendMax
		signBitVal := SignBit(w)
		if dMin.V == signBitVal.V {
			applyRange(dMin, dMin, minusOne, minusOne)
			if dMin != dMax {
				dMin = dMin.Add(NewConcrete(w, 1))
			}
		}
		applyRange(dMin, dMax, minusOne, minusOne)
	}
	if divisorMin < -1 {
		hi := divisorMax
		if hi >= -1 {
			hi = -2
		}
		applyRange(dividendMin, dividendMax, signedConcrete(w, divisorMin), signedConcrete(w, hi))
	}

	return Abstract{W: w, Zeros: zeros, Ones: ones}
}

func signedConcrete(w uint8, v int64) Concrete {
	return wrap(w, uint64(v))
}

// computeDivRemPanicMask reports the abstract panic code for signed
// division/remainder: code 1 (divide-by-zero) if a zero divisor is
// possible, code 2 (signed overflow) if the most-negative dividend divided
// by -1 is possible (division only: with isRem set, overflow is never
// reported), unknown if both panicking and non-panicking outcomes remain
// possible, else definite 0.
func computeDivRemPanicMask(dividend, divisor Abstract, isRem bool) Abstract {
	w := dividend.W
	zeroPossible := divisor.Contains(Zero(w))
	overflowPossible := !isRem &&
		dividend.Contains(SignBit(w)) && divisor.Contains(Ones(w))
	cleanPossible := false
	// a clean (non-panicking) outcome is possible unless the divisor is
	// forced to zero, or (for sdiv) the dividend/divisor are forced to the
	// single overflowing combination.
	if divisor.UMin().AsUnsigned() != 0 || divisor.UMax().AsUnsigned() != 0 {
		cleanPossible = true
	}
	if overflowPossible {
		dv, dok := dividend.ConcreteValue()
		sv, sok := divisor.ConcreteValue()
		if dok && sok && dv.V == SignBit(w).V && sv.V == Ones(w).V {
			cleanPossible = false
		}
	}
	switch {
	case (zeroPossible || overflowPossible) && cleanPossible:
		return NewUnknown(32)
	case zeroPossible:
		return NewAbstractFromConcrete(NewConcrete(32, uint64(PanicDivByZero)))
	case overflowPossible:
		return NewAbstractFromConcrete(NewConcrete(32, uint64(PanicSignedOverflow)))
	default:
		return NewAbstractFromConcrete(NewConcrete(32, uint64(PanicNone)))
	}
}
