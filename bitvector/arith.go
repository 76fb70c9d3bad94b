package bitvector

// Neg is defined via subtraction from zero, matching hardware wrapping
// semantics (same identity used by the reference two's-complement negation).
func (a Abstract) Neg() Abstract {
	return NewAbstractFromConcrete(Zero(a.W)).Sub(a)
}

// Add and Sub use the bitwise carry-propagation minmax algorithm: for each
// output bit k, the minimum and maximum possible sums over bits [0,k] are
// computed from the operand extremes; if they disagree the bit is unknown,
// otherwise its value is the (identical) minimum.
func (a Abstract) Add(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	return minmaxCompute(a, b, func(lhs, rhs Abstract, k uint8) (uint64, uint64) {
		return addsubZetaK(lhs.UMin(), lhs.UMax(), rhs.UMin(), rhs.UMax(), k, addOverflow)
	})
}

func (a Abstract) Sub(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	return minmaxCompute(a, b, func(lhs, rhs Abstract, k uint8) (uint64, uint64) {
		// swap rhs min/max since subtraction applies rhs negated.
		return addsubZetaK(lhs.UMin(), lhs.UMax(), rhs.UMax(), rhs.UMin(), k, subOverflow)
	})
}

func addOverflow(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

func subOverflow(a, b uint64) (uint64, bool) {
	diff := a - b
	return diff, a < b
}

func addsubZetaK(leftMin, leftMax, rightMin, rightMax Concrete, k uint8, fn func(uint64, uint64) (uint64, bool)) (uint64, uint64) {
	modMask := maskOf(k + 1)
	lMin := leftMin.AsUnsigned() & modMask
	lMax := leftMax.AsUnsigned() & modMask
	rMin := rightMin.AsUnsigned() & modMask
	rMax := rightMax.AsUnsigned() & modMask

	minVal, minCarry := fn(lMin, rMin)
	maxVal, maxCarry := fn(lMax, rMax)
	zetaMin := shrOverflowing(minVal, minCarry, k)
	zetaMax := shrOverflowing(maxVal, maxCarry, k)
	return zetaMin, zetaMax
}

func shrOverflowing(v uint64, carry bool, k uint8) uint64 {
	result := v >> k
	if carry && k > 0 {
		result |= uint64(1) << (64 - uint(k))
	}
	return result
}

func minmaxCompute(lhs, rhs Abstract, zetaKFn func(Abstract, Abstract, uint8) (uint64, uint64)) Abstract {
	var zeros, ones uint64
	for k := uint8(0); k < lhs.W; k++ {
		zMin, zMax := zetaKFn(lhs, rhs, k)
		if zMin != zMax {
			zeros |= 1 << k
			ones |= 1 << k
		} else {
			zeros |= (^zMin & 1) << k
			ones |= (zMin & 1) << k
		}
	}
	return Abstract{W: lhs.W, Zeros: zeros, Ones: ones}
}

// Mul uses the minmax algorithm with 128-bit intermediate products to avoid
// overflow; it is sound but, unlike Add/Sub, not required to be exact.
func (a Abstract) Mul(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	return minmaxCompute(a, b, func(lhs, rhs Abstract, k uint8) (uint64, uint64) {
		modMask := maskOf(k + 1)
		leftMin := uint64(lhs.UMin().AsUnsigned() & modMask)
		rightMin := uint64(rhs.UMin().AsUnsigned() & modMask)
		leftMax := uint64(lhs.UMax().AsUnsigned() & modMask)
		rightMax := uint64(rhs.UMax().AsUnsigned() & modMask)

		zetaMin := mulHigh128(leftMin, rightMin, k)
		zetaMax := mulHigh128(leftMax, rightMax, k)
		return zetaMin, zetaMax
	})
}

func mulHigh128(a, b uint64, k uint8) uint64 {
	// compute (a*b) >> k using a 128-bit intermediate (hi:lo).
	hi, lo := mul64(a, b)
	if k == 0 {
		return lo
	}
	return (lo >> k) | (hi << (64 - k))
}

func mul64(a, b uint64) (hi, lo uint64) {
	const mask32 = 0xffffffff
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t := aLo * bLo
	w0 := t & mask32
	k := t >> 32

	t = aHi*bLo + k
	w1 := t & mask32
	w2 := t >> 32

	t = aLo*bHi + w1
	k = t >> 32

	lo = (t << 32) | w0
	hi = aHi*bHi + w2 + k
	return hi, lo
}
