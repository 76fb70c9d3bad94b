package bitvector

// Forward bitwise operators. All are exact: the result's unknown-bit set is
// precisely the join of the concrete results over every concretization.

func (a Abstract) Not() Abstract {
	return Abstract{W: a.W, Zeros: a.Ones, Ones: a.Zeros}
}

func (a Abstract) And(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	// a bit is 0 in the result if either operand is known-0.
	zeros := a.Zeros | b.Zeros
	// a bit is 1 in the result only if both operands are known-1.
	ones := a.Ones & b.Ones
	return Abstract{W: a.W, Zeros: zeros, Ones: ones}
}

func (a Abstract) Or(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	zeros := a.Zeros & b.Zeros
	ones := a.Ones | b.Ones
	return Abstract{W: a.W, Zeros: zeros, Ones: ones}
}

func (a Abstract) Xor(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	// known iff both operands are known; value is xor of known values.
	known := (a.Zeros | a.Ones) & (b.Zeros | b.Ones)
	aVal := a.Ones
	bVal := b.Ones
	valueKnown := known &^ (a.unknownBits() | b.unknownBits())
	xorVal := (aVal ^ bVal) & valueKnown
	m := maskOf(a.W)
	unknown := m &^ valueKnown
	return Abstract{W: a.W, Zeros: (^xorVal & valueKnown) | unknown, Ones: xorVal | unknown}
}

// Eq/Ne return a width-1 Abstract: known true/false when the operands'
// concretizations are disjoint or identical singletons, unknown otherwise.
func (a Abstract) Eq(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	// definitely equal iff both are the same concrete value.
	if ac, aok := a.ConcreteValue(); aok {
		if bc, bok := b.ConcreteValue(); bok {
			return NewAbstractFromConcrete(boolBit(ac.V == bc.V))
		}
	}
	// definitely unequal iff some bit is known-different (one is 0, other is 1, both known).
	definitelyDifferent := (a.Ones &^ a.unknownBits()) & (b.Zeros &^ b.unknownBits())
	definitelyDifferent |= (a.Zeros &^ a.unknownBits()) & (b.Ones &^ b.unknownBits())
	if definitelyDifferent != 0 {
		return NewAbstractFromConcrete(boolBit(false))
	}
	return NewUnknown(1)
}

func (a Abstract) Ne(b Abstract) Abstract {
	return a.Eq(b).Not()
}

// Ult/Ule/Slt/Sle are decided from the umin/umax or smin/smax extremes: the
// comparison is definite when the extremes already force an order, unknown
// otherwise.
func (a Abstract) Ult(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	if a.UMax().AsUnsigned() < b.UMin().AsUnsigned() {
		return NewAbstractFromConcrete(boolBit(true))
	}
	if a.UMin().AsUnsigned() >= b.UMax().AsUnsigned() {
		return NewAbstractFromConcrete(boolBit(false))
	}
	return NewUnknown(1)
}

func (a Abstract) Ule(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	if a.UMax().AsUnsigned() <= b.UMin().AsUnsigned() {
		return NewAbstractFromConcrete(boolBit(true))
	}
	if a.UMin().AsUnsigned() > b.UMax().AsUnsigned() {
		return NewAbstractFromConcrete(boolBit(false))
	}
	return NewUnknown(1)
}

func (a Abstract) Slt(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	if a.SMax().AsSigned() < b.SMin().AsSigned() {
		return NewAbstractFromConcrete(boolBit(true))
	}
	if a.SMin().AsSigned() >= b.SMax().AsSigned() {
		return NewAbstractFromConcrete(boolBit(false))
	}
	return NewUnknown(1)
}

func (a Abstract) Sle(b Abstract) Abstract {
	requireSameWidth(a.W, b.W)
	if a.SMax().AsSigned() <= b.SMin().AsSigned() {
		return NewAbstractFromConcrete(boolBit(true))
	}
	if a.SMin().AsSigned() > b.SMax().AsSigned() {
		return NewAbstractFromConcrete(boolBit(false))
	}
	return NewUnknown(1)
}

// Uext/Sext extend (or truncate) an abstract value to width x, zero- or
// sign-extending both masks.
func (a Abstract) Uext(x uint8) Abstract {
	validateWidth(x)
	m := maskOf(x)
	return Abstract{W: x, Zeros: (a.Zeros & m) | (^maskOf(a.W) & m), Ones: a.Ones & maskOf(a.W) & m}
}

func (a Abstract) Sext(x uint8) Abstract {
	validateWidth(x)
	oldMask := maskOf(a.W)
	newMask := maskOf(x)
	lengthening := (^oldMask) & newMask
	sign := signBitOf(a.W)
	signKnownOne := a.Ones&sign != 0 && a.Zeros&sign == 0
	signKnownZero := a.Zeros&sign != 0 && a.Ones&sign == 0
	zeros := a.Zeros & oldMask & newMask
	ones := a.Ones & oldMask & newMask
	switch {
	case signKnownOne:
		ones |= lengthening
	case signKnownZero:
		zeros |= lengthening
	default:
		zeros |= lengthening
		ones |= lengthening
	}
	return Abstract{W: x, Zeros: zeros, Ones: ones}
}
