package bitvector

import "fmt"

// Concrete is a fixed-width two's-complement machine word. Only the low W
// bits of V are meaningful; higher bits are always zero. Mirrors the
// "Bitvector<L>" type of the system this package is modeled on, but with W
// carried at runtime.
type Concrete struct {
	W uint8
	V uint64
}

// NewConcrete builds a Concrete of width w from value, panicking if value
// does not fit in w bits.
func NewConcrete(w uint8, value uint64) Concrete {
	validateWidth(w)
	if value&^maskOf(w) != 0 {
		panic(ErrValueOutOfRange)
	}
	return Concrete{W: w, V: value}
}

// wrap builds a Concrete by masking value to w bits (used internally by
// wrapping arithmetic, which never needs to validate range).
func wrap(w uint8, value uint64) Concrete {
	return Concrete{W: w, V: value & maskOf(w)}
}

// Zero returns the all-zero value of width w.
func Zero(w uint8) Concrete { return wrap(w, 0) }

// Ones returns the all-one (bitwise complement of zero, i.e. -1) value of
// width w.
func Ones(w uint8) Concrete { return wrap(w, maskOf(w)) }

// SignBit returns the value with only the sign bit set.
func SignBit(w uint8) Concrete { return wrap(w, signBitOf(w)) }

func (c Concrete) String() string {
	buf := make([]byte, c.W)
	for i := uint8(0); i < c.W; i++ {
		bigK := c.W - i - 1
		bit := (c.V >> bigK) & 1
		buf[i] = byte('0' + bit)
	}
	return fmt.Sprintf("'%s'", buf)
}

// AsUnsigned returns the value interpreted as an unsigned integer.
func (c Concrete) AsUnsigned() uint64 { return c.V }

// AsSigned returns the value interpreted as a two's-complement signed
// integer, sign-extended beyond W.
func (c Concrete) AsSigned() int64 {
	v := c.V
	if v&signBitOf(c.W) != 0 {
		v |= ^maskOf(c.W)
	}
	return int64(v)
}

func (c Concrete) isSignSet() bool { return c.V&signBitOf(c.W) != 0 }

// Bitwise operators.

func (c Concrete) Not() Concrete        { return wrap(c.W, ^c.V) }
func (c Concrete) And(o Concrete) Concrete { requireSameWidth(c.W, o.W); return wrap(c.W, c.V&o.V) }
func (c Concrete) Or(o Concrete) Concrete  { requireSameWidth(c.W, o.W); return wrap(c.W, c.V|o.V) }
func (c Concrete) Xor(o Concrete) Concrete { requireSameWidth(c.W, o.W); return wrap(c.W, c.V^o.V) }

// Comparisons, all returning a width-1 Concrete (0 or 1).

func (c Concrete) Eq(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return boolBit(c.V == o.V)
}
func (c Concrete) Ne(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return boolBit(c.V != o.V)
}
func (c Concrete) Ult(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return boolBit(c.AsUnsigned() < o.AsUnsigned())
}
func (c Concrete) Ule(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return boolBit(c.AsUnsigned() <= o.AsUnsigned())
}
func (c Concrete) Slt(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return boolBit(c.AsSigned() < o.AsSigned())
}
func (c Concrete) Sle(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return boolBit(c.AsSigned() <= o.AsSigned())
}

func boolBit(b bool) Concrete {
	if b {
		return Concrete{W: 1, V: 1}
	}
	return Concrete{W: 1, V: 0}
}

// Extension.

// Uext zero-extends (or truncates) c to width x.
func (c Concrete) Uext(x uint8) Concrete {
	validateWidth(x)
	return wrap(x, c.V)
}

// Sext sign-extends (or truncates) c to width x.
func (c Concrete) Sext(x uint8) Concrete {
	validateWidth(x)
	v := c.V & maskOf(x)
	if c.isSignSet() {
		oldMask := maskOf(c.W)
		newMask := maskOf(x)
		v |= (^oldMask) & newMask
	}
	return wrap(x, v)
}

// Shifts; the amount operand is itself a Concrete of the same width.

func (c Concrete) LogicShl(amount Concrete) Concrete {
	requireSameWidth(c.W, amount.W)
	if amount.V >= uint64(c.W) {
		return Zero(c.W)
	}
	return wrap(c.W, c.V<<amount.V)
}

func (c Concrete) LogicShr(amount Concrete) Concrete {
	requireSameWidth(c.W, amount.W)
	if amount.V >= uint64(c.W) {
		return Zero(c.W)
	}
	return wrap(c.W, c.V>>amount.V)
}

func (c Concrete) ArithShr(amount Concrete) Concrete {
	requireSameWidth(c.W, amount.W)
	if amount.V >= uint64(c.W) {
		if c.isSignSet() {
			return Ones(c.W)
		}
		return Zero(c.W)
	}
	result := c.V >> amount.V
	if c.isSignSet() {
		oldMask := maskOf(c.W)
		newMask := oldMask >> amount.V
		result |= oldMask &^ newMask
	}
	return wrap(c.W, result)
}

// Arithmetic. Neg/Add/Sub/Mul wrap silently (hardware semantics); division
// and remainder follow the BTOR2/btorsim convention that division by zero
// yields all-ones (UDiv, SDiv) and remainder by zero yields the dividend
// (URem, SRem) rather than trapping at the concrete level -- the *abstract*
// operators are the ones responsible for surfacing a panic result (see the
// three-valued div/rem in divrem.go).

func (c Concrete) Neg() Concrete { return wrap(c.W, uint64(-int64(c.V))) }
func (c Concrete) Add(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return wrap(c.W, c.V+o.V)
}
func (c Concrete) Sub(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return wrap(c.W, c.V-o.V)
}
func (c Concrete) Mul(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	return wrap(c.W, c.V*o.V)
}

func (c Concrete) UDiv(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	if o.V == 0 {
		return Ones(c.W)
	}
	return wrap(c.W, c.AsUnsigned()/o.AsUnsigned())
}

func (c Concrete) URem(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	if o.V == 0 {
		return c
	}
	return wrap(c.W, c.AsUnsigned()%o.AsUnsigned())
}

func (c Concrete) SDiv(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	if o.V == 0 {
		return Ones(c.W)
	}
	dividend, divisor := c.AsSigned(), o.AsSigned()
	if divisor == -1 && dividend == int64(signBitOf(c.W)) {
		// most-negative value divided by -1 overflows; wraps to itself.
		return wrap(c.W, uint64(dividend))
	}
	return wrap(c.W, uint64(dividend/divisor))
}

func (c Concrete) SRem(o Concrete) Concrete {
	requireSameWidth(c.W, o.W)
	if o.V == 0 {
		return c
	}
	dividend, divisor := c.AsSigned(), o.AsSigned()
	if divisor == -1 && dividend == int64(signBitOf(c.W)) {
		return Zero(c.W)
	}
	return wrap(c.W, uint64(dividend%divisor))
}
