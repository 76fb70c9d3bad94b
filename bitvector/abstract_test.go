package bitvector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlath-eng/symcheck/bitvector"
)

func TestConcreteRoundTrip(t *testing.T) {
	a := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 5))
	v, ok := a.ConcreteValue()
	require.True(t, ok)
	assert.Equal(t, uint64(5), v.AsUnsigned())
}

func TestUnknownHasNoConcreteValue(t *testing.T) {
	u := bitvector.NewUnknown(8)
	_, ok := u.ConcreteValue()
	assert.False(t, ok)
	assert.Equal(t, uint64(0xff), u.UnknownMask())
}

func TestMaskInvariantAfterForwardOps(t *testing.T) {
	a := bitvector.NewValueUnknown(8, 0b0000_1100, 0b0000_0011)
	b := bitvector.NewValueUnknown(8, 0b0000_0001, 0b0000_1000)

	for _, r := range []bitvector.Abstract{
		a.And(b), a.Or(b), a.Xor(b), a.Not(),
		a.Add(b), a.Sub(b), a.Mul(b),
		a.LogicShl(b), a.LogicShr(b), a.ArithShr(b),
	} {
		assert.Equal(t, uint64(0xff), r.Zeros|r.Ones, "zeros|ones must cover the full width")
	}
}

func TestUMinUMaxBounds(t *testing.T) {
	a := bitvector.NewValueUnknown(4, 0b0010, 0b0101)
	lo := a.UMin().AsUnsigned()
	hi := a.UMax().AsUnsigned()
	assert.LessOrEqual(t, lo, hi)
	for v := uint64(0); v < 16; v++ {
		c := bitvector.NewConcrete(4, v)
		if a.Contains(c) {
			assert.GreaterOrEqual(t, v, lo)
			assert.LessOrEqual(t, v, hi)
		}
	}
}

func TestSMinSMaxNegativeBias(t *testing.T) {
	// width-4 fully unknown: signed range is [-8, 7].
	u := bitvector.NewUnknown(4)
	assert.Equal(t, int64(-8), u.SMin().AsSigned())
	assert.Equal(t, int64(7), u.SMax().AsSigned())
}

func TestEqNeExactOnConcreteOperands(t *testing.T) {
	a := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 3))
	b := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 3))
	c := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 5))

	eq, _ := a.Eq(b).ConcreteValue()
	assert.Equal(t, uint64(1), eq.AsUnsigned())

	ne, _ := a.Eq(c).ConcreteValue()
	assert.Equal(t, uint64(0), ne.AsUnsigned())
}

func TestAddExactOnConcreteOperands(t *testing.T) {
	a := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 7))
	b := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 11))
	sum, ok := a.Add(b).ConcreteValue()
	require.True(t, ok)
	assert.Equal(t, bitvector.NewConcrete(4, 7).Add(bitvector.NewConcrete(4, 11)).AsUnsigned(), sum.AsUnsigned())
}

func TestForwardSoundnessAddFuzz(t *testing.T) {
	// Every concretization of a sound abstract operand pair must be
	// contained in the abstract result -- spot-checked exhaustively for a
	// small width.
	for za := uint64(0); za < 16; za++ {
		for oa := uint64(0); oa < 16; oa++ {
			if za|oa != 0xf {
				continue
			}
			for zb := uint64(0); zb < 16; zb++ {
				for ob := uint64(0); ob < 16; ob++ {
					if zb|ob != 0xf {
						continue
					}
					a := bitvector.NewAbstractFromMasks(4, za, oa)
					b := bitvector.NewAbstractFromMasks(4, zb, ob)
					sum := a.Add(b)
					for ca := uint64(0); ca < 16; ca++ {
						if !a.Contains(bitvector.NewConcrete(4, ca)) {
							continue
						}
						for cb := uint64(0); cb < 16; cb++ {
							if !b.Contains(bitvector.NewConcrete(4, cb)) {
								continue
							}
							want := bitvector.NewConcrete(4, ca).Add(bitvector.NewConcrete(4, cb))
							assert.True(t, sum.Contains(want), "add(%v,%v)=%v not contained in %v", ca, cb, want, sum)
						}
					}
				}
			}
		}
	}
}

func TestDivByZeroPanicPossible(t *testing.T) {
	dividend := bitvector.NewValueUnknown(8, 10, 0)
	divisor := bitvector.NewUnknown(8)
	res := dividend.UDiv(divisor)
	// zero is contained in divisor's range, so panic code 1 must be possible.
	assert.True(t, res.Panic.Contains(bitvector.NewConcrete(32, uint64(bitvector.PanicDivByZero))))
}

func TestSignExtendPreservesSign(t *testing.T) {
	neg := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 0b1000)) // -8 in 4 bits
	ext := neg.Sext(8)
	v, ok := ext.ConcreteValue()
	require.True(t, ok)
	assert.Equal(t, int64(-8), v.AsSigned())
}
