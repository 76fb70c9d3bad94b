package refin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/refin"
)

func TestBackwardNotExact(t *testing.T) {
	a := bitvector.NewValueUnknown(4, 0b0010, 0b0101)
	later := refin.NewMark(4, 0b0101, 10)
	got := refin.BackwardNot(a, later)
	assert.Equal(t, uint64(0b0101), got.Bits)
}

func TestBackwardAndIgnoresKnownZeroSide(t *testing.T) {
	// b is known-0 on bit 0, so a's bit 0 cannot matter regardless of later mark.
	a := bitvector.NewValueUnknown(4, 0, 0b0001)
	b := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, 0b0000))
	later := refin.NewMark(4, 0b0001, 5)
	aMark, bMark := refin.BackwardAnd(a, b, later)
	assert.False(t, aMark.IsSet())
	assert.False(t, bMark.IsSet())
}

func TestBackwardXorMarksBothUnknownOperands(t *testing.T) {
	a := bitvector.NewValueUnknown(4, 0, 0b0001)
	b := bitvector.NewValueUnknown(4, 0, 0b0001)
	later := refin.NewMark(4, 0b0001, 7)
	aMark, bMark := refin.BackwardXor(a, b, later)
	assert.Equal(t, uint64(0b0001), aMark.Bits)
	assert.Equal(t, uint64(0b0001), bMark.Bits)
}

func TestBackwardSextTracesExtendedBitsToSign(t *testing.T) {
	input := bitvector.NewValueUnknown(4, 0, 0b1000)
	later := refin.NewMark(8, 0b1111_0000, 3)
	got := refin.BackwardSext(4, input, later)
	assert.Equal(t, uint64(0b1000), got.Bits)
}

func TestBackwardShiftWindowed(t *testing.T) {
	value := bitvector.NewValueUnknown(8, 0, 0xff)
	amount := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(8, 2))
	later := refin.NewMark(8, 0b0000_0100, 4)
	valueMark, amountMark := refin.BackwardLogicShl(value, amount, later)
	assert.Equal(t, uint64(0b0000_0001), valueMark.Bits)
	// the amount is concrete, so it has no unknown bits a mark may cover.
	assert.False(t, amountMark.IsSet())
}

func TestBackwardDivDefaultPolicyMarksEverything(t *testing.T) {
	a := bitvector.NewValueUnknown(8, 0, 0x0f)
	b := bitvector.NewValueUnknown(8, 0, 0xf0)
	laterValue := refin.NewMark(8, 0x01, 6)
	aMark, bMark := refin.BackwardUDiv(a, b, laterValue, refin.Unmarked(32))
	assert.Equal(t, a.UnknownMask(), aMark.Bits)
	assert.Equal(t, b.UnknownMask(), bMark.Bits)
}
