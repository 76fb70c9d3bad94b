package precision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vlath-eng/symcheck/precision"
	"github.com/vlath-eng/symcheck/refin"
	"github.com/vlath-eng/symcheck/statespace"
)

func TestEmptyFieldPrecisionYieldsOneFullyUnknownInput(t *testing.T) {
	fp := precision.FieldPrecision{W: 4}
	results := fp.ProtoIter()
	assert.Len(t, results, 1)
	assert.Equal(t, uint64(0xf), results[0].UnknownMask())
}

func TestApplyRefinGrowsSplitAndEnumeratesBothValues(t *testing.T) {
	fp := precision.FieldPrecision{W: 4}
	mark := refin.NewMark(4, 0b0001, 5)
	grown, changed := fp.ApplyRefin(mark)
	assert.True(t, changed)
	results := grown.ProtoIter()
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, uint64(0b1110), r.UnknownMask())
	}
}

func TestApplyInputRefinNoGrowthWhenSubsumed(t *testing.T) {
	table := precision.New()
	node := statespace.NodeIDStart
	mark := refin.NewMark(4, 0b0001, 3)
	assert.True(t, table.ApplyInputRefin(node, "c", mark))
	assert.False(t, table.ApplyInputRefin(node, "c", mark))
}

func TestRetainIndicesDropsUnkept(t *testing.T) {
	table := precision.New()
	node := statespace.NodeIDOf(1)
	table.ApplyInputRefin(node, "c", refin.NewMark(4, 1, 1))
	table.RetainIndices(func(statespace.NodeID) bool { return false })
	assert.Nil(t, table.Input(node))
}
