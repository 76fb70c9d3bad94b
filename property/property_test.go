package property_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/property"
)

func TestParseAtomicEquality(t *testing.T) {
	tree, err := property.Parse("counter == 3")
	require.NoError(t, err)
	root := tree.RootNode()
	require.Equal(t, property.KindAtomic, root.Kind)
	assert.Equal(t, "counter", root.Atomic.Left.Field)
	assert.Equal(t, property.CmpEq, root.Atomic.Comparison)
	assert.Equal(t, int64(3), root.Atomic.Right)
}

func TestParseAGFoldsToNegatedEF(t *testing.T) {
	tree, err := property.Parse("AG[counter != 15]")
	require.NoError(t, err)
	root := tree.RootNode()
	require.Equal(t, property.KindNot, root.Kind)
	inner := tree.Nodes[root.A]
	require.Equal(t, property.KindEU, inner.Kind)
	assert.Equal(t, property.KindConst, tree.Nodes[inner.A].Kind)
}

func TestParseEUDirect(t *testing.T) {
	tree, err := property.Parse("E[counter < 10 U counter == 10]")
	require.NoError(t, err)
	root := tree.RootNode()
	require.Equal(t, property.KindEU, root.Kind)
}

func TestParseBooleanPrecedence(t *testing.T) {
	tree, err := property.Parse("a == 1 || b == 2 && c == 3")
	require.NoError(t, err)
	root := tree.RootNode()
	require.Equal(t, property.KindOr, root.Kind)
	assert.Equal(t, property.KindAnd, tree.Nodes[root.B].Kind)
}

func TestParseAsSignedComparison(t *testing.T) {
	tree, err := property.Parse("as_signed(delta) < 0")
	require.NoError(t, err)
	root := tree.RootNode()
	require.Equal(t, machine.SignednessSigned, root.Atomic.Left.Signedness)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := property.Parse("counter === 3")
	assert.ErrorIs(t, err, property.ErrSyntax)
}

func TestAtomicEvalReportsUnknownSignedness(t *testing.T) {
	state := machine.Valuation{"x": machine.ScalarField(bitvector.NewUnknown(8))}
	atomic := property.AtomicProperty{Left: property.ValueExpr{Field: "x"}, Comparison: property.CmpLt, Right: 4}
	_, err := atomic.Eval(state)
	assert.ErrorIs(t, err, property.ErrSignednessNotEstablished)
}

func TestAtomicEvalEqualityConcrete(t *testing.T) {
	state := machine.Valuation{"x": machine.ScalarField(bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(8, 5)))}
	atomic := property.AtomicProperty{Left: property.ValueExpr{Field: "x"}, Comparison: property.CmpEq, Right: 5}
	result, err := atomic.Eval(state)
	require.NoError(t, err)
	assert.True(t, property.Resolve(result, false))
}
