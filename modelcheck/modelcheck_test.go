package modelcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/modelcheck"
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/statespace"
)

func valOf(x uint64) machine.Valuation {
	return machine.Valuation{"x": machine.ScalarField(bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(4, x)))}
}

func TestCheckEGHoldsOnSelfLoop(t *testing.T) {
	space := statespace.New[machine.Valuation, machine.Valuation]()
	id1, _ := space.AddStep(statespace.NodeIDStart, valOf(1), machine.Valuation{})
	space.AddStep(statespace.NodeIDOf(id1), valOf(1), machine.Valuation{})

	tree, err := property.Parse("EG[x == 1]")
	require.NoError(t, err)
	verdict, err := modelcheck.NewChecker(tree, space).Check()
	require.NoError(t, err)
	assert.Equal(t, modelcheck.VerdictHolds, verdict)
}

func TestCheckFailsWhenAtomicFalseAtInitial(t *testing.T) {
	space := statespace.New[machine.Valuation, machine.Valuation]()
	id0, _ := space.AddStep(statespace.NodeIDStart, valOf(0), machine.Valuation{})
	space.AddStep(statespace.NodeIDOf(id0), valOf(1), machine.Valuation{})

	tree, err := property.Parse("EG[x == 1]")
	require.NoError(t, err)
	verdict, err := modelcheck.NewChecker(tree, space).Check()
	require.NoError(t, err)
	assert.Equal(t, modelcheck.VerdictFails, verdict)
}

func TestCheckEUReachesTarget(t *testing.T) {
	space := statespace.New[machine.Valuation, machine.Valuation]()
	id0, _ := space.AddStep(statespace.NodeIDStart, valOf(0), machine.Valuation{})
	id1, _ := space.AddStep(statespace.NodeIDOf(id0), valOf(1), machine.Valuation{})
	space.AddStep(statespace.NodeIDOf(id1), valOf(1), machine.Valuation{})

	tree, err := property.Parse("E[x == 0 U x == 1]")
	require.NoError(t, err)
	verdict, err := modelcheck.NewChecker(tree, space).Check()
	require.NoError(t, err)
	assert.Equal(t, modelcheck.VerdictHolds, verdict)
}

func TestCheckUnknownAndDeduceFindsAtomic(t *testing.T) {
	space := statespace.New[machine.Valuation, machine.Valuation]()
	unknown := machine.Valuation{"x": machine.ScalarField(bitvector.NewUnknown(4))}
	id0, _ := space.AddStep(statespace.NodeIDStart, unknown, machine.Valuation{})
	space.AddStep(statespace.NodeIDOf(id0), unknown, machine.Valuation{})

	tree, err := property.Parse("x == 1")
	require.NoError(t, err)
	checker := modelcheck.NewChecker(tree, space)
	verdict, err := checker.Check()
	require.NoError(t, err)
	require.Equal(t, modelcheck.VerdictUnknown, verdict)

	culprit, err := checker.Deduce()
	require.NoError(t, err)
	assert.Equal(t, "x", culprit.Atomic.Left.Field)
	assert.Equal(t, []statespace.StateID{id0}, culprit.Path)
}
