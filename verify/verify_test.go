package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/modelcheck"
	"github.com/vlath-eng/symcheck/panicres"
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/verify"
)

// branchMachine copies a single nondeterministic input bit "c" into state
// field "x" on Init and then self-loops, giving the CEGAR loop exactly one
// field to refine before a definite verdict is reachable.
type branchMachine struct{}

func (branchMachine) InputSchema() machine.Schema { return machine.Schema{"c": 1} }

func (branchMachine) Init(input machine.Valuation) machine.StepResult {
	return panicres.None(machine.Valuation{"x": input["c"]})
}

func (branchMachine) Next(state, _ machine.Valuation) machine.StepResult {
	return panicres.None(state)
}

func (branchMachine) InitMark(_ machine.Valuation, laterStateMark machine.MarkValuation) machine.MarkValuation {
	return machine.MarkValuation{"c": laterStateMark["x"]}
}

func (branchMachine) NextMark(_, _ machine.Valuation, laterStateMark machine.MarkValuation) (machine.MarkValuation, machine.MarkValuation) {
	return laterStateMark, machine.MarkValuation{}
}

func TestCheckFailsAfterRefiningBranchingMachine(t *testing.T) {
	tree, err := property.Parse("AG[x == 0]")
	require.NoError(t, err)

	v := verify.New(branchMachine{}, verify.Options{UseDecay: false})
	verdict, err := v.Check(tree)
	require.NoError(t, err)
	assert.Equal(t, modelcheck.VerdictFails, verdict)
	assert.Equal(t, 1, v.Stats().NumRefinements)
}

// zeroMachine always sets x to the concrete value 0 and self-loops, so the
// property holds from the initial (unrefined) precision alone.
type zeroMachine struct{}

func (zeroMachine) InputSchema() machine.Schema { return machine.Schema{} }

func (zeroMachine) Init(machine.Valuation) machine.StepResult {
	return panicres.None(machine.Valuation{"x": machine.ScalarField(bitvector.NewAbstractFromConcrete(bitvector.Zero(1)))})
}

func (zeroMachine) Next(state, _ machine.Valuation) machine.StepResult {
	return panicres.None(state)
}

func (zeroMachine) InitMark(_ machine.Valuation, _ machine.MarkValuation) machine.MarkValuation {
	return machine.MarkValuation{}
}

func (zeroMachine) NextMark(_, _ machine.Valuation, _ machine.MarkValuation) (machine.MarkValuation, machine.MarkValuation) {
	return machine.MarkValuation{}, machine.MarkValuation{}
}

func TestCheckHoldsWithoutRefinement(t *testing.T) {
	tree, err := property.Parse("AG[x == 0]")
	require.NoError(t, err)

	v := verify.New(zeroMachine{}, verify.Options{UseDecay: false})
	verdict, err := v.Check(tree)
	require.NoError(t, err)
	assert.Equal(t, modelcheck.VerdictHolds, verdict)
	assert.Equal(t, 0, v.Stats().NumRefinements)
	assert.Equal(t, 1, v.Stats().NumStates)
}
