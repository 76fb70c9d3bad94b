package refine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/modelcheck"
	"github.com/vlath-eng/symcheck/panicres"
	"github.com/vlath-eng/symcheck/precision"
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/refine"
	"github.com/vlath-eng/symcheck/refin"
	"github.com/vlath-eng/symcheck/statespace"
)

// passThroughMachine copies its input field "c" into state field "x" on
// Init and leaves state unchanged on Next (a self-loop), just enough
// surface to exercise Driver.Regenerate and Driver.Refine end to end.
type passThroughMachine struct{}

func (passThroughMachine) InputSchema() machine.Schema { return machine.Schema{"c": 2} }

func (passThroughMachine) Init(input machine.Valuation) machine.StepResult {
	return panicres.None(machine.Valuation{"x": input["c"]})
}

func (passThroughMachine) Next(state, _ machine.Valuation) machine.StepResult {
	return panicres.None(state)
}

func (passThroughMachine) InitMark(_ machine.Valuation, laterStateMark machine.MarkValuation) machine.MarkValuation {
	return machine.MarkValuation{"c": laterStateMark["x"]}
}

func (passThroughMachine) NextMark(_, _ machine.Valuation, laterStateMark machine.MarkValuation) (machine.MarkValuation, machine.MarkValuation) {
	return laterStateMark, machine.MarkValuation{}
}

func TestRegenerateFromEmptyPrecisionYieldsOneState(t *testing.T) {
	table := precision.New()
	space := statespace.New[machine.Valuation, machine.Valuation]()
	driver := refine.NewDriver(table, space, passThroughMachine{}, false)

	driver.Regenerate(statespace.NodeIDStart)

	assert.Equal(t, 1, space.NumStates())
}

func TestRefineGrowsInputPrecisionAndRegenerates(t *testing.T) {
	table := precision.New()
	space := statespace.New[machine.Valuation, machine.Valuation]()
	driver := refine.NewDriver(table, space, passThroughMachine{}, false)
	driver.Regenerate(statespace.NodeIDStart)
	require.Equal(t, 1, space.NumStates())

	initial := space.InitialIDs()
	require.Len(t, initial, 1)

	culprit := &modelcheck.Culprit{
		Path: []statespace.StateID{initial[0]},
		Atomic: property.AtomicProperty{
			Left:       property.ValueExpr{Field: "x"},
			Comparison: property.CmpEq,
			Right:      1,
		},
	}

	grew, err := driver.Refine(culprit)
	require.NoError(t, err)
	assert.True(t, grew)
	// four refined states x=0..3, plus the unrefined initial state, which
	// stays stored (unreachable) until a compaction sweep removes it.
	assert.Equal(t, 5, space.NumStates())
}

// chainMachine keeps a running 2-bit counter x = x + c, so a mark on x
// keeps propagating across hops via refin.BackwardAdd instead of dying
// out after one step -- enough to exercise Driver.Refine's backward walk
// across 3+ edges instead of just one.
type chainMachine struct{}

func (chainMachine) InputSchema() machine.Schema { return machine.Schema{"c": 2} }

func (chainMachine) Init(input machine.Valuation) machine.StepResult {
	return panicres.None(machine.Valuation{"x": input["c"]})
}

func (chainMachine) Next(state, input machine.Valuation) machine.StepResult {
	return panicres.None(machine.Valuation{"x": machine.ScalarField(state["x"].Scalar.Add(input["c"].Scalar))})
}

func (chainMachine) InitMark(_ machine.Valuation, laterStateMark machine.MarkValuation) machine.MarkValuation {
	return machine.MarkValuation{"c": laterStateMark["x"]}
}

func (chainMachine) NextMark(state, input machine.Valuation, laterStateMark machine.MarkValuation) (machine.MarkValuation, machine.MarkValuation) {
	xMark, cMark := refin.BackwardAdd(state["x"].Scalar, input["c"].Scalar, laterStateMark["x"].Scalar)
	return machine.MarkValuation{"x": machine.ScalarMark(xMark)}, machine.MarkValuation{"c": machine.ScalarMark(cMark)}
}

// TestRefinePicksEarliestPredecessorOnTie builds a 3-edge path (start ->
// s0 -> s1 -> s2) by hand so that growingCandidate fires at every one of
// the three predecessors visited by the backward walk. markImportance is
// a constant, so every candidate ties on importance and the tie-break
// ("earliest predecessor") decides the winner: Driver.Refine must grow
// the root's input precision, not the edge closest to the culprit. An
// early-return-on-first-growth implementation would instead grow the
// precision of s1, the predecessor of the culprit state s2 (the edge
// nearest the culprit), and never reach the root.
func TestRefinePicksEarliestPredecessorOnTie(t *testing.T) {
	table := precision.New()
	space := statespace.New[machine.Valuation, machine.Valuation]()
	driver := refine.NewDriver(table, space, chainMachine{}, false)

	// Each state carries exactly one unknown bit of x (so FullMask marks
	// something at every hop) but a distinct known bit, so the three
	// interned states stay distinct instead of collapsing onto one vertex.
	stateA := machine.Valuation{"x": machine.ScalarField(bitvector.NewValueUnknown(2, 0, 0b10))}
	stateB := machine.Valuation{"x": machine.ScalarField(bitvector.NewValueUnknown(2, 1, 0b10))}
	stateC := machine.Valuation{"x": machine.ScalarField(bitvector.NewValueUnknown(2, 2, 0b01))}
	cInput := machine.Valuation{"c": machine.ScalarField(bitvector.NewUnknown(2))}

	id0, _ := space.AddStep(statespace.NodeIDStart, stateA, cInput)
	id1, _ := space.AddStep(statespace.NodeIDOf(id0), stateB, cInput)
	id2, _ := space.AddStep(statespace.NodeIDOf(id1), stateC, cInput)

	culprit := &modelcheck.Culprit{
		Path: []statespace.StateID{id0, id1, id2},
		Atomic: property.AtomicProperty{
			Left:       property.ValueExpr{Field: "x"},
			Comparison: property.CmpEq,
			Right:      1,
		},
	}

	grew, err := driver.Refine(culprit)
	require.NoError(t, err)
	assert.True(t, grew)

	rootPrecision := table.Input(statespace.NodeIDStart)
	_, rootGrew := rootPrecision["c"]
	assert.True(t, rootGrew, "the earliest predecessor (the root) should win the tie, not the one closest to the culprit")

	midPrecision := table.Input(statespace.NodeIDOf(id0))
	_, midGrew := midPrecision["c"]
	assert.False(t, midGrew, "a predecessor closer to the culprit must not be refined once an earlier tying candidate is found")
}
