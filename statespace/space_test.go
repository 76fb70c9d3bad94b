package statespace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlath-eng/symcheck/statespace"
)

type fakeState struct{ key string }

func (f fakeState) Key() string { return f.key }

func TestAddStepInternsEqualStates(t *testing.T) {
	sp := statespace.New[int, fakeState]()
	id1, added1 := sp.AddStep(statespace.NodeIDStart, fakeState{"a"}, 1)
	id2, added2 := sp.AddStep(statespace.NodeIDStart, fakeState{"a"}, 2)
	assert.True(t, added1)
	assert.False(t, added2)
	assert.Equal(t, id1, id2)
}

func TestClearStepRemovesEdgesBothDirections(t *testing.T) {
	sp := statespace.New[int, fakeState]()
	id, _ := sp.AddStep(statespace.NodeIDStart, fakeState{"a"}, 1)
	node := statespace.NodeIDOf(id)
	bID, _ := sp.AddStep(node, fakeState{"b"}, 2)

	sp.ClearStep(node)
	assert.Empty(t, sp.SuccessorIDs(node))
	assert.Empty(t, sp.PredecessorNodeIDs(statespace.NodeIDOf(bID)))
}

func TestRepresentativeInputRoundTrip(t *testing.T) {
	sp := statespace.New[int, fakeState]()
	id, _ := sp.AddStep(statespace.NodeIDStart, fakeState{"a"}, 42)
	input, err := sp.RepresentativeInput(statespace.NodeIDStart, statespace.NodeIDOf(id))
	require.NoError(t, err)
	assert.Equal(t, 42, input)

	_, err = sp.RepresentativeInput(statespace.NodeIDOf(id), statespace.NodeIDStart)
	assert.ErrorIs(t, err, statespace.ErrNoSuchEdge)
}

func TestMakeCompactSkipsSweepBelowThreshold(t *testing.T) {
	sp := statespace.New[int, fakeState]()
	keepID, _ := sp.AddStep(statespace.NodeIDStart, fakeState{"keep"}, 0)
	sp.AddStep(statespace.NodeIDOf(keepID), fakeState{"keep"}, 0)

	retained, swept := sp.MakeCompact()
	assert.False(t, swept)
	assert.Equal(t, []statespace.StateID{keepID}, retained)
}

func TestNontrivialLabelledSCCsFindsSelfLoop(t *testing.T) {
	sp := statespace.New[int, fakeState]()
	id, _ := sp.AddStep(statespace.NodeIDStart, fakeState{"a"}, 0)
	sp.AddStep(statespace.NodeIDOf(id), fakeState{"a"}, 0) // self-loop: interns to the same state

	labelled := map[statespace.StateID]bool{id: true}
	sccs := sp.NontrivialLabelledSCCs(labelled)
	assert.True(t, sccs[id])
}
