package refine

import (
	"github.com/vlath-eng/symcheck/arrdomain"
	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/modelcheck"
	"github.com/vlath-eng/symcheck/precision"
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/refin"
	"github.com/vlath-eng/symcheck/statespace"
)

// markImportance is the uniform priority assigned to a culprit's starting
// mark; every mark a refinement round computes descends from it, so ties
// resolve by earliest predecessor in the backward walk rather than by
// importance.
const markImportance = 1

// Driver applies refinement rounds to a shared precision.Table and
// rebuilds the reachable state space from it.
type Driver struct {
	Table    *precision.Table
	Space    modelcheck.Space
	Machine  machine.Machine
	UseDecay bool
}

// NewDriver builds a Driver over an already-initialized table and space.
func NewDriver(table *precision.Table, space modelcheck.Space, m machine.Machine, useDecay bool) *Driver {
	return &Driver{Table: table, Space: space, Machine: m, UseDecay: useDecay}
}

// initialCulpritMark computes the starting state mark for Refine: a full
// mask on whatever field and (for an array field) element the culprit's
// atomic property names.
func initialCulpritMark(state machine.Valuation, atomic property.AtomicProperty) (machine.MarkValuation, error) {
	field, err := machine.Get(state, atomic.Left.Field)
	if err != nil {
		return nil, err
	}
	if !atomic.Left.HasIndex {
		return machine.MarkValuation{
			atomic.Left.Field: machine.ScalarMark(refin.FullMask(field.Scalar, markImportance)),
		}, nil
	}
	idx := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(field.Array.IndexWidth, atomic.Left.Index))
	elementMark := refin.FullMask(field.Array.Read(idx), markImportance)
	arrayMark, _ := arrdomain.BackwardRead(field.Array, idx, elementMark)
	return machine.MarkValuation{
		atomic.Left.Field: machine.ArrayMark(arrayMark),
	}, nil
}

// candidate is one refinement option found during Refine's backward
// walk: growing applies exactly the input-mark fields that would grow
// nodeID's input precision, at the given importance (the highest
// importance among those fields).
type candidate struct {
	nodeID     statespace.NodeID
	growing    machine.MarkValuation
	importance uint8
}

// growingCandidate reports which fields of inputMark would strictly grow
// node's input precision if applied, without mutating the table. Returns
// ok == false if none would.
func growingCandidate(table *precision.Table, node statespace.NodeID, inputMark machine.MarkValuation) (candidate, bool) {
	growing := machine.MarkValuation{}
	var importance uint8
	for name, mark := range inputMark {
		if mark.IsArray || !mark.Scalar.IsSet() {
			continue
		}
		if !table.WouldGrowInput(node, name, mark.Scalar) {
			continue
		}
		growing[name] = mark
		if mark.Scalar.Importance > importance {
			importance = mark.Scalar.Importance
		}
	}
	if len(growing) == 0 {
		return candidate{}, false
	}
	return candidate{nodeID: node, growing: growing, importance: importance}, true
}

// Refine walks culprit's entire path backward from its ending state once.
// At each predecessor it first tries to grow the decay precision (if
// enabled), regenerating and returning immediately on the first success.
// Otherwise it records the predecessor as an input-precision refinement
// candidate when the backward mark would grow it, tracking the candidate
// of greatest importance seen so far (ties won by the earliest
// predecessor, i.e. the one closest to the path's root, by virtue of
// being found later in this backward iteration). Only after the whole
// path has been walked is the best candidate applied and the affected
// subgraph regenerated. Returns false, with nothing applied, if the walk
// completes with no growing candidate -- a genuine incompleteness.
func (d *Driver) Refine(culprit *modelcheck.Culprit) (bool, error) {
	path := culprit.Path
	lastState, err := d.Space.StateByID(path[len(path)-1])
	if err != nil {
		return false, err
	}
	currentStateMark, err := initialCulpritMark(lastState, culprit.Atomic)
	if err != nil {
		return false, err
	}

	var best *candidate

	for i := len(path) - 1; i >= 0; i-- {
		hasPrevious := i > 0
		var previousNodeID statespace.NodeID
		var previousStateID statespace.StateID
		if hasPrevious {
			previousStateID = path[i-1]
			previousNodeID = statespace.NodeIDOf(previousStateID)
		} else {
			previousNodeID = statespace.NodeIDStart
		}

		if d.UseDecay {
			grewDecay := false
			for name, mark := range currentStateMark {
				if mark.IsArray {
					continue
				}
				if d.Table.ApplyDecayRefin(previousNodeID, name, mark.Scalar) {
					grewDecay = true
				}
			}
			if grewDecay {
				d.Regenerate(previousNodeID)
				return true, nil
			}
		}

		input, err := d.Space.RepresentativeInput(previousNodeID, statespace.NodeIDOf(path[i]))
		if err != nil {
			return false, err
		}

		var inputMark machine.MarkValuation
		var newStateMark machine.MarkValuation
		if hasPrevious {
			previousState, err := d.Space.StateByID(previousStateID)
			if err != nil {
				return false, err
			}
			newStateMark, inputMark = d.Machine.NextMark(previousState, input, currentStateMark)
		} else {
			inputMark = d.Machine.InitMark(input, currentStateMark)
		}

		if c, ok := growingCandidate(d.Table, previousNodeID, inputMark); ok {
			if best == nil || c.importance >= best.importance {
				best = &c
			}
		}

		if !hasPrevious {
			break
		}
		currentStateMark = newStateMark
	}

	if best == nil {
		return false, nil
	}
	for name, mark := range best.growing {
		d.Table.ApplyInputRefin(best.nodeID, name, mark.Scalar)
	}
	d.Regenerate(best.nodeID)
	return true, nil
}

// Regenerate rebuilds the outgoing edges of from and then, breadth-first,
// of every state newly allocated along the way, re-deriving each successor
// from the machine's forward facet under the current precision table;
// states that were already present keep their existing edges. The very
// first state space is built the same way, starting from
// statespace.NodeIDStart.
func (d *Driver) Regenerate(from statespace.NodeID) {
	queue := []statespace.NodeID{from}
	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]

		d.Space.ClearStep(nodeID)

		var currentState machine.Valuation
		hasState := false
		if stateID, ok := nodeID.StateID(); ok {
			s, err := d.Space.StateByID(stateID)
			if err == nil {
				currentState = s
				hasState = true
			}
		}

		inputs := d.Table.ProtoIter(nodeID, d.Machine.InputSchema())
		for _, input := range inputs {
			var result machine.StepResult
			if hasState {
				result = d.Machine.Next(currentState, input)
			} else {
				result = d.Machine.Init(input)
			}
			nextState := machine.WithPanic(result.Value, result.PanicCode)
			if d.UseDecay {
				d.Table.ForceDecay(nodeID, nextState)
			}
			nextID, added := d.Space.AddStep(nodeID, nextState, input)
			if added {
				queue = append(queue, statespace.NodeIDOf(nextID))
			}
		}
	}
}
