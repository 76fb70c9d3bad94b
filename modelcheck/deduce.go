package modelcheck

import (
	"errors"
	"fmt"

	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/statespace"
)

// ErrNoUnknownState is returned by Deduce when Check's verdict was not
// Unknown, so no culprit path exists to find.
var ErrNoUnknownState = errors.New("modelcheck: no unknown initial state")

// Culprit names the exact reason an Unknown verdict came out unknown: a
// path of states from an initial state to the one where the responsible
// atomic property itself could not be resolved, plus that atomic
// property.
type Culprit struct {
	Path   []statespace.StateID
	Atomic property.AtomicProperty
}

// Deduce walks the three-valued labelling down from an unknown initial
// state to the atomic property and state path responsible, mirroring the
// recursive descent a refinement driver needs to select what to refine.
func (c *Checker) Deduce() (*Culprit, error) {
	for _, id := range c.space.InitialIDs() {
		label, err := c.stateLabel(c.tree.Root, id)
		if err != nil {
			return nil, err
		}
		if label == TriUnknown {
			return c.deduceEnd(c.tree.Root, []statespace.StateID{id})
		}
	}
	return nil, ErrNoUnknownState
}

func (c *Checker) deduceEnd(idx int, path []statespace.StateID) (*Culprit, error) {
	node := c.tree.Nodes[idx]
	switch node.Kind {
	case property.KindConst:
		return nil, fmt.Errorf("modelcheck: a constant can never be the unknown culprit")
	case property.KindAtomic:
		return &Culprit{Path: append([]statespace.StateID(nil), path...), Atomic: node.Atomic}, nil
	case property.KindNot:
		return c.deduceEnd(node.A, path)
	case property.KindAnd, property.KindOr:
		last := path[len(path)-1]
		aLabel, err := c.stateLabel(node.A, last)
		if err != nil {
			return nil, err
		}
		if aLabel == TriUnknown {
			return c.deduceEnd(node.A, path)
		}
		return c.deduceEnd(node.B, path)
	case property.KindEX:
		return c.deduceEX(node.A, path)
	case property.KindEG:
		return c.deduceEG(node.A, path)
	case property.KindEU:
		return c.deduceEU(node.A, node.B, path)
	default:
		return nil, fmt.Errorf("modelcheck: unrecognized node kind %d", node.Kind)
	}
}

// deduceEX lengthens path by a direct successor whose inner labelling is
// itself unknown.
func (c *Checker) deduceEX(inner int, path []statespace.StateID) (*Culprit, error) {
	last := path[len(path)-1]
	for _, succ := range c.space.SuccessorIDs(statespace.NodeIDOf(last)) {
		label, err := c.stateLabel(inner, succ)
		if err != nil {
			return nil, err
		}
		if label == TriUnknown {
			return c.deduceEnd(inner, appendPath(path, succ))
		}
	}
	return nil, fmt.Errorf("modelcheck: no EX culprit found from state %d", last)
}

// deduceEG breadth-first searches forward from the end of path: states
// where inner holds keep the search going, states where inner fails are
// dead ends (EG can never hold there, whatever happens beyond), and the
// first state where inner is unknown is where the culprit continues.
func (c *Checker) deduceEG(inner int, path []statespace.StateID) (*Culprit, error) {
	start := path[len(path)-1]
	queue := []statespace.StateID{start}
	backtrack := map[statespace.StateID]statespace.StateID{start: start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		label, err := c.stateLabel(inner, id)
		if err != nil {
			return nil, err
		}
		switch label {
		case TriTrue:
			for _, succ := range c.space.SuccessorIDs(statespace.NodeIDOf(id)) {
				if _, seen := backtrack[succ]; !seen {
					backtrack[succ] = id
					queue = append(queue, succ)
				}
			}
		case TriFalse:
			// nothing downstream can rescue EG here
		case TriUnknown:
			return c.deduceEnd(inner, appendPath(path, reconstructSuffix(backtrack, id, start)...))
		}
	}
	return nil, fmt.Errorf("modelcheck: no EG culprit found from state %d", start)
}

// deduceEU mirrors deduceEG, but a state is a dead end once hold is
// false or until is already true (either stops the search needing to go
// further, since the classical CheckEU labelling is already settled
// there), and the culprit is whichever of hold/until came out unknown.
func (c *Checker) deduceEU(hold, until int, path []statespace.StateID) (*Culprit, error) {
	start := path[len(path)-1]
	queue := []statespace.StateID{start}
	backtrack := map[statespace.StateID]statespace.StateID{start: start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		holdLabel, err := c.stateLabel(hold, id)
		if err != nil {
			return nil, err
		}
		untilLabel, err := c.stateLabel(until, id)
		if err != nil {
			return nil, err
		}
		if holdLabel == TriFalse || untilLabel == TriTrue {
			continue
		}
		if holdLabel != TriUnknown && untilLabel != TriUnknown {
			for _, succ := range c.space.SuccessorIDs(statespace.NodeIDOf(id)) {
				if _, seen := backtrack[succ]; !seen {
					backtrack[succ] = id
					queue = append(queue, succ)
				}
			}
			continue
		}
		fullPath := appendPath(path, reconstructSuffix(backtrack, id, start)...)
		if holdLabel == TriUnknown {
			return c.deduceEnd(hold, fullPath)
		}
		return c.deduceEnd(until, fullPath)
	}
	return nil, fmt.Errorf("modelcheck: no EU culprit found from state %d", start)
}

func appendPath(path []statespace.StateID, extra ...statespace.StateID) []statespace.StateID {
	out := make([]statespace.StateID, 0, len(path)+len(extra))
	out = append(out, path...)
	out = append(out, extra...)
	return out
}

func reconstructSuffix(backtrack map[statespace.StateID]statespace.StateID, from, start statespace.StateID) []statespace.StateID {
	var suffix []statespace.StateID
	cur := from
	for cur != start {
		suffix = append([]statespace.StateID{cur}, suffix...)
		cur = backtrack[cur]
	}
	return suffix
}
