package modelcheck

import (
	"fmt"

	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/statespace"
)

// run is a two-valued model-checker over a single Tree, memoizing one
// labelling set (by node index) per subformula, exactly mirroring the
// node-at-a-time recursion of a classical CTL checker -- only the atomic
// case's truth value depends on optimistic, every Boolean/temporal
// combinator is plain two-valued set arithmetic.
type run struct {
	tree       *property.Tree
	space      Space
	optimistic bool
	labelling  []map[statespace.StateID]bool
	computed   []bool
}

func newRun(tree *property.Tree, space Space, optimistic bool) *run {
	n := len(tree.Nodes)
	return &run{
		tree:       tree,
		space:      space,
		optimistic: optimistic,
		labelling:  make([]map[statespace.StateID]bool, n),
		computed:   make([]bool, n),
	}
}

// labelled reports whether state id is labelled by subformula idx,
// computing (and memoizing) the whole subformula's labelling on first use.
func (r *run) labelled(idx int, id statespace.StateID) (bool, error) {
	set, err := r.labellingOf(idx)
	if err != nil {
		return false, err
	}
	return set[id], nil
}

func (r *run) labellingOf(idx int) (map[statespace.StateID]bool, error) {
	if r.computed[idx] {
		return r.labelling[idx], nil
	}
	node := r.tree.Nodes[idx]
	var (
		result map[statespace.StateID]bool
		err    error
	)
	switch node.Kind {
	case property.KindConst:
		result = map[statespace.StateID]bool{}
		if node.BoolValue {
			for _, id := range r.space.StateIDs() {
				result[id] = true
			}
		}
	case property.KindAtomic:
		result, err = r.labelAtomic(node)
	case property.KindNot:
		result, err = r.labelNot(node.A)
	case property.KindAnd:
		result, err = r.labelCombine(node.A, node.B, intersect)
	case property.KindOr:
		result, err = r.labelCombine(node.A, node.B, union)
	case property.KindEX:
		result, err = r.labelEX(node.A)
	case property.KindEG:
		result, err = r.labelEG(node.A)
	case property.KindEU:
		result, err = r.labelEU(node.A, node.B)
	default:
		err = fmt.Errorf("modelcheck: unrecognized node kind %d", node.Kind)
	}
	if err != nil {
		return nil, err
	}
	r.labelling[idx] = result
	r.computed[idx] = true
	return result, nil
}

func (r *run) labelAtomic(node property.Node) (map[statespace.StateID]bool, error) {
	result := map[statespace.StateID]bool{}
	for _, id := range r.space.StateIDs() {
		state, err := r.space.StateByID(id)
		if err != nil {
			return nil, err
		}
		value, err := node.Atomic.Eval(state)
		if err != nil {
			return nil, err
		}
		if property.Resolve(value, r.optimistic) {
			result[id] = true
		}
	}
	return result, nil
}

func (r *run) labelNot(inner int) (map[statespace.StateID]bool, error) {
	set, err := r.labellingOf(inner)
	if err != nil {
		return nil, err
	}
	result := map[statespace.StateID]bool{}
	for _, id := range r.space.StateIDs() {
		if !set[id] {
			result[id] = true
		}
	}
	return result, nil
}

func (r *run) labelCombine(a, b int, combine func(a, b map[statespace.StateID]bool) map[statespace.StateID]bool) (map[statespace.StateID]bool, error) {
	aSet, err := r.labellingOf(a)
	if err != nil {
		return nil, err
	}
	bSet, err := r.labellingOf(b)
	if err != nil {
		return nil, err
	}
	return combine(aSet, bSet), nil
}

func intersect(a, b map[statespace.StateID]bool) map[statespace.StateID]bool {
	out := map[statespace.StateID]bool{}
	for id := range a {
		if b[id] {
			out[id] = true
		}
	}
	return out
}

func union(a, b map[statespace.StateID]bool) map[statespace.StateID]bool {
	out := map[statespace.StateID]bool{}
	for id := range a {
		out[id] = true
	}
	for id := range b {
		out[id] = true
	}
	return out
}

// labelEX marks every direct predecessor of an inner-labelled state.
func (r *run) labelEX(inner int) (map[statespace.StateID]bool, error) {
	innerSet, err := r.labellingOf(inner)
	if err != nil {
		return nil, err
	}
	result := map[statespace.StateID]bool{}
	for id := range innerSet {
		for _, pred := range r.space.PredecessorNodeIDs(statespace.NodeIDOf(id)) {
			if predID, ok := pred.StateID(); ok {
				result[predID] = true
			}
		}
	}
	return result, nil
}

// labelEG is the SCC-based CheckEG procedure (Clarke, Grumberg & Peled
// 1999): seed with every state on a nontrivial strongly connected
// component (or self-loop) entirely within the inner labelling, then
// propagate backward across inner-labelled predecessors.
func (r *run) labelEG(inner int) (map[statespace.StateID]bool, error) {
	innerSet, err := r.labellingOf(inner)
	if err != nil {
		return nil, err
	}
	seed := r.space.NontrivialLabelledSCCs(innerSet)
	result := map[statespace.StateID]bool{}
	working := make([]statespace.StateID, 0, len(seed))
	for id := range seed {
		result[id] = true
		working = append(working, id)
	}
	for len(working) > 0 {
		id := working[len(working)-1]
		working = working[:len(working)-1]
		for _, pred := range r.space.PredecessorNodeIDs(statespace.NodeIDOf(id)) {
			predID, ok := pred.StateID()
			if !ok || !innerSet[predID] || result[predID] {
				continue
			}
			result[predID] = true
			working = append(working, predID)
		}
	}
	return result, nil
}

// labelEU is the worklist-based CheckEU procedure: start from every
// until-labelled state, then propagate backward across hold-labelled
// predecessors.
func (r *run) labelEU(hold, until int) (map[statespace.StateID]bool, error) {
	holdSet, err := r.labellingOf(hold)
	if err != nil {
		return nil, err
	}
	untilSet, err := r.labellingOf(until)
	if err != nil {
		return nil, err
	}
	result := map[statespace.StateID]bool{}
	working := make([]statespace.StateID, 0, len(untilSet))
	for id := range untilSet {
		result[id] = true
		working = append(working, id)
	}
	for len(working) > 0 {
		id := working[len(working)-1]
		working = working[:len(working)-1]
		for _, pred := range r.space.PredecessorNodeIDs(statespace.NodeIDOf(id)) {
			predID, ok := pred.StateID()
			if !ok || !holdSet[predID] || result[predID] {
				continue
			}
			result[predID] = true
			working = append(working, predID)
		}
	}
	return result, nil
}
