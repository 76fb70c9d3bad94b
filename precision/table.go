package precision

import (
	"sort"

	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/refin"
	"github.com/vlath-eng/symcheck/statespace"
)

// InputPrecision is the input precision of a single node: one
// FieldPrecision per named input field.
type InputPrecision map[string]FieldPrecision

// DecayPrecision is the decay precision of a single node: one forced-
// unknown mask per named state field.
type DecayPrecision map[string]uint64

// Table holds the precision maps keyed by statespace.NodeID. Nodes
// without an entry resolve to the global empty precision (input fully
// unknown, no decay), as required by the spec.
type Table struct {
	input map[statespace.NodeID]InputPrecision
	decay map[statespace.NodeID]DecayPrecision
}

// New returns an empty precision table.
func New() *Table {
	return &Table{
		input: make(map[statespace.NodeID]InputPrecision),
		decay: make(map[statespace.NodeID]DecayPrecision),
	}
}

// Input returns node's input precision, or nil if absent (the caller
// should treat a missing field as FieldPrecision{} -- fully unknown).
func (t *Table) Input(node statespace.NodeID) InputPrecision {
	return t.input[node]
}

// Decay returns node's decay precision, or nil if absent (no decay).
func (t *Table) Decay(node statespace.NodeID) DecayPrecision {
	return t.decay[node]
}

// FieldOf looks up a single field's input precision at node, defaulting
// to the empty (fully unknown, unsplit) precision of width w.
func (ip InputPrecision) FieldOf(name string, w uint8) FieldPrecision {
	if ip == nil {
		return FieldPrecision{W: w}
	}
	if fp, ok := ip[name]; ok {
		return fp
	}
	return FieldPrecision{W: w}
}

// ApplyInputRefin applies mark to the named input field's precision at
// node. Returns true iff the precision strictly grew.
func (t *Table) ApplyInputRefin(node statespace.NodeID, name string, mark refin.Mark) bool {
	if !mark.IsSet() {
		return false
	}
	ip := t.input[node]
	if ip == nil {
		ip = InputPrecision{}
	}
	fp := ip.FieldOf(name, mark.W)
	newFP, grew := fp.ApplyRefin(mark)
	if !grew {
		return false
	}
	ip[name] = newFP
	t.input[node] = ip
	return true
}

// WouldGrowInput reports whether mark would strictly grow the named
// input field's precision at node, without applying it -- used to rank
// refinement candidates before committing to one.
func (t *Table) WouldGrowInput(node statespace.NodeID, name string, mark refin.Mark) bool {
	if !mark.IsSet() {
		return false
	}
	fp := t.input[node].FieldOf(name, mark.W)
	_, grew := fp.ApplyRefin(mark)
	return grew
}

// ApplyDecayRefin grows the named state field's decay mask at node by
// mark's set bits. Returns true iff the mask strictly grew.
func (t *Table) ApplyDecayRefin(node statespace.NodeID, name string, mark refin.Mark) bool {
	if !mark.IsSet() {
		return false
	}
	dp := t.decay[node]
	if dp == nil {
		dp = DecayPrecision{}
	}
	old := dp[name]
	newMask := old | mark.Bits
	if newMask == old {
		return false
	}
	dp[name] = newMask
	t.decay[node] = dp
	return true
}

// ForceDecay applies node's decay precision to state in place, widening
// every masked bit of every named scalar field to unknown. Array fields
// carry no decay precision (DecayPrecision is a flat per-field bitmask,
// which has no natural generalization to a variable-size sparse array) and
// are left untouched.
func (t *Table) ForceDecay(node statespace.NodeID, state machine.Valuation) {
	dp := t.decay[node]
	for name, mask := range dp {
		if mask == 0 {
			continue
		}
		f, ok := state[name]
		if !ok || f.IsArray {
			continue
		}
		f.Scalar.Zeros |= mask
		f.Scalar.Ones |= mask
		state[name] = f
	}
}

// ProtoIter enumerates every concrete abstract Input permitted by node's
// input precision, as a machine.Valuation per combination. schema gives
// the width of every named input field (including fields never yet
// refined, which stay fully unknown).
func (t *Table) ProtoIter(node statespace.NodeID, schema map[string]uint8) []machine.Valuation {
	ip := t.input[node]

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	options := make([][]bitvector.Abstract, len(names))
	for i, name := range names {
		fp := ip.FieldOf(name, schema[name])
		options[i] = fp.ProtoIter()
	}
	return cartesianValuations(names, options)
}

// cartesianValuations builds one machine.Valuation per combination of
// per-field options, varying the first name's option fastest -- matching
// FieldPrecision.ProtoIter's own lexicographic convention.
func cartesianValuations(names []string, options [][]bitvector.Abstract) []machine.Valuation {
	total := 1
	for _, opts := range options {
		if len(opts) == 0 {
			return nil
		}
		total *= len(opts)
	}
	out := make([]machine.Valuation, total)
	for combo := 0; combo < total; combo++ {
		v := make(machine.Valuation, len(names))
		rem := combo
		for i, name := range names {
			n := len(options[i])
			v[name] = machine.ScalarField(options[i][rem%n])
			rem /= n
		}
		out[combo] = v
	}
	return out
}

// RetainIndices deletes every node whose precision entries should no
// longer be kept (typically: not present in the retained state set after
// a garbage-collection sweep, plus the root, which is always retained).
func (t *Table) RetainIndices(keep func(statespace.NodeID) bool) {
	for node := range t.input {
		if !keep(node) {
			delete(t.input, node)
		}
	}
	for node := range t.decay {
		if !keep(node) {
			delete(t.decay, node)
		}
	}
}
