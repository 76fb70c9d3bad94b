package statespace

import "strconv"

// StateID identifies a live abstract state. Ids are allocated once, in
// increasing order starting at 1, and are never reused within a
// verification run even across garbage collection.
type StateID uint64

// NodeID identifies any vertex of the state-space graph: either the
// distinguished root (NodeIDStart) or a live state, via its StateID.
type NodeID int64

// NodeIDStart is the graph's root vertex. It is distinct from every
// NodeID derived from a StateID, since state ids start at 1.
const NodeIDStart NodeID = 0

// NodeIDOf converts a StateID to the NodeID that denotes it in the graph.
func NodeIDOf(id StateID) NodeID { return NodeID(id) }

// StateID extracts the underlying state id, returning ok=false for the
// root node.
func (n NodeID) StateID() (StateID, bool) {
	if n == NodeIDStart {
		return 0, false
	}
	return StateID(n), true
}

func (n NodeID) String() string {
	if n == NodeIDStart {
		return "root"
	}
	id, _ := n.StateID()
	return "state#" + strconv.FormatUint(uint64(id), 10)
}
