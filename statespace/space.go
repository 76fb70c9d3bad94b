package statespace

// Space is the abstract state-space graph described by the system this
// package reimplements: a directed graph over NodeIDStart plus live
// StateIDs, edges carrying a representative abstract input of type I, and
// states of type S interned by Key so that structurally-equal abstract
// states collapse onto a single vertex.
type Space[I any, S Keyed] struct {
	outgoing       map[NodeID][]edge[I]
	incoming       map[NodeID][]NodeID
	stateByID      map[StateID]S
	idByKey        map[string]StateID
	nextStateID    StateID
	sweepThreshold int
}

type edge[I any] struct {
	to    NodeID
	input I
}

// New returns an empty state space with no root edges.
func New[I any, S Keyed]() *Space[I, S] {
	return &Space[I, S]{
		outgoing:       make(map[NodeID][]edge[I]),
		incoming:       make(map[NodeID][]NodeID),
		stateByID:      make(map[StateID]S),
		idByKey:        make(map[string]StateID),
		nextStateID:    1,
		sweepThreshold: 32,
	}
}

// AddStep interns next (allocating a fresh StateID only if no equal state
// is already present) and records an edge from -> that state labelled
// with input, unless the edge already exists. Returns the resulting
// state's id and whether the state was newly allocated.
func (sp *Space[I, S]) AddStep(from NodeID, next S, input I) (StateID, bool) {
	id, isNew := sp.internState(next)
	sp.addEdge(from, NodeIDOf(id), input)
	return id, isNew
}

func (sp *Space[I, S]) internState(s S) (StateID, bool) {
	key := s.Key()
	if id, ok := sp.idByKey[key]; ok {
		return id, false
	}
	id := sp.nextStateID
	sp.nextStateID++
	sp.idByKey[key] = id
	sp.stateByID[id] = s
	return id, true
}

func (sp *Space[I, S]) addEdge(from, to NodeID, input I) {
	for _, e := range sp.outgoing[from] {
		if e.to == to {
			return
		}
	}
	sp.outgoing[from] = append(sp.outgoing[from], edge[I]{to: to, input: input})
	sp.incoming[to] = append(sp.incoming[to], from)
}

// ClearStep removes every outgoing edge of node, in preparation for
// regenerating it from its (possibly refined) precision.
func (sp *Space[I, S]) ClearStep(node NodeID) {
	for _, e := range sp.outgoing[node] {
		sp.incoming[e.to] = removeNodeID(sp.incoming[e.to], node)
	}
	delete(sp.outgoing, node)
}

func removeNodeID(list []NodeID, target NodeID) []NodeID {
	out := list[:0]
	for _, n := range list {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// RepresentativeInput returns the input labelling the edge from -> to.
func (sp *Space[I, S]) RepresentativeInput(from, to NodeID) (I, error) {
	for _, e := range sp.outgoing[from] {
		if e.to == to {
			return e.input, nil
		}
	}
	var zero I
	return zero, ErrNoSuchEdge
}

// StateByID returns the interned state for id.
func (sp *Space[I, S]) StateByID(id StateID) (S, error) {
	s, ok := sp.stateByID[id]
	if !ok {
		var zero S
		return zero, ErrNoSuchState
	}
	return s, nil
}

// ContainsState reports whether id is still live.
func (sp *Space[I, S]) ContainsState(id StateID) bool {
	_, ok := sp.stateByID[id]
	return ok
}

// NumStates returns the number of live states.
func (sp *Space[I, S]) NumStates() int { return len(sp.stateByID) }

// SuccessorIDs returns the direct successor state ids of node, in
// insertion (deterministic) order.
func (sp *Space[I, S]) SuccessorIDs(node NodeID) []StateID {
	edges := sp.outgoing[node]
	out := make([]StateID, 0, len(edges))
	for _, e := range edges {
		if id, ok := e.to.StateID(); ok {
			out = append(out, id)
		}
	}
	return out
}

// PredecessorNodeIDs returns the direct predecessors of node.
func (sp *Space[I, S]) PredecessorNodeIDs(node NodeID) []NodeID {
	return append([]NodeID(nil), sp.incoming[node]...)
}

// InitialIDs returns the root's direct successors: the initial states.
func (sp *Space[I, S]) InitialIDs() []StateID {
	return sp.SuccessorIDs(NodeIDStart)
}

// StateIDs returns every live state id, in ascending order.
func (sp *Space[I, S]) StateIDs() []StateID {
	ids := make([]StateID, 0, len(sp.stateByID))
	for id := range sp.stateByID {
		ids = append(ids, id)
	}
	return sortedStateIDs(ids)
}
