package statespace

// MakeCompact performs a reachability sweep from the root, removing every
// unreachable state and its edges, then asserts left-totality (every
// remaining non-root node has at least one outgoing edge) and returns the
// retained set of state ids. It only actually sweeps once the live count
// has reached the current threshold, which then grows to
// max(previous, 3/2 * retained count).
func (sp *Space[I, S]) MakeCompact() (retained []StateID, swept bool) {
	if len(sp.stateByID) < sp.sweepThreshold {
		return sp.StateIDs(), false
	}

	reachable := sp.reachableFromRoot()

	for id := range sp.stateByID {
		if !reachable[NodeIDOf(id)] {
			delete(sp.stateByID, id)
		}
	}
	for key, id := range sp.idByKey {
		if _, ok := sp.stateByID[id]; !ok {
			delete(sp.idByKey, key)
		}
	}
	for node := range sp.outgoing {
		if !reachable[node] {
			delete(sp.outgoing, node)
		}
	}
	for node := range sp.incoming {
		if !reachable[node] {
			delete(sp.incoming, node)
			continue
		}
		filtered := sp.incoming[node][:0]
		for _, from := range sp.incoming[node] {
			if reachable[from] {
				filtered = append(filtered, from)
			}
		}
		sp.incoming[node] = filtered
	}

	retained = sp.StateIDs()
	for _, id := range retained {
		if len(sp.outgoing[NodeIDOf(id)]) == 0 {
			panic(ErrLeftTotalityViolated)
		}
	}

	n := len(retained)
	grown := n * 3 / 2
	if grown > sp.sweepThreshold {
		sp.sweepThreshold = grown
	}
	return retained, true
}

func (sp *Space[I, S]) reachableFromRoot() map[NodeID]bool {
	reachable := make(map[NodeID]bool)
	stack := []NodeID{NodeIDStart}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[node] {
			continue
		}
		reachable[node] = true
		for _, e := range sp.outgoing[node] {
			if !reachable[e.to] {
				stack = append(stack, e.to)
			}
		}
	}
	return reachable
}
