package statespace

import "errors"

// Sentinel errors for state-space graph operations.
var (
	// ErrNoSuchEdge indicates representative_input was asked for a pair of
	// nodes with no edge between them.
	ErrNoSuchEdge = errors.New("statespace: no edge between given nodes")

	// ErrNoSuchState indicates an operation referenced a state id that is
	// not (or no longer) present in the graph.
	ErrNoSuchState = errors.New("statespace: state id not present")

	// ErrLeftTotalityViolated is raised by MakeCompact as a fatal internal
	// assertion failure: a retained non-root node ended up with zero
	// outgoing edges, which should never happen if every node was fully
	// regenerated before compaction.
	ErrLeftTotalityViolated = errors.New("statespace: left-totality violated after compaction")
)
