// Package precision holds, per node of the state-space graph, the input
// precision (which input bits get concretely enumerated versus left as a
// single symbolic unknown) and the decay precision (which resulting state
// bits get forcibly widened back to unknown after a transition). Missing
// entries resolve to the global empty precision: every input left fully
// symbolic, no decay.
package precision
