// Package property represents Computation Tree Logic formulae over a
// system's named fields and parses them from the bracketed surface syntax
// (AG[...], E[... U ...], name[idx] == 3, ...).
//
// Every formula is folded at parse time into a small primitive set --
// constants, atomic comparisons, negation, conjunction, disjunction, and
// the three temporal primitives EX, EG, EU -- stored as an arena of Nodes
// referencing each other by index rather than as a pointer tree. The
// richer combinators (AX, EF, AG, AF, A[.. U ..], E[.. R ..], A[.. R ..])
// are sugar, expanded into the primitive set by the standard CTL duality
// identities during parsing; a model checker only ever needs to evaluate
// the eight primitive Kinds.
package property
