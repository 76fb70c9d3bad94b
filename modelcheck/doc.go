// Package modelcheck computes a three-valued verdict for a property.Tree
// over a statespace.Space: two classical two-valued runs, one resolving
// every unresolved atomic comparison optimistically (true) and one
// pessimistically (false), combined per state into Holds/Fails/Unknown.
// Holds iff both runs agree the property is true in every initial state;
// Fails iff both agree it is false in at least one initial state; Unknown
// otherwise, in which case
// Deduce walks the disagreement down to the atomic property and state
// path responsible.
package modelcheck
