// Package refine drives one counterexample-guided refinement round: given
// a modelcheck.Culprit, it walks the culprit's state path backward,
// computing each predecessor's backward marks via the machine's Refin
// facet. Decay growth, when enabled, is applied and regenerated at the
// first predecessor where it grows; input-precision growth is only
// recorded per predecessor, and after the whole walk the candidate of
// greatest importance (ties to the one nearest the root) is applied to
// the precision table. It also owns Regenerate, the
// breadth-first state-space (re)construction every refinement round (and
// the very first run) shares.
package refine
