// Package refin implements the backward ("refinement") counterpart of
// every forward operator in bitvector: given abstract inputs and a later
// mark (the output bits that matter to the refinement goal), each backward
// operator computes an earlier mark per input -- a subset of that input's
// unknown bits that could influence the marked output bits.
//
// Each backward operator is a plain exported function named after its
// forward counterpart (BackwardAdd for Abstract.Add, and so on), not a
// method dispatched through an open type hierarchy; a machine's NextMark
// calls them directly, and there is no operator-tag table.
package refin
