package modelcheck

import (
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/statespace"
)

// TriState is a state's three-valued labelling for one subformula: the
// combination of the optimistic and pessimistic two-valued runs.
type TriState int

const (
	TriFalse TriState = iota
	TriTrue
	TriUnknown
)

func (t TriState) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Checker computes both two-valued runs of a Tree over a Space and
// combines them per state into a three-valued labelling, feeding both
// Check's overall verdict and Deduce's culprit search.
type Checker struct {
	tree        *property.Tree
	space       Space
	optimistic  *run
	pessimistic *run
}

// NewChecker builds a Checker for tree over space. A Checker may serve
// repeated Check/Deduce calls while space is unchanged; its memoized
// labelling sets are never recomputed, so a fresh Checker is needed after
// every refinement round changes the space.
func NewChecker(tree *property.Tree, space Space) *Checker {
	return &Checker{
		tree:        tree,
		space:       space,
		optimistic:  newRun(tree, space, true),
		pessimistic: newRun(tree, space, false),
	}
}

func (c *Checker) stateLabel(idx int, id statespace.StateID) (TriState, error) {
	opt, err := c.optimistic.labelled(idx, id)
	if err != nil {
		return TriFalse, err
	}
	pes, err := c.pessimistic.labelled(idx, id)
	if err != nil {
		return TriFalse, err
	}
	switch {
	case opt && pes:
		return TriTrue, nil
	case !opt && !pes:
		return TriFalse, nil
	default:
		return TriUnknown, nil
	}
}

// Check reports whether the checker's Tree holds, fails, or is unknown
// across every initial state of its Space. A definite failure at any
// initial state outranks an unknown one elsewhere, since the property is
// conventionally required to hold in every initial state.
func (c *Checker) Check() (Verdict, error) {
	sawUnknown := false
	for _, id := range c.space.InitialIDs() {
		label, err := c.stateLabel(c.tree.Root, id)
		if err != nil {
			return VerdictUnknown, err
		}
		switch label {
		case TriFalse:
			return VerdictFails, nil
		case TriUnknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return VerdictUnknown, nil
	}
	return VerdictHolds, nil
}
