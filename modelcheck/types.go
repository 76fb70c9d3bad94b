package modelcheck

import (
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/statespace"
)

// Space is the concrete state-space graph type the verification core
// builds: inputs and states are both machine.Valuations.
type Space = *statespace.Space[machine.Valuation, machine.Valuation]

// Verdict is the outcome of checking a property against every initial
// state of a Space.
type Verdict int

const (
	VerdictHolds Verdict = iota
	VerdictFails
	VerdictUnknown
)

func (v Verdict) String() string {
	switch v {
	case VerdictHolds:
		return "holds"
	case VerdictFails:
		return "fails"
	default:
		return "unknown"
	}
}
