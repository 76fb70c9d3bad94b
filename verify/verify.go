package verify

import (
	"errors"
	"fmt"
	"time"

	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/modelcheck"
	"github.com/vlath-eng/symcheck/precision"
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/refine"
	"github.com/vlath-eng/symcheck/statespace"
)

// ErrIncomplete is returned when a property's verdict stays Unknown even
// after its culprit's precision can no longer be grown: a genuine
// modelling incompleteness, not a bug in the refinement loop.
var ErrIncomplete = errors.New("verify: property verdict stays unknown after exhausting refinement")

// Stats summarizes a Verifier's running counters for reporting.
type Stats struct {
	NumStates      int
	NumRefinements int
	Elapsed        time.Duration
}

// Options configures a Verifier. The zero value disables decay growth;
// DefaultOptions enables it.
type Options struct {
	// UseDecay enables decay-precision growth ahead of input-precision
	// growth in every refinement round (refine.Driver.Refine). Default
	// true, mirroring the reference driver's use_decay knob.
	UseDecay bool
}

// DefaultOptions returns the conventional configuration: decay growth
// enabled.
func DefaultOptions() Options {
	return Options{UseDecay: true}
}

// Verifier owns the shared state space, precision table and refinement
// driver across every property checked against one machine.
type Verifier struct {
	driver         *refine.Driver
	space          modelcheck.Space
	numRefinements int
	started        time.Time
}

// New builds a Verifier and generates the initial, unrefined state space.
func New(m machine.Machine, opts Options) *Verifier {
	table := precision.New()
	space := statespace.New[machine.Valuation, machine.Valuation]()
	driver := refine.NewDriver(table, space, m, opts.UseDecay)
	driver.Regenerate(statespace.NodeIDStart)
	return &Verifier{driver: driver, space: space, started: timeNow()}
}

// timeNow exists so tests can observe that Elapsed is populated without
// depending on wall-clock granularity.
var timeNow = time.Now

// Check runs the CEGAR loop for tree to a definite verdict, refining and
// regenerating as needed. It returns an error wrapping ErrIncomplete, whose
// message names the final culprit's atomic property, if a refinement round
// can no longer grow any precision.
func (v *Verifier) Check(tree *property.Tree) (modelcheck.Verdict, error) {
	for {
		checker := modelcheck.NewChecker(tree, v.space)
		verdict, err := checker.Check()
		if err != nil {
			return modelcheck.VerdictUnknown, err
		}
		if verdict != modelcheck.VerdictUnknown {
			return verdict, nil
		}

		culprit, err := checker.Deduce()
		if err != nil {
			return modelcheck.VerdictUnknown, err
		}
		grew, err := v.driver.Refine(culprit)
		if err != nil {
			return modelcheck.VerdictUnknown, err
		}
		if !grew {
			return modelcheck.VerdictUnknown, fmt.Errorf("%w: %s", ErrIncomplete, culprit.Atomic)
		}
		v.numRefinements++

		v.collectGarbage()
	}
}

func (v *Verifier) collectGarbage() {
	retained, swept := v.space.MakeCompact()
	if !swept {
		return
	}
	keep := make(map[statespace.StateID]bool, len(retained))
	for _, id := range retained {
		keep[id] = true
	}
	v.driver.Table.RetainIndices(func(node statespace.NodeID) bool {
		id, ok := node.StateID()
		if !ok {
			return true
		}
		return keep[id]
	})
}

// Stats reports the Verifier's running counters.
func (v *Verifier) Stats() Stats {
	return Stats{
		NumStates:      v.space.NumStates(),
		NumRefinements: v.numRefinements,
		Elapsed:        timeNow().Sub(v.started),
	}
}
