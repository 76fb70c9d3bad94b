package machine

import "github.com/vlath-eng/symcheck/panicres"

// StepResult is the whole-state counterpart of panicres.Result[Valuation]:
// every system's Abstract facet returns one from Init and Next.
type StepResult = panicres.Result[Valuation]

// Abstract is the forward facet a system under verification implements:
// pure functions from (abstract) input and prior state to a next abstract
// state, each capable of reporting a panic.
type Abstract interface {
	Init(input Valuation) StepResult
	Next(state, input Valuation) StepResult
}

// Refin is the backward facet: given the same input/state the forward
// step was computed from and a mark on the later state (the bits of the
// result that matter to the refinement goal), compute the marks on each
// earlier value that could have influenced them.
type Refin interface {
	// InitMark returns the input mark for Init.
	InitMark(input Valuation, laterStateMark MarkValuation) (inputMark MarkValuation)
	// NextMark returns the earlier-state mark and input mark for Next.
	NextMark(state, input Valuation, laterStateMark MarkValuation) (earlierStateMark, inputMark MarkValuation)
}

// Schema describes the width of every named input field a Machine
// expects, used to drive precision.Table.ProtoIter.
type Schema map[string]uint8

// Machine bundles a system's abstract and refinement facets together
// with its input schema -- the complete contract the verification core
// consumes from a system description.
type Machine interface {
	Abstract
	Refin
	InputSchema() Schema
}
