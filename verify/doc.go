// Package verify drives the outer counterexample-guided verification
// loop: regenerate the state space from scratch, then alternate
// model-checking and refinement until a definite verdict is reached or a
// refinement round can no longer grow any precision, with a
// garbage-collection pass after every refinement round; the pass sweeps
// (and trims the precision table to match) only once the live-state count
// has reached the compaction threshold.
package verify
