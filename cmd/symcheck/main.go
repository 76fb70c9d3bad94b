// Command symcheck is the CLI driver for the verification core: it checks
// one or more CTL properties against a named built-in system, dispatching
// independent property checks to a worker pool since each check owns its
// own single-threaded engine instance (see package verify).
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vlath-eng/symcheck/examples/counter"
	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/modelcheck"
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/verify"
)

// inherentProperty is checked when no property string is supplied, per the
// invocation contract's "absent property" default.
const inherentProperty = "AG[__panic == 0]"

// Exit codes for the error taxonomy the invocation contract names; 0 means
// the check ran to completion regardless of whether the property holds or
// fails -- only a framework-level error is a non-zero exit.
const (
	exitSuccess = iota
	exitIncomplete
	exitFieldNotFound
	exitPropertyNotParseable
	exitSignednessNotEstablished
	exitIO
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "symcheck",
		Short: "symcheck — CTL model checker over abstract, three-valued state machines",
	}

	var scenarioName string
	var workers int
	var verbose bool
	var interactive bool
	var useDecay bool

	checkCmd := &cobra.Command{
		Use:   "check [property...]",
		Short: "Check one or more CTL properties against a named system",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenarioByName(scenarioName)
			if err != nil {
				return err
			}

			props, err := collectProperties(args, interactive, cmd.InOrStdin())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				os.Exit(exitIO)
			}

			opts := verify.Options{UseDecay: useDecay}
			results := runChecks(sc, props, opts, workers, verbose)

			code := exitSuccess
			for _, r := range results {
				fmt.Printf("%s: %s\n", r.property, r.summary())
				if r.err != nil && code == exitSuccess {
					code = exitCodeFor(r.err)
				}
			}
			if code != exitSuccess {
				os.Exit(code)
			}
			return nil
		},
	}
	checkCmd.Flags().StringVar(&scenarioName, "scenario", "trivial-safe", "built-in system to check (see 'symcheck info')")
	checkCmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent property checks (0 = NumCPU)")
	checkCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-property timing and refinement counts")
	checkCmd.Flags().BoolVar(&interactive, "interactive", false, "read properties one per line from stdin instead of args")
	checkCmd.Flags().BoolVar(&useDecay, "decay", true, "grow decay precision ahead of input precision during refinement")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "List the built-in systems and their seed properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, sc := range counter.Scenarios() {
				fmt.Printf("%-16s %-20s %s\n", sc.Name, sc.Property, sc.Summary)
			}
			return nil
		},
	}

	rootCmd.AddCommand(checkCmd, infoCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitIO)
	}
}

func scenarioByName(name string) (counter.Scenario, error) {
	for _, sc := range counter.Scenarios() {
		if sc.Name == name {
			return sc, nil
		}
	}
	return counter.Scenario{}, fmt.Errorf("unknown scenario %q (see 'symcheck info')", name)
}

// collectProperties returns the property strings to check: one per
// positional arg in batch mode, or one per stdin line (blank lines
// skipped) in interactive mode. Absent either, the inherent property is
// the sole job.
func collectProperties(args []string, interactive bool, stdin io.Reader) ([]string, error) {
	if interactive {
		var props []string
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			props = append(props, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading properties from stdin: %w", err)
		}
		if len(props) == 0 {
			props = []string{inherentProperty}
		}
		return props, nil
	}
	if len(args) == 0 {
		return []string{inherentProperty}, nil
	}
	return args, nil
}

// checkResult is one property's outcome: a parse/verification error, or a
// definite verdict plus the stats the loop collected along the way.
type checkResult struct {
	property string
	verdict  modelcheck.Verdict
	stats    verify.Stats
	err      error
}

func (r checkResult) summary() string {
	if r.err != nil {
		return fmt.Sprintf("error: %v", r.err)
	}
	return fmt.Sprintf("%s (states=%d, refinements=%d, %s)",
		r.verdict, r.stats.NumStates, r.stats.NumRefinements, r.stats.Elapsed.Round(time.Microsecond))
}

// runChecks dispatches one verification job per property across a worker
// pool, each job building its own machine.Machine value and its own
// Verifier so no mutable state crosses goroutines.
func runChecks(sc counter.Scenario, props []string, opts verify.Options, workers int, verbose bool) []checkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(props) {
		workers = len(props)
	}

	results := make([]checkResult, len(props))
	jobs := make(chan int, len(props))
	for i := range props {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(sc, props[i], opts, verbose)
			}
		}()
	}
	wg.Wait()
	return results
}

func runOne(sc counter.Scenario, propSrc string, opts verify.Options, verbose bool) checkResult {
	start := time.Now()
	tree, err := property.Parse(propSrc)
	if err != nil {
		return checkResult{property: propSrc, err: err}
	}

	v := verify.New(sc.Machine, opts)
	verdict, err := v.Check(tree)
	if verbose {
		log.Printf("scenario=%s property=%q verdict=%s elapsed=%s", sc.Name, propSrc, verdict, time.Since(start))
	}
	if err != nil {
		return checkResult{property: propSrc, err: err}
	}
	return checkResult{property: propSrc, verdict: verdict, stats: v.Stats()}
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, verify.ErrIncomplete):
		return exitIncomplete
	case errors.Is(err, machine.ErrFieldNotFound):
		return exitFieldNotFound
	case errors.Is(err, property.ErrSyntax):
		return exitPropertyNotParseable
	case errors.Is(err, machine.ErrSignednessNotEstablished), errors.Is(err, property.ErrSignednessNotEstablished):
		return exitSignednessNotEstablished
	default:
		return exitIO
	}
}
