package prerender

import (
	"fmt"
	"io"
	"time"
)

// Summarize tallies task outcomes into a RunResult.
func Summarize(outcomes []TaskOutcome) RunResult {
	var result RunResult
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeRendered:
			result.Rendered++
		case OutcomeSkipped:
			result.Skipped++
		case OutcomeFailed:
			result.Failed++
		}
	}
	return result
}

// WriteReport prints per-task failures and the pass summary.
// Failures go to stderr with enough context to locate the offending diagram;
// the summary line is always written unless quiet is set, even when some
// tasks failed.
func WriteReport(outcomes []TaskOutcome, variant string, quiet, verbose bool, stdout, stderr io.Writer) RunResult {
	result := Summarize(outcomes)

	for _, o := range outcomes {
		switch {
		case o.Kind == OutcomeFailed:
			fmt.Fprintf(stderr, "FAILED %s (from %s): %v\n", o.Task.Filename, o.Task.SourceFile, o.Err)
		case quiet:
		case verbose && o.Kind == OutcomeRendered:
			fmt.Fprintf(stdout, "%s -> %s (%v)\n", o.Task.SourceFile, o.Task.OutputPath, o.Duration.Round(time.Millisecond))
		case verbose && o.Kind == OutcomeSkipped:
			fmt.Fprintf(stdout, "cached %s\n", o.Task.OutputPath)
		}
	}

	if !quiet {
		fmt.Fprintf(stdout, "[%s] %d rendered, %d skipped (cached), %d failed\n",
			variant, result.Rendered, result.Skipped, result.Failed)
	}
	return result
}
