package prerender

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hmorvan/go-mermaid-prerender/internal/fileutil"
)

// MinWorkers ensures at least one render slot.
const MinWorkers = 1

// tempExtension is appended to the temp input filename handed to the
// renderer.
const tempExtension = ".mmd"

// ExecuteOptions configures one batch execution.
type ExecuteOptions struct {
	// Workers bounds concurrent in-flight renders. Values below 1 are
	// raised to MinWorkers.
	Workers int

	// TempDir receives the per-task input files. Must exist.
	TempDir string

	// Force bypasses the output-existence cache and re-renders everything.
	Force bool

	// Renderer is the injected external rendering capability. Required.
	Renderer Renderer

	// Log receives non-fatal notices (temp cleanup failures); nil discards.
	Log io.Writer
}

// Execute runs the render tasks under a bounded worker pool and returns one
// outcome per task, index-aligned with the input.
//
// Each task independently checks the output-existence cache, writes its temp
// input, invokes the renderer, and cleans up. A failing render is recorded
// on its outcome and never aborts the batch. The pool drains to completion
// for every admitted task; tasks not yet started when ctx dies are recorded
// as failed with the context error.
func Execute(ctx context.Context, tasks []RenderTask, opts ExecuteOptions) ([]TaskOutcome, error) {
	if opts.Renderer == nil {
		return nil, ErrNilRenderer
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	workers := opts.Workers
	if workers < MinWorkers {
		workers = MinWorkers
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	// One outcome slot per task: each index has a single writer, so no
	// locking is needed around the accumulation.
	outcomes := make([]TaskOutcome, len(tasks))
	jobs := make(chan int, len(tasks))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					outcomes[idx] = TaskOutcome{Task: tasks[idx], Kind: OutcomeFailed, Err: err}
					continue
				}
				outcomes[idx] = runTask(ctx, tasks[idx], opts)
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return outcomes, nil
}

// runTask executes a single render task: cache check, temp input write,
// renderer invocation, cleanup.
func runTask(ctx context.Context, task RenderTask, opts ExecuteOptions) TaskOutcome {
	start := time.Now()
	outcome := TaskOutcome{Task: task}

	if !opts.Force && fileutil.FileExists(task.OutputPath) {
		outcome.Kind = OutcomeSkipped
		outcome.Duration = time.Since(start)
		return outcome
	}

	// The temp filename derives from the output filename, which planning
	// already made unique across tasks, so no two tasks share an input file.
	inputPath := filepath.Join(opts.TempDir, task.Filename+tempExtension)
	if err := fileutil.WriteFile(inputPath, task.Body); err != nil {
		outcome.Kind = OutcomeFailed
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}

	err := opts.Renderer.Render(ctx, inputPath, task.OutputPath)

	// Cleanup happens regardless of render outcome and never changes the
	// task's classification.
	if rmErr := os.Remove(inputPath); rmErr != nil {
		logf(opts.Log, "cleanup: removing %s: %v\n", inputPath, rmErr)
	}

	if err != nil {
		outcome.Kind = OutcomeFailed
		outcome.Err = fmt.Errorf("rendering %s: %w", task.Filename, err)
	} else {
		outcome.Kind = OutcomeRendered
	}
	outcome.Duration = time.Since(start)
	return outcome
}

func logf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// ResolveWorkers determines the worker pool size.
// An explicit positive value takes priority; otherwise the pool matches the
// available parallelism (GOMAXPROCS, adjusted by automaxprocs in the CLI).
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	if n := runtime.GOMAXPROCS(0); n > MinWorkers {
		return n
	}
	return MinWorkers
}
