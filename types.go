package prerender

import (
	"fmt"
	"strings"
	"time"
)

// Output format constants.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DiagramBlock is one fenced diagram found by the scanner.
type DiagramBlock struct {
	Source string // raw block content, possibly starting with a metadata header
	File   string // path relative to the site root, for diagnostics
	Locale string
}

// Metadata holds the recognized keys of a diagram's optional header block.
// Absent keys are empty strings; no defaulting happens at this layer.
type Metadata struct {
	ID      string // explicit identity override
	Alt     string
	Caption string
	Width   string
	Desc    string // description reference
	Skip    bool   // true when the header carries "prerender: false"
}

// ThemeVariant names one rendering style. Each variant produces a separate
// output file per diagram per locale.
type ThemeVariant struct {
	Name   string // variant name, e.g. "default" or "dark"
	Theme  string // theme passed to the external renderer
	Suffix string // output filename suffix, e.g. "" or "-dark"
}

// OutputConfig describes where and how rendered images are written.
type OutputConfig struct {
	Dir    string // output directory
	Format string // "svg" or "png"
}

// Validate checks the output format.
func (o OutputConfig) Validate() error {
	switch strings.ToLower(o.Format) {
	case FormatSVG, FormatPNG:
		return nil
	}
	return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidFormat, o.Format, FormatSVG, FormatPNG)
}

// RenderTask is one planned invocation of the external renderer.
type RenderTask struct {
	Identity   string
	Locale     string
	Variant    string // theme variant name
	Filename   string // {identity}-{locale}{suffix}.{format}
	OutputPath string
	Body       string // diagram source with metadata header stripped
	SourceFile string // originating content file, for diagnostics
}

// OutcomeKind classifies how a task ended.
type OutcomeKind int

const (
	OutcomeRendered OutcomeKind = iota
	OutcomeSkipped              // output already existed (cache hit)
	OutcomeFailed
)

// String returns the lowercase name of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRendered:
		return "rendered"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// TaskOutcome holds the result of executing a single task.
type TaskOutcome struct {
	Task     RenderTask
	Kind     OutcomeKind
	Err      error // set when Kind == OutcomeFailed
	Duration time.Duration
}

// RunResult aggregates task outcomes for one theme-variant pass.
type RunResult struct {
	Rendered int
	Skipped  int
	Failed   int
}

// Total returns the number of tasks counted.
func (r RunResult) Total() int {
	return r.Rendered + r.Skipped + r.Failed
}
