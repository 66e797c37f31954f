package prerender

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hmorvan/go-mermaid-prerender/internal/fileutil"
)

// RunOptions configures a full pipeline run: one scan followed by one
// plan/execute pass per theme variant. All configuration is explicit; the
// caller owns the decision to run once per build.
type RunOptions struct {
	Scanner  Scanner
	Output   OutputConfig
	Variants []ThemeVariant

	Workers int    // 0 means ResolveWorkers default
	TempDir string // empty means a fresh directory under the OS temp root
	Force   bool   // bypass the output-existence cache

	// NewRenderer builds the renderer for a variant pass. When nil, a
	// MermaidCLI is built from the Renderer* fields below.
	NewRenderer func(ThemeVariant) Renderer

	RendererCommand    string
	RendererConfigFile string // optional base style-config, dropped with a warning if unreadable
	RendererArgs       []string
	RenderTimeout      time.Duration

	Quiet   bool
	Verbose bool
	Stdout  io.Writer // nil discards
	Stderr  io.Writer // nil discards
}

// PassResult is the summary of one theme-variant pass.
type PassResult struct {
	Variant string
	Result  RunResult
}

// Run scans the content tree once and renders every planned task, one pass
// per theme variant. Per-diagram failures are isolated and reported in the
// pass summaries; only environment-level failures (unreadable content tree,
// invalid configuration) return an error.
func Run(ctx context.Context, opts RunOptions) ([]PassResult, error) {
	if len(opts.Variants) == 0 {
		return nil, ErrNoVariants
	}
	if err := opts.Output.Validate(); err != nil {
		return nil, err
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	// An unreadable base style-config degrades gracefully: warn and render
	// without it.
	configFile := opts.RendererConfigFile
	if configFile != "" && !fileutil.FileExists(configFile) {
		fmt.Fprintf(stderr, "renderer config %s not found, continuing without it\n", configFile)
		configFile = ""
	}

	newRenderer := opts.NewRenderer
	if newRenderer == nil {
		newRenderer = func(v ThemeVariant) Renderer {
			return &MermaidCLI{
				Command:    opts.RendererCommand,
				Theme:      v.Theme,
				ConfigFile: configFile,
				ExtraArgs:  opts.RendererArgs,
				Timeout:    opts.RenderTimeout,
			}
		}
	}

	blocks, err := opts.Scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning content: %w", err)
	}

	if err := fileutil.EnsureDir(opts.Output.Dir); err != nil {
		return nil, err
	}

	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir, err = os.MkdirTemp("", "prerender-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp directory: %w", err)
		}
		defer os.RemoveAll(tempDir)
	} else if err := fileutil.EnsureDir(tempDir); err != nil {
		return nil, err
	}

	workers := ResolveWorkers(opts.Workers)

	var passes []PassResult
	for _, variant := range opts.Variants {
		tasks, err := Plan(blocks, variant, opts.Output)
		if err != nil {
			return passes, fmt.Errorf("planning %s pass: %w", variant.Name, err)
		}

		outcomes, err := Execute(ctx, tasks, ExecuteOptions{
			Workers:  workers,
			TempDir:  tempDir,
			Force:    opts.Force,
			Renderer: newRenderer(variant),
			Log:      stderr,
		})
		if err != nil {
			return passes, fmt.Errorf("executing %s pass: %w", variant.Name, err)
		}

		result := WriteReport(outcomes, variant.Name, opts.Quiet, opts.Verbose, stdout, stderr)
		passes = append(passes, PassResult{Variant: variant.Name, Result: result})
	}
	return passes, nil
}

// ResolvedConfig is the configuration bundle the markup transformer needs to
// compute image references. It is returned to the caller explicitly; nothing
// here is stored in ambient process state.
type ResolvedConfig struct {
	OutputDir     string
	DefaultLocale string
	Format        string
	Suffixes      map[string]string // variant name -> filename suffix
	DualTheme     bool              // more than one variant is rendered
	ActiveSuffix  string            // the suffix in use when DualTheme is false
}

// ResolveSite derives the collaborator-facing bundle from run options.
func ResolveSite(opts RunOptions) ResolvedConfig {
	resolved := ResolvedConfig{
		OutputDir:     opts.Output.Dir,
		DefaultLocale: opts.Scanner.DefaultLocale,
		Format:        opts.Output.Format,
		Suffixes:      make(map[string]string, len(opts.Variants)),
		DualTheme:     len(opts.Variants) > 1,
	}
	if resolved.DefaultLocale == "" {
		resolved.DefaultLocale = DefaultLocale
	}
	for _, v := range opts.Variants {
		resolved.Suffixes[v.Name] = v.Suffix
	}
	if !resolved.DualTheme && len(opts.Variants) == 1 {
		resolved.ActiveSuffix = opts.Variants[0].Suffix
	}
	return resolved
}
