package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	prerender "github.com/hmorvan/go-mermaid-prerender"
	"github.com/hmorvan/go-mermaid-prerender/internal/config"
	"github.com/hmorvan/go-mermaid-prerender/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidTimeout = errors.New("invalid render timeout")

	// ErrTasksFailed aggregates per-diagram render failures into a non-zero
	// exit without aborting any pass.
	ErrTasksFailed = errors.New("some diagrams failed to render")
)

// runPrerender orchestrates one build: load config, merge flags, run the
// pipeline once per theme variant.
func runPrerender(ctx context.Context, flags *runFlags, args []string, env *Environment) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q (all inputs come from flags or the config file)", args[0])
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := parseTimeout(flags.renderer.timeout, cfg.Renderer.TimeoutSec)
	if err != nil {
		return err
	}

	opts := prerender.RunOptions{
		Scanner: prerender.Scanner{
			SiteRoot:      cfg.Site.Root,
			ContentRoots:  cfg.Site.ContentRoots,
			I18nDir:       cfg.Site.I18nDir,
			DefaultLocale: cfg.Site.DefaultLocale,
			Log:           env.Stderr,
		},
		Output: prerender.OutputConfig{
			Dir:    cfg.Output.Dir,
			Format: cfg.Output.Format,
		},
		Variants:           variantsFromConfig(cfg),
		Workers:            cfg.Workers,
		TempDir:            cfg.TempDir,
		Force:              flags.force,
		RendererCommand:    cfg.Renderer.Command,
		RendererConfigFile: cfg.Renderer.ConfigFile,
		RendererArgs:       cfg.Renderer.ExtraArgs,
		RenderTimeout:      timeout,
		Quiet:              flags.common.quiet,
		Verbose:            flags.common.verbose,
		Stdout:             env.Stdout,
		Stderr:             env.Stderr,
	}

	if flags.dryRun {
		return dryRun(ctx, opts, env)
	}

	passes, err := prerender.Run(ctx, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, p := range passes {
		failed += p.Result.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d", ErrTasksFailed, failed)
	}
	return nil
}

// loadConfig loads the config from an explicit path, falls back to
// prerender.yaml in the working directory, or returns defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	if fileutil.FileExists(config.DefaultConfigFile) {
		cfg, err := config.LoadConfig(config.DefaultConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// mergeFlags overlays CLI flags onto the config. CLI wins.
func mergeFlags(flags *runFlags, cfg *config.Config) {
	if flags.site.root != "" {
		cfg.Site.Root = flags.site.root
	}
	if len(flags.site.contentRoots) > 0 {
		cfg.Site.ContentRoots = flags.site.contentRoots
	}
	if flags.site.i18nDir != "" {
		cfg.Site.I18nDir = flags.site.i18nDir
	}
	if flags.site.locale != "" {
		cfg.Site.DefaultLocale = flags.site.locale
	}
	if flags.output.dir != "" {
		cfg.Output.Dir = flags.output.dir
	}
	if flags.output.format != "" {
		cfg.Output.Format = flags.output.format
	}
	if flags.renderer.command != "" {
		cfg.Renderer.Command = flags.renderer.command
	}
	if flags.renderer.configFile != "" {
		cfg.Renderer.ConfigFile = flags.renderer.configFile
	}
	if len(flags.renderer.extraArgs) > 0 {
		cfg.Renderer.ExtraArgs = flags.renderer.extraArgs
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
}

// variantsFromConfig maps theme config entries to library variants.
func variantsFromConfig(cfg *config.Config) []prerender.ThemeVariant {
	variants := make([]prerender.ThemeVariant, 0, len(cfg.Themes))
	for _, t := range cfg.Themes {
		variants = append(variants, prerender.ThemeVariant{
			Name:   t.Name,
			Theme:  t.Theme,
			Suffix: t.Suffix,
		})
	}
	return variants
}

// parseTimeout resolves the per-render timeout: the flag wins over the
// config's timeoutSec.
func parseTimeout(flagValue string, configSec int) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if configSec > 0 {
		return time.Duration(configSec) * time.Second, nil
	}
	return 0, nil
}

// dryRun scans and plans every pass, listing the tasks that would run
// without touching the renderer or the output directory.
func dryRun(ctx context.Context, opts prerender.RunOptions, env *Environment) error {
	blocks, err := opts.Scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scanning content: %w", err)
	}

	for _, variant := range opts.Variants {
		tasks, err := prerender.Plan(blocks, variant, opts.Output)
		if err != nil {
			return fmt.Errorf("planning %s pass: %w", variant.Name, err)
		}
		for _, t := range tasks {
			cached := ""
			if !opts.Force && fileutil.FileExists(t.OutputPath) {
				cached = " (cached)"
			}
			fmt.Fprintf(env.Stdout, "%s <- %s%s\n", t.OutputPath, t.SourceFile, cached)
		}
		if !opts.Quiet {
			fmt.Fprintf(env.Stdout, "[%s] %d tasks planned\n", variant.Name, len(tasks))
		}
	}
	return nil
}
