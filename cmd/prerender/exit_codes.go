package main

import (
	"errors"
	"os"

	prerender "github.com/hmorvan/go-mermaid-prerender"
	"github.com/hmorvan/go-mermaid-prerender/internal/config"
)

// Exit codes for the prerender CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126.
const (
	ExitSuccess  = 0 // All passes completed without failures
	ExitGeneral  = 1 // General error, including failed render tasks
	ExitUsage    = 2 // Invalid flags or configuration
	ExitIO       = 3 // Unreadable content tree or output directory
	ExitRenderer = 4 // Renderer binary missing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Renderer environment errors (exit 4)
	if errors.Is(err, prerender.ErrRendererNotFound) {
		return ExitRenderer
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrNoContentRoots) ||
		errors.Is(err, config.ErrNoThemes) ||
		errors.Is(err, config.ErrDuplicateTheme) ||
		errors.Is(err, config.ErrInvalidFormat) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, prerender.ErrInvalidFormat) ||
		errors.Is(err, prerender.ErrNoVariants) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
