package prerender

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoVariants    = errors.New("no theme variants configured")
	ErrNilRenderer   = errors.New("renderer cannot be nil")
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrTaskCollision reports two diagrams with different bodies mapping to
	// the same output filename. Rendering only one of them would silently
	// drop content, so planning fails instead.
	ErrTaskCollision = errors.New("output filename collision")

	// ErrRendererNotFound indicates the external renderer binary is missing.
	ErrRendererNotFound = errors.New("renderer command not found")
)
