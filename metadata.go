package prerender

import (
	"regexp"
	"strings"
)

// skipToken is the only meaningful value for the "prerender" key: the literal
// token disabling pre-rendering. Any other value, or absence, means the
// diagram is rendered.
const skipToken = "false"

// Precompiled patterns for header parsing.
var (
	// Header delimiter: a line of three or more dashes.
	delimiterLine = regexp.MustCompile(`^-{3,}\s*$`)

	// Free-form key-value line inside the header.
	keyValueLine = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)\s*:\s*(.*)$`)
)

// ExtractMetadata splits a raw diagram block into its metadata and body.
//
// The block may begin with a header delimited by dash lines:
//
//	---
//	id: my-diagram
//	alt: Request flow
//	---
//	graph TD; A-->B
//
// Absence of a header is valid and yields zero metadata. A leading delimiter
// only counts as a header when a closing delimiter exists and every interior
// non-blank line is a key-value line; this keeps extraction idempotent, so
// re-extracting from an already-stripped body returns the body unchanged.
// Recognized keys: id, alt, caption, width, desc, prerender. First match wins
// per key; values are trimmed; unknown keys are ignored.
func ExtractMetadata(raw string) (Metadata, string) {
	var meta Metadata
	trimmed := strings.TrimSpace(raw)

	lines := strings.Split(trimmed, "\n")
	if len(lines) == 0 || !delimiterLine.MatchString(lines[0]) {
		return meta, trimmed
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if delimiterLine.MatchString(lines[i]) {
			end = i
			break
		}
	}
	if end < 0 || !isHeaderInterior(lines[1:end]) {
		return meta, trimmed
	}

	seen := map[string]bool{}
	for _, line := range lines[1:end] {
		m := keyValueLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		if seen[key] {
			continue
		}
		seen[key] = true
		value := strings.TrimSpace(m[2])
		switch key {
		case "id":
			meta.ID = value
		case "alt":
			meta.Alt = value
		case "caption":
			meta.Caption = value
		case "width":
			meta.Width = value
		case "desc":
			meta.Desc = value
		case "prerender":
			meta.Skip = value == skipToken
		}
	}

	body := strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
	return meta, body
}

// isHeaderInterior reports whether every non-blank line parses as key-value.
func isHeaderInterior(lines []string) bool {
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if !keyValueLine.MatchString(s) {
			return false
		}
	}
	return true
}
