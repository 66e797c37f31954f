package prerender

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

var testOutput = OutputConfig{Dir: "out", Format: FormatSVG}

func TestPlan_ExplicitIdentities(t *testing.T) {
	t.Parallel()

	// Two identical bodies with different explicit identities stay distinct.
	body := "graph TD; A-->B"
	blocks := []DiagramBlock{
		{Source: "---\nid: a\n---\n" + body, File: "docs/one.md", Locale: "en"},
		{Source: "---\nid: b\n---\n" + body, File: "docs/two.md", Locale: "en"},
	}

	tasks, err := Plan(blocks, ThemeVariant{Name: "default"}, testOutput)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Filename != "a-en.svg" || tasks[1].Filename != "b-en.svg" {
		t.Errorf("filenames = %q, %q, want a-en.svg, b-en.svg", tasks[0].Filename, tasks[1].Filename)
	}
	if tasks[0].OutputPath != filepath.Join("out", "a-en.svg") {
		t.Errorf("output path = %q, want %q", tasks[0].OutputPath, filepath.Join("out", "a-en.svg"))
	}
}

func TestPlan_SharedBodyAcrossLocales(t *testing.T) {
	t.Parallel()

	// The same body under two locales shares one identity but produces two
	// distinct filenames: identity is locale-independent, files are not.
	body := "graph TD; A-->B"
	blocks := []DiagramBlock{
		{Source: body, File: "docs/a.md", Locale: "en"},
		{Source: body, File: filepath.Join("i18n", "de", "docs", "a.md"), Locale: "de"},
	}

	tasks, err := Plan(blocks, ThemeVariant{Name: "default"}, testOutput)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Identity != tasks[1].Identity {
		t.Errorf("identities differ across locales: %q vs %q", tasks[0].Identity, tasks[1].Identity)
	}
	wantEN := tasks[0].Identity + "-en.svg"
	wantDE := tasks[0].Identity + "-de.svg"
	if tasks[0].Filename != wantEN || tasks[1].Filename != wantDE {
		t.Errorf("filenames = %q, %q, want %q, %q", tasks[0].Filename, tasks[1].Filename, wantEN, wantDE)
	}
}

func TestPlan_SkipFlag(t *testing.T) {
	t.Parallel()

	blocks := []DiagramBlock{
		{Source: "---\nprerender: false\n---\ngraph TD; A-->B", File: "docs/a.md", Locale: "en"},
	}

	tasks, err := Plan(blocks, ThemeVariant{Name: "default"}, testOutput)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks, want 0 for a skip-flagged diagram", len(tasks))
	}
}

func TestPlan_DedupIdenticalBodies(t *testing.T) {
	t.Parallel()

	// The same diagram reached twice collapses into one task.
	body := "graph TD; A-->B"
	blocks := []DiagramBlock{
		{Source: body, File: "docs/a.md", Locale: "en"},
		{Source: body, File: "docs/b.md", Locale: "en"},
	}

	tasks, err := Plan(blocks, ThemeVariant{Name: "default"}, testOutput)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].SourceFile != "docs/a.md" {
		t.Errorf("dedup kept %q, want first insertion docs/a.md", tasks[0].SourceFile)
	}
}

func TestPlan_CollisionFailsLoudly(t *testing.T) {
	t.Parallel()

	// Two different bodies forced onto one filename via the same explicit
	// identity: silently rendering only one would drop content.
	blocks := []DiagramBlock{
		{Source: "---\nid: dup\n---\ngraph TD; A-->B", File: "docs/a.md", Locale: "en"},
		{Source: "---\nid: dup\n---\ngraph TD; C-->D", File: "docs/b.md", Locale: "en"},
	}

	_, err := Plan(blocks, ThemeVariant{Name: "default"}, testOutput)
	if !errors.Is(err, ErrTaskCollision) {
		t.Fatalf("Plan() error = %v, want ErrTaskCollision", err)
	}
	for _, file := range []string{"docs/a.md", "docs/b.md"} {
		if !strings.Contains(err.Error(), file) {
			t.Errorf("error %q should name %s", err, file)
		}
	}
}

func TestPlan_VariantSuffix(t *testing.T) {
	t.Parallel()

	blocks := []DiagramBlock{
		{Source: "---\nid: d1\n---\ngraph TD; A-->B", File: "docs/a.md", Locale: "en"},
	}
	variant := ThemeVariant{Name: "dark", Theme: "dark", Suffix: "-dark"}
	out := OutputConfig{Dir: "out", Format: FormatPNG}

	tasks, err := Plan(blocks, variant, out)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Filename != "d1-en-dark.png" {
		t.Errorf("tasks = %+v, want one d1-en-dark.png", tasks)
	}
	if tasks[0].Variant != "dark" {
		t.Errorf("variant = %q, want dark", tasks[0].Variant)
	}
}

func TestPlan_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := Plan(nil, ThemeVariant{Name: "default"}, OutputConfig{Dir: "out", Format: "gif"})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Plan() error = %v, want ErrInvalidFormat", err)
	}
}

func TestPlan_DedupBound(t *testing.T) {
	t.Parallel()

	// Task count never exceeds the number of distinct (identity, locale,
	// variant) triples, and matches it exactly without collisions.
	blocks := []DiagramBlock{
		{Source: "graph TD; A-->B", File: "docs/a.md", Locale: "en"},
		{Source: "graph TD; A-->B", File: "docs/a.md", Locale: "de"},
		{Source: "graph TD; C-->D", File: "docs/b.md", Locale: "en"},
		{Source: "graph TD; A-->B", File: "docs/c.md", Locale: "en"},
	}

	tasks, err := Plan(blocks, ThemeVariant{Name: "default"}, testOutput)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("got %d tasks, want 3 distinct (identity, locale) pairs", len(tasks))
	}
}
