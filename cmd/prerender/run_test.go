package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hmorvan/go-mermaid-prerender/internal/config"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	flags := &runFlags{
		site: siteFlags{
			root:         "site",
			contentRoots: []string{"guides"},
			locale:       "de",
		},
		output:   outputFlags{dir: "imgs", format: "png"},
		renderer: rendererFlags{command: "custom-mmdc", extraArgs: []string{"-b", "white"}},
		workers:  6,
	}

	mergeFlags(flags, cfg)

	if cfg.Site.Root != "site" || cfg.Site.DefaultLocale != "de" {
		t.Errorf("site = %+v", cfg.Site)
	}
	if len(cfg.Site.ContentRoots) != 1 || cfg.Site.ContentRoots[0] != "guides" {
		t.Errorf("content roots = %v", cfg.Site.ContentRoots)
	}
	if cfg.Output.Dir != "imgs" || cfg.Output.Format != "png" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Renderer.Command != "custom-mmdc" {
		t.Errorf("renderer = %+v", cfg.Renderer)
	}
	if cfg.Workers != 6 {
		t.Errorf("workers = %d", cfg.Workers)
	}
}

func TestMergeFlags_EmptyFlagsKeepConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Site.Root = "from-config"
	cfg.Workers = 2

	mergeFlags(&runFlags{}, cfg)

	if cfg.Site.Root != "from-config" || cfg.Workers != 2 {
		t.Errorf("config overwritten by empty flags: %+v", cfg)
	}
}

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flagValue string
		configSec int
		want      time.Duration
		wantErr   error
	}{
		{name: "flag wins", flagValue: "45s", configSec: 10, want: 45 * time.Second},
		{name: "config fallback", configSec: 30, want: 30 * time.Second},
		{name: "disabled", want: 0},
		{name: "invalid flag", flagValue: "soon", wantErr: ErrInvalidTimeout},
		{name: "negative flag", flagValue: "-1s", wantErr: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseTimeout(tt.flagValue, tt.configSec)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("timeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfig_ExplicitPathRequired(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("loadConfig() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if cfg.Renderer.Command != "mmdc" {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestRunPrerender_RejectsPositionalArgs(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	err := runPrerender(context.Background(), &runFlags{}, []string{"docs"}, env)
	if err == nil || !strings.Contains(err.Error(), "unexpected argument") {
		t.Fatalf("error = %v, want unexpected-argument failure", err)
	}
}

func TestRunPrerender_DryRun(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	writeFile(t, site, "docs/a.md", "```mermaid\n---\nid: d1\n---\ngraph TD; A-->B\n```\n")

	flags := &runFlags{
		site: siteFlags{
			root:         site,
			contentRoots: []string{"docs"},
		},
		output: outputFlags{dir: filepath.Join(site, "out")},
		dryRun: true,
	}

	env, stdout, _ := testEnv()
	if err := runPrerender(context.Background(), flags, nil, env); err != nil {
		t.Fatalf("runPrerender() error = %v", err)
	}

	if !strings.Contains(stdout.String(), "d1-en.svg") {
		t.Errorf("stdout = %q, want the planned filename listed", stdout.String())
	}
	if !strings.Contains(stdout.String(), "1 tasks planned") {
		t.Errorf("stdout = %q, want a plan summary", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(site, "out")); !os.IsNotExist(err) {
		t.Error("dry run must not create the output directory")
	}
}

func TestRunPrerender_FailedTasksSurface(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	writeFile(t, site, "docs/a.md", "```mermaid\ngraph TD; A-->B\n```\n")

	flags := &runFlags{
		site: siteFlags{
			root:         site,
			contentRoots: []string{"docs"},
		},
		output:   outputFlags{dir: filepath.Join(site, "out")},
		renderer: rendererFlags{command: "prerender-test-no-such-binary"},
	}

	env, _, stderr := testEnv()
	err := runPrerender(context.Background(), flags, nil, env)
	if !errors.Is(err, ErrTasksFailed) {
		t.Fatalf("error = %v, want ErrTasksFailed", err)
	}
	if !strings.Contains(stderr.String(), "FAILED") {
		t.Errorf("stderr = %q, want FAILED lines", stderr.String())
	}
}

func TestRunPrerender_ConfigFile(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	writeFile(t, site, "docs/a.md", "```mermaid\n---\nid: d1\n---\ngraph TD; A-->B\n```\n")
	cfgPath := writeFile(t, site, "prerender.yaml", `
site:
  root: `+site+`
  contentRoots: [docs]
output:
  dir: `+filepath.Join(site, "out")+`
  format: png
themes:
  - name: default
  - name: dark
    suffix: "-dark"
`)

	flags := &runFlags{
		common: commonFlags{config: cfgPath},
		dryRun: true,
	}

	env, stdout, _ := testEnv()
	if err := runPrerender(context.Background(), flags, nil, env); err != nil {
		t.Fatalf("runPrerender() error = %v", err)
	}
	for _, want := range []string{"d1-en.png", "d1-en-dark.png"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout = %q, want %s planned", stdout.String(), want)
		}
	}
}
