// Package config loads and validates the prerender configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hmorvan/go-mermaid-prerender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrNoContentRoots = errors.New("at least one content root is required")
	ErrNoThemes       = errors.New("at least one theme is required")
	ErrDuplicateTheme = errors.New("duplicate theme")
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrInvalidWorkers = errors.New("invalid worker count")
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given.
const DefaultConfigFile = "prerender.yaml"

// Config holds all configuration for a prerender run.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Output   OutputConfig   `yaml:"output"`
	Themes   []ThemeConfig  `yaml:"themes"`
	Workers  int            `yaml:"workers"` // 0 means match available parallelism
	TempDir  string         `yaml:"tempDir"` // empty means a fresh OS temp directory
	Renderer RendererConfig `yaml:"renderer"`
}

// SiteConfig describes the content tree to scan.
type SiteConfig struct {
	Root          string   `yaml:"root"`          // site root directory (default ".")
	ContentRoots  []string `yaml:"contentRoots"`  // roots below the site root, e.g. ["docs"]
	I18nDir       string   `yaml:"i18nDir"`       // internationalization dir (default "i18n")
	DefaultLocale string   `yaml:"defaultLocale"` // locale for non-mirrored files (default "en")
}

// OutputConfig describes the rendered image destination.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // output directory for images
	Format string `yaml:"format"` // "svg" or "png"
}

// ThemeConfig names one theme variant and its filename suffix.
type ThemeConfig struct {
	Name   string `yaml:"name"`
	Theme  string `yaml:"theme"`  // theme passed to the renderer (default: Name)
	Suffix string `yaml:"suffix"` // output filename suffix, e.g. "-dark"
}

// RendererConfig describes the external renderer invocation.
type RendererConfig struct {
	Command    string   `yaml:"command"`    // binary name or path (default "mmdc")
	ConfigFile string   `yaml:"configFile"` // optional base style-config file
	ExtraArgs  []string `yaml:"extraArgs"`  // free-form extra invocation arguments
	TimeoutSec int      `yaml:"timeoutSec"` // per-render timeout, 0 disables
}

// DefaultConfig returns a configuration with sensible defaults: scan ./docs,
// write SVGs for a single default theme.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Root:          ".",
			ContentRoots:  []string{"docs"},
			I18nDir:       "i18n",
			DefaultLocale: "en",
		},
		Output: OutputConfig{
			Dir:    "static/img/diagrams",
			Format: "svg",
		},
		Themes: []ThemeConfig{
			{Name: "default", Theme: "default", Suffix: ""},
		},
		Renderer: RendererConfig{
			Command: "mmdc",
		},
	}
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills fields the file left empty.
func (c *Config) applyDefaults() {
	if c.Site.Root == "" {
		c.Site.Root = "."
	}
	if c.Site.I18nDir == "" {
		c.Site.I18nDir = "i18n"
	}
	if c.Site.DefaultLocale == "" {
		c.Site.DefaultLocale = "en"
	}
	if c.Output.Format == "" {
		c.Output.Format = "svg"
	}
	if c.Renderer.Command == "" {
		c.Renderer.Command = "mmdc"
	}
	for i := range c.Themes {
		if c.Themes[i].Theme == "" {
			c.Themes[i].Theme = c.Themes[i].Name
		}
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if len(c.Site.ContentRoots) == 0 {
		return ErrNoContentRoots
	}
	if len(c.Themes) == 0 {
		return ErrNoThemes
	}
	switch strings.ToLower(c.Output.Format) {
	case "svg", "png":
	default:
		return fmt.Errorf("%w: %q (must be svg or png)", ErrInvalidFormat, c.Output.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkers, c.Workers)
	}

	// Duplicate names or suffixes would make two variants target the same
	// output files.
	names := map[string]bool{}
	suffixes := map[string]bool{}
	for _, t := range c.Themes {
		if t.Name == "" {
			return fmt.Errorf("%w: theme with empty name", ErrNoThemes)
		}
		if names[t.Name] {
			return fmt.Errorf("%w: name %q", ErrDuplicateTheme, t.Name)
		}
		if suffixes[t.Suffix] {
			return fmt.Errorf("%w: suffix %q", ErrDuplicateTheme, t.Suffix)
		}
		names[t.Name] = true
		suffixes[t.Suffix] = true
	}
	return nil
}
