package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every mode.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags holds content-tree flags.
type siteFlags struct {
	root         string
	contentRoots []string
	i18nDir      string
	locale       string
}

// outputFlags holds output destination flags.
type outputFlags struct {
	dir    string
	format string
}

// rendererFlags holds external renderer flags.
type rendererFlags struct {
	command    string
	configFile string
	extraArgs  []string
	timeout    string
}

// runFlags holds all CLI flags.
type runFlags struct {
	common   commonFlags
	site     siteFlags
	output   outputFlags
	renderer rendererFlags
	workers  int
	force    bool
	dryRun   bool
	version  bool
}

// parseFlags parses CLI flags and returns any positional args.
func parseFlags(args []string) (*runFlags, []string, error) {
	fs := flag.NewFlagSet("prerender", flag.ContinueOnError)
	f := &runFlags{}

	fs.StringVarP(&f.common.config, "config", "c", "", "config file path (default: prerender.yaml if present)")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "suppress per-pass summaries")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "log every rendered and cached file")

	fs.StringVar(&f.site.root, "site-root", "", "site root directory")
	fs.StringSliceVar(&f.site.contentRoots, "content-root", nil, "content root below the site root (repeatable)")
	fs.StringVar(&f.site.i18nDir, "i18n-dir", "", "internationalization directory name")
	fs.StringVar(&f.site.locale, "default-locale", "", "locale for non-mirrored content")

	fs.StringVarP(&f.output.dir, "output", "o", "", "output directory for rendered images")
	fs.StringVar(&f.output.format, "format", "", "output format: svg, png")

	fs.StringVar(&f.renderer.command, "renderer", "", "renderer binary name or path")
	fs.StringVar(&f.renderer.configFile, "renderer-config", "", "base style-config file for the renderer")
	fs.StringSliceVar(&f.renderer.extraArgs, "renderer-arg", nil, "extra renderer argument (repeatable)")
	fs.StringVar(&f.renderer.timeout, "render-timeout", "", "per-render timeout (e.g. 30s, 2m)")

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")
	fs.BoolVar(&f.force, "force", false, "re-render even when the output file exists")
	fs.BoolVar(&f.dryRun, "dry-run", false, "plan tasks and list them without rendering")
	fs.BoolVar(&f.version, "version", false, "show version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: prerender [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pre-render mermaid diagrams in a markdown content tree to image files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "      --site-root <dir>        Site root directory")
	fmt.Fprintln(w, "      --content-root <dir>     Content root below the site root (repeatable)")
	fmt.Fprintln(w, "      --i18n-dir <name>        Internationalization directory name")
	fmt.Fprintln(w, "      --default-locale <tag>   Locale for non-mirrored content")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>           Output directory for rendered images")
	fmt.Fprintln(w, "      --format <s>             Output format: svg, png")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Renderer:")
	fmt.Fprintln(w, "      --renderer <cmd>         Renderer binary name or path")
	fmt.Fprintln(w, "      --renderer-config <f>    Base style-config file for the renderer")
	fmt.Fprintln(w, "      --renderer-arg <s>       Extra renderer argument (repeatable)")
	fmt.Fprintln(w, "      --render-timeout <d>     Per-render timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Execution:")
	fmt.Fprintln(w, "  -c, --config <path>          Config file path (default: prerender.yaml if present)")
	fmt.Fprintln(w, "  -w, --workers <n>            Parallel renders (0 = auto)")
	fmt.Fprintln(w, "      --force                  Re-render even when the output file exists")
	fmt.Fprintln(w, "      --dry-run                Plan tasks and list them without rendering")
	fmt.Fprintln(w, "  -q, --quiet                  Suppress per-pass summaries")
	fmt.Fprintln(w, "  -v, --verbose                Log every rendered and cached file")
	fmt.Fprintln(w, "      --version                Show version and exit")
}
