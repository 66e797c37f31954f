// Package prerender renders Mermaid diagrams embedded in a markdown content
// tree to static image files at build time.
//
// # Pipeline
//
// The pipeline runs in five stages:
//
//  1. Scan content roots (and their locale mirrors under the i18n tree) for
//     fenced mermaid blocks.
//  2. Extract the optional metadata header from each block.
//  3. Derive a stable identity per diagram (explicit id or content digest).
//  4. Plan one render task per (identity, locale, theme variant), deduplicated
//     by output filename.
//  5. Execute the tasks under a bounded worker pool, invoking an external
//     renderer per task, with output-file existence as the cache signal.
//
// # Quick Start
//
//	scanner := prerender.Scanner{
//	    SiteRoot:      ".",
//	    ContentRoots:  []string{"docs"},
//	    DefaultLocale: "en",
//	}
//	results, err := prerender.Run(ctx, prerender.RunOptions{
//	    Scanner: scanner,
//	    Output:  prerender.OutputConfig{Dir: "static/img/diagrams", Format: prerender.FormatSVG},
//	    Variants: []prerender.ThemeVariant{
//	        {Name: "default", Theme: "default"},
//	        {Name: "dark", Theme: "dark", Suffix: "-dark"},
//	    },
//	})
//
// Each variant pass produces one image per diagram per locale, named
// {identity}-{locale}{suffix}.{format} under the output directory.
//
// # External Renderer
//
// Rendering is delegated to a capability interface (Renderer). The default
// implementation, MermaidCLI, shells out to the mermaid-cli binary (mmdc)
// with a file-in/file-out contract. Tests inject stub renderers instead.
//
// A render failure is isolated to its task: the batch continues and the
// failure is reported in the pass summary. An output file that already exists
// is treated as a cache hit and the task is skipped; source staleness is not
// detected.
package prerender
