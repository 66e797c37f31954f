package prerender

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"golang.org/x/sync/errgroup"
)

// Scanner defaults.
const (
	DefaultI18nDir       = "i18n"
	DefaultLocale        = "en"
	DefaultFenceLanguage = "mermaid"

	// draftMarker excludes a whole file from scanning when present anywhere
	// in its content.
	draftMarker = "draft: true"
)

// Markdown extensions considered content files.
var contentExtensions = map[string]bool{
	".md":  true,
	".mdx": true,
}

// Scanner enumerates diagram blocks under a site's content roots.
//
// For each content root it walks both <SiteRoot>/<root> and every locale
// mirror <SiteRoot>/<I18nDir>/<locale>/<root>. The locale of a block is the
// locale segment of its mirror path, or DefaultLocale for files directly
// under a root.
type Scanner struct {
	SiteRoot      string
	ContentRoots  []string
	I18nDir       string    // defaults to "i18n"
	DefaultLocale string    // defaults to "en"
	FenceLanguage string    // defaults to "mermaid"
	Log           io.Writer // draft-skip notices; nil discards
}

// candidateFile is one content file queued for parsing.
type candidateFile struct {
	path   string // absolute or site-root-relative filesystem path
	locale string
}

// Scan walks the content roots and returns every diagram block found, in
// deterministic file order with within-file order preserved.
//
// Files containing the draft marker are skipped whole and logged. Any
// unreadable file fails the entire scan: a broken content tree is a build
// environment problem, not a per-diagram condition.
func (s *Scanner) Scan(ctx context.Context) ([]DiagramBlock, error) {
	files, err := s.collectFiles()
	if err != nil {
		return nil, err
	}

	lang := s.FenceLanguage
	if lang == "" {
		lang = DefaultFenceLanguage
	}

	perFile := make([][]DiagramBlock, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blocks, err := s.scanFile(f, lang)
			if err != nil {
				return err
			}
			perFile[i] = blocks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var blocks []DiagramBlock
	for _, fb := range perFile {
		blocks = append(blocks, fb...)
	}
	return blocks, nil
}

// collectFiles gathers candidate content files from every root and its
// locale mirrors. WalkDir's lexical order keeps the result deterministic.
func (s *Scanner) collectFiles() ([]candidateFile, error) {
	defaultLocale := s.DefaultLocale
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	i18nDir := s.I18nDir
	if i18nDir == "" {
		i18nDir = DefaultI18nDir
	}

	var files []candidateFile
	for _, root := range s.ContentRoots {
		dir := filepath.Join(s.SiteRoot, root)
		collected, err := collectContentFiles(dir, defaultLocale)
		if err != nil {
			return nil, err
		}
		files = append(files, collected...)

		locales, err := listLocales(filepath.Join(s.SiteRoot, i18nDir))
		if err != nil {
			return nil, err
		}
		for _, locale := range locales {
			mirror := filepath.Join(s.SiteRoot, i18nDir, locale, root)
			collected, err := collectContentFiles(mirror, locale)
			if err != nil {
				return nil, err
			}
			files = append(files, collected...)
		}
	}
	return files, nil
}

// collectContentFiles walks dir and returns its markdown files tagged with
// the given locale. A missing directory yields no files and no error.
func collectContentFiles(dir, locale string) ([]candidateFile, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []candidateFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !contentExtensions[filepath.Ext(path)] {
			return nil
		}
		files = append(files, candidateFile{path: path, locale: locale})
		return nil
	})
	return files, err
}

// listLocales returns the locale directory names under the i18n root, or
// nothing when the site has no i18n tree.
func listLocales(i18nRoot string) ([]string, error) {
	entries, err := os.ReadDir(i18nRoot)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading i18n root %s: %w", i18nRoot, err)
	}

	var locales []string
	for _, e := range entries {
		if e.IsDir() {
			locales = append(locales, e.Name())
		}
	}
	return locales, nil
}

// scanFile reads one content file and extracts its diagram blocks.
func (s *Scanner) scanFile(f candidateFile, lang string) ([]DiagramBlock, error) {
	content, err := os.ReadFile(f.path) // #nosec G304 -- discovered path
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	rel := f.path
	if r, err := filepath.Rel(s.SiteRoot, f.path); err == nil {
		rel = r
	}

	if strings.Contains(string(content), draftMarker) {
		s.logf("skipping draft %s\n", rel)
		return nil, nil
	}

	var blocks []DiagramBlock
	for _, source := range extractFencedBlocks(content, lang) {
		blocks = append(blocks, DiagramBlock{
			Source: source,
			File:   rel,
			Locale: f.locale,
		})
	}
	return blocks, nil
}

func (s *Scanner) logf(format string, args ...any) {
	if s.Log == nil {
		return
	}
	fmt.Fprintf(s.Log, format, args...)
}

// extractFencedBlocks parses markdown with goldmark and returns the content
// of every fenced code block tagged with the given language, in document
// order.
func extractFencedBlocks(source []byte, lang string) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || string(fcb.Language(source)) != lang {
			return ast.WalkContinue, nil
		}

		var b strings.Builder
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(source))
		}
		blocks = append(blocks, b.String())
		return ast.WalkSkipChildren, nil
	})
	return blocks
}
