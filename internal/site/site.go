// Package site renders the loaded content into the output tree.
package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/markdown"
	"github.com/blogsmith/blogsmith/internal/store"
)

// MarkerName is the file the generator drops at the output root so
// clean can recognize its own work.
const MarkerName = ".blogsmith"

// Options tune a single build.
type Options struct {
	// IncludeDrafts renders draft posts too (preview builds).
	IncludeDrafts bool
	// Now is the build timestamp; zero means time.Now. Fixing it makes
	// output reproducible for tests.
	Now time.Time
	// Version is stamped into the marker file and feed generator tags.
	Version string
	// Cache is an optional render cache; nil disables it.
	Cache *store.Cache
}

// Result summarizes a finished build.
type Result struct {
	OutputDir string
	Posts     int
	Pages     int
	Duration  time.Duration
}

// Generator renders one site.
type Generator struct {
	settings *config.Settings
	opts     Options
}

// NewGenerator creates a generator for the given settings.
func NewGenerator(settings *config.Settings, opts Options) *Generator {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &Generator{settings: settings, opts: opts}
}

// Build renders the whole site into the configured output directory.
//
// The build happens in a staging directory next to the output and is
// swapped in only on success, so a failing build never destroys the
// previous good output.
func (g *Generator) Build(blog *content.Blog) (*Result, error) {
	start := g.opts.Now

	posts := blog.PublishedPosts()
	if g.opts.IncludeDrafts {
		posts = blog.Posts
	}
	if err := g.renderBodies(posts, blog.Pages); err != nil {
		return nil, err
	}

	outputDir, err := filepath.Abs(g.settings.Paths.Output)
	if err != nil {
		return nil, err
	}

	staging, err := os.MkdirTemp(filepath.Dir(outputDir), ".blogsmith-build-*")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	w := &writer{
		gen:   g,
		root:  staging,
		blog:  blog,
		posts: posts,
	}
	if err := w.writeSite(); err != nil {
		return nil, err
	}

	if err := swapInto(staging, outputDir); err != nil {
		return nil, err
	}

	res := &Result{
		OutputDir: outputDir,
		Posts:     len(posts),
		Pages:     len(blog.Pages),
		Duration:  time.Since(start),
	}
	slog.Info("site built",
		logfields.Output(outputDir),
		slog.Int("posts", res.Posts),
		slog.Int("pages", res.Pages))
	return res, nil
}

// renderBodies converts Markdown to HTML for every item that will be
// emitted, consulting the render cache when present.
func (g *Generator) renderBodies(posts []content.Post, pages []content.Page) error {
	for i := range posts {
		if err := g.renderItem(&posts[i].Item); err != nil {
			return fmt.Errorf("render %s: %w", posts[i].RelPath, err)
		}
	}
	for i := range pages {
		if err := g.renderItem(&pages[i].Item); err != nil {
			return fmt.Errorf("render %s: %w", pages[i].RelPath, err)
		}
	}
	return nil
}

func (g *Generator) renderItem(it *content.Item) error {
	if g.opts.Cache != nil {
		if html, ok, err := g.opts.Cache.Get(it.Body); err == nil && ok {
			it.HTML = html
			g.fillSummary(it)
			return nil
		} else if err != nil {
			slog.Warn("render cache lookup failed", logfields.File(it.RelPath), logfields.Error(err))
		}
	}

	html, err := markdown.Render(it.Body)
	if err != nil {
		return err
	}
	it.HTML = html
	g.fillSummary(it)

	if g.opts.Cache != nil {
		if err := g.opts.Cache.Put(it.Body, it.RelPath, html); err != nil {
			slog.Warn("render cache store failed", logfields.File(it.RelPath), logfields.Error(err))
		}
	}
	return nil
}

func (g *Generator) fillSummary(it *content.Item) {
	if it.Summary == "" {
		it.Summary = markdown.FirstParagraph(it.HTML)
	}
}

// swapInto replaces outputDir with staging atomically enough: the old
// tree is moved aside first and only removed after the new one is in
// place.
func swapInto(staging, outputDir string) error {
	old := outputDir + ".old"
	_ = os.RemoveAll(old)

	if _, err := os.Stat(outputDir); err == nil {
		if err := os.Rename(outputDir, old); err != nil {
			return fmt.Errorf("move previous output aside: %w", err)
		}
	}
	if err := os.Rename(staging, outputDir); err != nil {
		// Try to restore the previous output.
		_ = os.Rename(old, outputDir)
		return fmt.Errorf("move staging into place: %w", err)
	}
	return os.RemoveAll(old)
}
