package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/frontmatter"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/slug"
)

// pagesDir is the subtree of content/ that yields pages instead of
// posts.
const pagesDir = "pages"

// Load walks the content directory and parses every Markdown file.
//
// Layout rules, matching how the original site arranged itself:
//   - content/pages/**.md are pages
//   - everything else under content/ is a post
//   - a post in a subdirectory inherits that directory as category
//     unless the header names one
//   - dotfiles and non-.md files are skipped (images are picked up by
//     the generator's static pass instead)
func Load(settings *config.Settings) (*Blog, error) {
	loc, err := settings.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve site timezone: %w", err)
	}

	root, err := filepath.Abs(settings.Paths.Content)
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("content directory not found: %s", root)
	}

	blog := &Blog{}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		item, meta, err := loadItem(path, rel, settings, loc)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}

		if isPagePath(rel) {
			blog.Pages = append(blog.Pages, Page{Item: item})
			return nil
		}

		post := Post{Item: item, Category: meta.Category, Tags: meta.Tags}
		if post.Category == "" {
			post.Category = categoryFromPath(rel)
		}
		blog.Posts = append(blog.Posts, post)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sortPosts(blog.Posts)
	sort.Slice(blog.Pages, func(i, j int) bool { return blog.Pages[i].Title < blog.Pages[j].Title })

	if err := checkSlugs(blog); err != nil {
		return nil, err
	}

	slog.Debug("content loaded",
		slog.Int("posts", len(blog.Posts)),
		slog.Int("pages", len(blog.Pages)),
		logfields.Path(root))
	return blog, nil
}

func loadItem(path, rel string, settings *config.Settings, loc *time.Location) (Item, frontmatter.Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Item{}, frontmatter.Meta{}, err
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return Item{}, frontmatter.Meta{}, err
	}
	meta := doc.Meta

	item := Item{
		SourcePath: path,
		RelPath:    filepath.ToSlash(rel),
		Title:      meta.Title,
		Slug:       meta.Slug,
		Author:     meta.Author,
		Summary:    meta.Summary,
		UID:        meta.UID,
		Draft:      isDraft(meta, settings.DefaultStatus),
		Body:       doc.Body,
	}

	if item.Title == "" {
		return Item{}, meta, fmt.Errorf("missing title in frontmatter")
	}
	if item.Slug == "" {
		item.Slug = slug.FromFilename(filepath.Base(path))
	}
	if item.Author == "" {
		item.Author = settings.Author.Name
	}

	item.Date = meta.Date.In(loc).Time
	item.Modified = meta.Modified.In(loc).Time
	if item.Modified.IsZero() {
		item.Modified = item.Date
	}

	return item, meta, nil
}

// isPagePath reports whether the relative path sits under pages/.
func isPagePath(rel string) bool {
	first, _, found := strings.Cut(filepath.ToSlash(rel), "/")
	return found && first == pagesDir
}

// categoryFromPath derives a category from the first directory
// component, empty for top-level posts.
func categoryFromPath(rel string) string {
	first, _, found := strings.Cut(filepath.ToSlash(rel), "/")
	if !found {
		return ""
	}
	return first
}

// sortPosts orders newest first; undated posts sink to the end, ties
// break on slug for deterministic output.
func sortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Date.IsZero() != b.Date.IsZero() {
			return !a.Date.IsZero()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
}

func checkSlugs(blog *Blog) error {
	seen := map[string]string{}
	for _, p := range blog.Posts {
		if prev, ok := seen[p.Slug]; ok {
			return fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateSlug, p.Slug, prev, p.RelPath)
		}
		seen[p.Slug] = p.RelPath
	}
	seen = map[string]string{}
	for _, p := range blog.Pages {
		if prev, ok := seen[p.Slug]; ok {
			return fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateSlug, p.Slug, prev, p.RelPath)
		}
		seen[p.Slug] = p.RelPath
	}
	return nil
}
