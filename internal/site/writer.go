package site

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/version"
)

// writer emits one build into its staging root.
type writer struct {
	gen   *Generator
	root  string
	blog  *content.Blog
	posts []content.Post
	tmpl  *templateSet
}

func (w *writer) settings() *config.Settings { return w.gen.settings }

func (w *writer) writeSite() error {
	tmpl, err := loadTemplates(w.settings().Paths.Theme)
	if err != nil {
		return err
	}
	w.tmpl = tmpl

	steps := []func() error{
		w.writeIndex,
		w.writePosts,
		w.writePages,
		w.writeCategories,
		w.writeTags,
		w.writeArchives,
		w.writeFeeds,
		w.writeSitemap,
		w.copyStatic,
		w.writeMarker,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// data builds the common template context for a page emitted at the
// given site-root-relative path.
func (w *writer) data(pagePath, title string) PageData {
	s := w.settings()
	return PageData{
		Site:      s.Site,
		Author:    s.Author,
		Links:     s.Links,
		Social:    s.Social,
		Feeds:     s.Feeds,
		Root:      w.rootPrefix(pagePath),
		Title:     title,
		Generator: "blogsmith/" + w.gen.opts.Version,
		Now:       w.gen.opts.Now,
	}
}

// rootPrefix computes the href prefix back to the site root from a
// page path like "posts/foo/". Absolute mode uses the site URL.
func (w *writer) rootPrefix(pagePath string) string {
	s := w.settings()
	if !s.RelativeURLs {
		return strings.TrimSuffix(s.Site.URL, "/") + "/"
	}
	depth := strings.Count(strings.Trim(pagePath, "/"), "/")
	if strings.Trim(pagePath, "/") != "" {
		depth++
	}
	if depth == 0 {
		return "./"
	}
	return strings.Repeat("../", depth)
}

// renderTo executes a template into <root>/<pagePath>/index.html.
func (w *writer) renderTo(pagePath, tmplName string, data PageData) error {
	var buf bytes.Buffer
	if err := w.tmpl.execute(&buf, tmplName, data); err != nil {
		return fmt.Errorf("render %s: %w", path.Join(pagePath, "index.html"), err)
	}
	return w.writeFile(path.Join(pagePath, "index.html"), buf.Bytes())
}

// writeFile writes below the staging root, refusing path escapes.
func (w *writer) writeFile(rel string, data []byte) error {
	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return fmt.Errorf("refusing to write outside output: %s", rel)
	}
	dst := filepath.Join(w.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (w *writer) writeIndex() error {
	s := w.settings()
	views := postViews(w.posts)

	if !s.Pagination.Enabled || len(views) <= s.Pagination.Size {
		d := w.data("", s.Site.Name)
		d.Posts = views
		return w.renderTo("", "index", d)
	}

	size := s.Pagination.Size
	total := (len(views) + size - 1) / size
	for n := 1; n <= total; n++ {
		chunk := views[(n-1)*size : min(n*size, len(views))]
		pager := &Pager{Number: n, Total: total}
		if n > 1 {
			pager.PrevURL = indexPagePath(n - 1)
			if n == 2 {
				pager.PrevURL = ""
			}
		}
		if n < total {
			pager.NextURL = indexPagePath(n + 1)
		}

		pagePath := ""
		if n > 1 {
			pagePath = indexPagePath(n)
		}
		d := w.data(pagePath, s.Site.Name)
		d.Posts = chunk
		d.Pager = pager
		if err := w.renderTo(pagePath, "index", d); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writePosts() error {
	for i := range w.posts {
		p := &w.posts[i]
		v := postView(p)
		d := w.data(v.URL, p.Title+" - "+w.settings().Site.Name)
		d.Post = &v
		if err := w.renderTo(v.URL, "post", d); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writePages() error {
	for i := range w.blog.Pages {
		p := &w.blog.Pages[i]
		v := pageView(p)
		d := w.data(v.URL, p.Title+" - "+w.settings().Site.Name)
		d.Page = &v
		if err := w.renderTo(v.URL, "page", d); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeCategories() error {
	names, byName := categoriesOf(w.posts)
	for _, name := range names {
		pp := categoryPath(name)
		d := w.data(pp, name+" - "+w.settings().Site.Name)
		d.Category = name
		d.Posts = postViews(byName[name])
		if err := w.renderTo(pp, "category", d); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeTags() error {
	names, byName := tagsOf(w.posts)
	for _, name := range names {
		pp := tagPath(name)
		d := w.data(pp, name+" - "+w.settings().Site.Name)
		d.Tag = name
		d.Posts = postViews(byName[name])
		if err := w.renderTo(pp, "tag", d); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeArchives() error {
	d := w.data("archives/", "Archives - "+w.settings().Site.Name)
	d.Years = archiveYears(w.posts)
	return w.renderTo("archives/", "archives", d)
}

// writeMarker records the generator and build time so clean can tell
// this directory apart from something it must not delete.
func (w *writer) writeMarker() error {
	v := w.gen.opts.Version
	if v == "" {
		v = version.Version
	}
	marker := fmt.Sprintf("generator: blogsmith\nversion: %s\nbuilt: %s\n",
		v, w.gen.opts.Now.Format("2006-01-02T15:04:05Z07:00"))
	return w.writeFile(MarkerName, []byte(marker))
}

// copyStatic brings over theme assets, content attachments and the
// extra/ tree.
func (w *writer) copyStatic() error {
	s := w.settings()

	// Theme static files land under theme/ (falling back to the
	// embedded default when the theme dir has none).
	themeStatic := filepath.Join(s.Paths.Theme, "static")
	if st, err := os.Stat(themeStatic); err == nil && st.IsDir() {
		if err := w.copyTree(os.DirFS(themeStatic), "theme"); err != nil {
			return err
		}
	} else {
		embedded, err := fs.Sub(defaultTheme, "theme/static")
		if err != nil {
			return err
		}
		if err := w.copyTree(embedded, "theme"); err != nil {
			return err
		}
	}

	// Non-Markdown files in content/ (images and downloads) keep
	// their relative paths.
	if st, err := os.Stat(s.Paths.Content); err == nil && st.IsDir() {
		err := w.copyTreeFiltered(os.DirFS(s.Paths.Content), "", func(p string) bool {
			base := path.Base(p)
			return !strings.HasPrefix(base, ".") && !strings.EqualFold(path.Ext(p), ".md")
		})
		if err != nil {
			return err
		}
	}

	// extra/ files (CNAME, favicon, robots.txt) go to the site root.
	if s.Paths.Extra != "" {
		if st, err := os.Stat(s.Paths.Extra); err == nil && st.IsDir() {
			if err := w.copyTree(os.DirFS(s.Paths.Extra), ""); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *writer) copyTree(src fs.FS, dstPrefix string) error {
	return w.copyTreeFiltered(src, dstPrefix, func(string) bool { return true })
}

func (w *writer) copyTreeFiltered(src fs.FS, dstPrefix string, keep func(string) bool) error {
	return fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != "." {
				return fs.SkipDir
			}
			return nil
		}
		if !keep(p) {
			return nil
		}
		f, err := src.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		return w.writeFile(path.Join(dstPrefix, p), data)
	})
}

// categoriesOf and tagsOf mirror the Blog accessors but respect the
// build's draft filtering (the writer's post slice is already
// filtered).
func categoriesOf(posts []content.Post) ([]string, map[string][]content.Post) {
	names := []string{}
	byName := map[string][]content.Post{}
	for _, p := range posts {
		if p.Category == "" {
			continue
		}
		if _, ok := byName[p.Category]; !ok {
			names = append(names, p.Category)
		}
		byName[p.Category] = append(byName[p.Category], p)
	}
	return names, byName
}

func tagsOf(posts []content.Post) ([]string, map[string][]content.Post) {
	names := []string{}
	byName := map[string][]content.Post{}
	for _, p := range posts {
		for _, tag := range p.Tags {
			if _, ok := byName[tag]; !ok {
				names = append(names, tag)
			}
			byName[tag] = append(byName[tag], p)
		}
	}
	return names, byName
}
