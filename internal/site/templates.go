package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

//go:embed theme/templates/*.html theme/static
var defaultTheme embed.FS

// Template names a theme must (or may) provide. Missing optional
// templates fall back to the embedded default theme.
var pageTemplates = []string{"index", "post", "page", "category", "tag", "archives"}

type templateSet struct {
	byName map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"isoDate": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
	"year": func(t time.Time) int {
		return t.Year()
	},
}

// loadTemplates builds one template set per page kind, each parsed
// from base.html plus the kind's own file. A theme directory on disk
// wins; the embedded default covers everything else.
func loadTemplates(themeDir string) (*templateSet, error) {
	embedded, err := fs.Sub(defaultTheme, "theme/templates")
	if err != nil {
		return nil, err
	}

	var themed fs.FS
	if themeDir != "" {
		if st, err := os.Stat(filepath.Join(themeDir, "templates")); err == nil && st.IsDir() {
			themed = os.DirFS(filepath.Join(themeDir, "templates"))
		}
	}

	set := &templateSet{byName: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		tmpl, err := parsePage(themed, embedded, name)
		if err != nil {
			return nil, fmt.Errorf("theme template %s: %w", name, err)
		}
		set.byName[name] = tmpl
	}
	return set, nil
}

// parsePage combines base.html and <name>.html, preferring the theme
// copy of each file individually so a theme can override just one.
func parsePage(themed, embedded fs.FS, name string) (*template.Template, error) {
	tmpl := template.New(name).Funcs(templateFuncs)

	for _, file := range []string{"base.html", name + ".html"} {
		src, err := readTemplate(themed, embedded, file)
		if err != nil {
			return nil, err
		}
		if tmpl, err = tmpl.Parse(src); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
	}
	return tmpl, nil
}

func readTemplate(themed, embedded fs.FS, file string) (string, error) {
	if themed != nil {
		if f, err := themed.Open(file); err == nil {
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}
	data, err := fs.ReadFile(embedded, file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (ts *templateSet) execute(w io.Writer, name string, data any) error {
	tmpl, ok := ts.byName[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
