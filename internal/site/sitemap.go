package site

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/blogsmith/blogsmith/internal/config"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap emits sitemap.xml for production builds only; a
// localhost sitemap is useless and would churn on every preview.
func (w *writer) writeSitemap() error {
	s := w.settings()
	if s.Profile() != config.ProfileProduction {
		return nil
	}

	base := strings.TrimSuffix(s.Site.URL, "/")
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []urlEntry{{Loc: base + "/"}},
	}

	for i := range w.posts {
		p := &w.posts[i]
		set.URLs = append(set.URLs, urlEntry{
			Loc:     base + "/" + postPath(p),
			LastMod: p.Modified.Format(time.RFC3339),
		})
	}
	for i := range w.blog.Pages {
		set.URLs = append(set.URLs, urlEntry{Loc: base + "/" + pagePath(&w.blog.Pages[i])})
	}

	data, err := marshalXML(set)
	if err != nil {
		return err
	}
	return w.writeFile("sitemap.xml", data)
}
