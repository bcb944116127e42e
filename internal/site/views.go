package site

import (
	"html/template"
	"strconv"
	"time"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/slug"
)

// PageData is the context handed to every theme template.
type PageData struct {
	Site   config.Site
	Author config.Author
	Links  []config.Link
	Social []config.Link
	Feeds  config.Feeds

	// Root prefixes every site-internal href. It is either the
	// absolute site URL with a trailing slash, or a document-relative
	// prefix (../ chains) when relative URLs are on.
	Root string

	// Title is the browser title for this page.
	Title string

	Posts    []PostView
	Post     *PostView
	Page     *PageView
	Category string
	Tag      string
	Years    []ArchiveYear
	Pager    *Pager

	Generator string
	Now       time.Time
}

// PostView is a post prepared for templating.
type PostView struct {
	Title       string
	Slug        string
	Author      string
	Date        time.Time
	Modified    time.Time
	Category    string
	CategoryURL string
	Tags        []TagRef
	Summary     string
	Draft       bool
	ReadingTime int
	// URL is the post's path from the site root, e.g. "posts/foo/".
	URL  string
	HTML template.HTML
}

// PageView is a standalone page prepared for templating.
type PageView struct {
	Title string
	Slug  string
	URL   string
	HTML  template.HTML
}

// TagRef is a tag name with its index URL.
type TagRef struct {
	Name string
	URL  string
}

// ArchiveYear groups posts for the archives template.
type ArchiveYear struct {
	Year  int
	Posts []PostView
}

// Pager describes the index pagination cursor.
type Pager struct {
	Number int
	Total  int
	// PrevURL/NextURL are site-root-relative, empty at the edges.
	PrevURL string
	NextURL string
}

// Site-root-relative paths for each page kind.
func postPath(p *content.Post) string { return "posts/" + p.Slug + "/" }
func pagePath(p *content.Page) string { return "pages/" + p.Slug + "/" }
func categoryPath(name string) string { return "categories/" + slug.Make(name) + "/" }
func tagPath(name string) string      { return "tags/" + slug.Make(name) + "/" }
func indexPagePath(n int) string      { return "page/" + strconv.Itoa(n) + "/" }

func postView(p *content.Post) PostView {
	v := PostView{
		Title:       p.Title,
		Slug:        p.Slug,
		Author:      p.Author,
		Date:        p.Date,
		Modified:    p.Modified,
		Category:    p.Category,
		Summary:     p.Summary,
		Draft:       p.Draft,
		ReadingTime: p.ReadingTime(),
		URL:         postPath(p),
		HTML:        template.HTML(p.HTML),
	}
	if p.Category != "" {
		v.CategoryURL = categoryPath(p.Category)
	}
	for _, t := range p.Tags {
		v.Tags = append(v.Tags, TagRef{Name: t, URL: tagPath(t)})
	}
	return v
}

func pageView(p *content.Page) PageView {
	return PageView{
		Title: p.Title,
		Slug:  p.Slug,
		URL:   pagePath(p),
		HTML:  template.HTML(p.HTML),
	}
}

func postViews(posts []content.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for i := range posts {
		out = append(out, postView(&posts[i]))
	}
	return out
}

func archiveYears(posts []content.Post) []ArchiveYear {
	var years []ArchiveYear
	for i := range posts {
		y := posts[i].Date.Year()
		if len(years) == 0 || years[len(years)-1].Year != y {
			years = append(years, ArchiveYear{Year: y})
		}
		last := &years[len(years)-1]
		last.Posts = append(last.Posts, postView(&posts[i]))
	}
	return years
}
