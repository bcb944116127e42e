// Package content loads the blog's source tree into typed posts and
// pages.
package content

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/blogsmith/blogsmith/internal/frontmatter"
)

// ErrDuplicateSlug is wrapped into load errors when two posts (or two
// pages) claim the same slug.
var ErrDuplicateSlug = errors.New("duplicate slug")

// Item is a single content file after parsing, shared by posts and
// pages.
type Item struct {
	// SourcePath is the absolute path of the .md file.
	SourcePath string
	// RelPath is the path relative to the content directory.
	RelPath string

	Title    string
	Slug     string
	Author   string
	Date     time.Time
	Modified time.Time
	Summary  string
	Draft    bool
	UID      string

	// Body is the raw Markdown body; HTML is the rendered body,
	// filled in by the generator.
	Body []byte
	HTML []byte
}

// Post is a dated article. Category defaults to the first directory
// component under content/ when the header does not name one.
type Post struct {
	Item
	Category string
	Tags     []string
}

// Page is undated standalone content from the pages/ subtree.
type Page struct {
	Item
}

// Blog is the loaded content set, posts sorted newest first.
type Blog struct {
	Posts []Post
	Pages []Page
}

// PublishedPosts filters drafts out.
func (b *Blog) PublishedPosts() []Post {
	out := make([]Post, 0, len(b.Posts))
	for _, p := range b.Posts {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns category names in first-seen (date-descending)
// order mapped to their posts.
func (b *Blog) Categories() ([]string, map[string][]Post) {
	names := []string{}
	byName := map[string][]Post{}
	for _, p := range b.Posts {
		if p.Draft || p.Category == "" {
			continue
		}
		if _, ok := byName[p.Category]; !ok {
			names = append(names, p.Category)
		}
		byName[p.Category] = append(byName[p.Category], p)
	}
	return names, byName
}

// Tags returns tag names in first-seen order mapped to their posts.
func (b *Blog) Tags() ([]string, map[string][]Post) {
	names := []string{}
	byName := map[string][]Post{}
	for _, p := range b.Posts {
		if p.Draft {
			continue
		}
		for _, tag := range p.Tags {
			if _, ok := byName[tag]; !ok {
				names = append(names, tag)
			}
			byName[tag] = append(byName[tag], p)
		}
	}
	return names, byName
}

// FindPostBySlug returns the post with the given slug, drafts included.
func (b *Blog) FindPostBySlug(slug string) (*Post, bool) {
	for i := range b.Posts {
		if b.Posts[i].Slug == slug {
			return &b.Posts[i], true
		}
	}
	return nil, false
}

// FindPageBySlug returns the page with the given slug.
func (b *Blog) FindPageBySlug(slug string) (*Page, bool) {
	for i := range b.Pages {
		if b.Pages[i].Slug == slug {
			return &b.Pages[i], true
		}
	}
	return nil, false
}

// ReadingTime estimates minutes to read at ~200 words per minute,
// never less than one.
func (it *Item) ReadingTime() int {
	words := len(strings.FieldsFunc(string(it.Body), unicode.IsSpace))
	minutes := words / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

func isDraft(meta frontmatter.Meta, defaultStatus string) bool {
	status := meta.Status
	if status == "" {
		status = defaultStatus
	}
	return status == frontmatter.StatusDraft
}
