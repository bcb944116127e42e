package site

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/markdown"
	"github.com/blogsmith/blogsmith/internal/slug"
)

// feedEntryLimit caps feed length; readers only care about recent
// posts anyway.
const feedEntryLimit = 20

// Atom document model, just the elements the feed actually emits.
type atomFeed struct {
	XMLName   xml.Name   `xml:"feed"`
	XMLNS     string     `xml:"xmlns,attr"`
	Title     string     `xml:"title"`
	ID        string     `xml:"id"`
	Updated   string     `xml:"updated"`
	Links     []atomLink `xml:"link"`
	Generator string     `xml:"generator"`
	Entries   []atomEntry
}

type atomLink struct {
	XMLName xml.Name `xml:"link"`
	Href    string   `xml:"href,attr"`
	Rel     string   `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	XMLName xml.Name `xml:"entry"`
	Title   string   `xml:"title"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Link    atomLink
	Author  atomAuthor `xml:"author"`
	Summary string     `xml:"summary"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// RSS 2.0 document model.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// writeFeeds emits the feeds the profile enables. Feed URLs are always
// absolute regardless of the relative-URLs setting.
func (w *writer) writeFeeds() error {
	s := w.settings()
	if !s.Feeds.AllAtom && !s.Feeds.AllRSS && !s.Feeds.CategoryAtom {
		return nil
	}

	base := strings.TrimSuffix(s.Site.URL, "/")

	if s.Feeds.AllAtom {
		data, err := w.atomFor(s.Site.Name, base, "feeds/all.atom.xml", w.posts)
		if err != nil {
			return err
		}
		if err := w.writeFile("feeds/all.atom.xml", data); err != nil {
			return err
		}
	}

	if s.Feeds.AllRSS {
		data, err := w.rssFor(base, w.posts)
		if err != nil {
			return err
		}
		if err := w.writeFile("feeds/all.rss.xml", data); err != nil {
			return err
		}
	}

	if s.Feeds.CategoryAtom {
		names, byName := categoriesOf(w.posts)
		for _, name := range names {
			rel := "feeds/" + slug.Make(name) + ".atom.xml"
			data, err := w.atomFor(s.Site.Name+" - "+name, base, rel, byName[name])
			if err != nil {
				return err
			}
			if err := w.writeFile(rel, data); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *writer) atomFor(title, base, selfRel string, posts []content.Post) ([]byte, error) {
	feed := atomFeed{
		XMLNS:     "http://www.w3.org/2005/Atom",
		Title:     title,
		ID:        base + "/",
		Updated:   w.gen.opts.Now.Format(time.RFC3339),
		Generator: "blogsmith",
		Links: []atomLink{
			{Href: base + "/" + selfRel, Rel: "self"},
			{Href: base + "/"},
		},
	}

	for i, p := range posts {
		if i >= feedEntryLimit {
			break
		}
		url := base + "/" + postPath(&p)
		feed.Entries = append(feed.Entries, atomEntry{
			Title:   p.Title,
			ID:      url,
			Updated: p.Modified.Format(time.RFC3339),
			Link:    atomLink{Href: url},
			Author:  atomAuthor{Name: p.Author},
			Summary: feedSummary(&p),
		})
	}

	return marshalXML(feed)
}

func (w *writer) rssFor(base string, posts []content.Post) ([]byte, error) {
	s := w.settings()
	channel := rssChannel{
		Title:       s.Site.Name,
		Link:        base + "/",
		Description: s.Site.Description,
		PubDate:     w.gen.opts.Now.Format(time.RFC1123Z),
	}

	for i, p := range posts {
		if i >= feedEntryLimit {
			break
		}
		url := base + "/" + postPath(&p)
		channel.Items = append(channel.Items, rssItem{
			Title:       p.Title,
			Link:        url,
			GUID:        url,
			PubDate:     p.Date.Format(time.RFC1123Z),
			Description: feedSummary(&p),
		})
	}

	return marshalXML(rssFeed{Version: "2.0", Channel: channel})
}

func feedSummary(p *content.Post) string {
	if p.Summary != "" {
		return p.Summary
	}
	return markdown.PlainText(p.HTML)
}

func marshalXML(doc any) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
