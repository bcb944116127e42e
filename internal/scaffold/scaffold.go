// Package scaffold creates and opens content files for the new/edit
// commands.
package scaffold

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/frontmatter"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/slug"
)

// Kind distinguishes dated posts from standalone pages.
type Kind string

const (
	KindPost Kind = "post"
	KindPage Kind = "page"
)

var (
	// ErrExists means the target content file is already there.
	ErrExists = errors.New("content file already exists")
	// ErrEmptySlug means the title slugged down to nothing.
	ErrEmptySlug = errors.New("title produces an empty slug")
	// ErrNotFound means no content matches the requested slug.
	ErrNotFound = errors.New("no content with that slug")
)

// Create writes a new content file with synthesized frontmatter and
// returns its path. Posts start as drafts; pages are undated and
// published immediately.
func Create(settings *config.Settings, kind Kind, title string, now time.Time) (string, error) {
	s := slug.Make(title)
	if s == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptySlug, title)
	}

	loc, err := settings.Location()
	if err != nil {
		return "", err
	}
	stamp := frontmatter.Time{Time: now.In(loc).Truncate(time.Minute)}

	meta := frontmatter.Meta{
		Title:  title,
		Slug:   s,
		Author: settings.Author.Name,
		UID:    uuid.NewString(),
	}

	var path string
	switch kind {
	case KindPost:
		meta.Date = stamp
		meta.Modified = stamp
		meta.Status = frontmatter.StatusDraft
		path = filepath.Join(settings.Paths.Content, s+".md")
	case KindPage:
		path = filepath.Join(settings.Paths.Content, "pages", s+".md")
	default:
		return "", fmt.Errorf("unknown content kind %q", kind)
	}

	body, err := frontmatter.Serialize(&frontmatter.Document{
		Meta: meta,
		Body: []byte("\n"),
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return "", err
	}

	slog.Info("content file created", logfields.Path(path), logfields.Slug(s))
	return path, nil
}

// Find locates an existing content file by slug. The frontmatter slug
// wins over the filename-derived one, exactly as discovery resolves it.
func Find(settings *config.Settings, kind Kind, s string) (string, error) {
	blog, err := content.Load(settings)
	if err != nil {
		return "", err
	}

	switch kind {
	case KindPost:
		if p, ok := blog.FindPostBySlug(s); ok {
			return p.SourcePath, nil
		}
	case KindPage:
		if p, ok := blog.FindPageBySlug(s); ok {
			return p.SourcePath, nil
		}
	default:
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
	return "", fmt.Errorf("%w: %s %q", ErrNotFound, kind, s)
}
