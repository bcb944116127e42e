package scaffold

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/frontmatter"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
author:
  name: Sean
site:
  name: Test Blog
  timezone: America/Chicago
paths:
  content: `+filepath.Join(dir, "content")+`
`), 0o644))

	s, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(s.Paths.Content, 0o755))
	return s
}

func TestCreate_Post(t *testing.T) {
	s := testSettings(t)
	now := time.Date(2023, 7, 14, 10, 42, 17, 0, time.UTC)

	path, err := Create(s, KindPost, "Testing Salt States!", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Paths.Content, "testing-salt-states.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := frontmatter.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Testing Salt States!", doc.Meta.Title)
	assert.Equal(t, "testing-salt-states", doc.Meta.Slug)
	assert.Equal(t, "Sean", doc.Meta.Author)
	assert.Equal(t, frontmatter.StatusDraft, doc.Meta.Status)
	assert.NotEmpty(t, doc.Meta.UID)
	// Stamped in the site timezone, truncated to the minute.
	assert.Equal(t, 5, doc.Meta.Date.Hour(), "10:42 UTC is 05:42 in Chicago (CDT)")
	assert.Equal(t, 42, doc.Meta.Date.Minute())
	assert.True(t, doc.Meta.Modified.Equal(doc.Meta.Date.Time))
}

func TestCreate_Page(t *testing.T) {
	s := testSettings(t)

	path, err := Create(s, KindPage, "About Me", time.Now())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Paths.Content, "pages", "about-me.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := frontmatter.Parse(raw)
	require.NoError(t, err)

	assert.True(t, doc.Meta.Date.IsZero(), "pages are undated")
	assert.Empty(t, doc.Meta.Status)
}

func TestCreate_RefusesOverwrite(t *testing.T) {
	s := testSettings(t)

	_, err := Create(s, KindPost, "Same Title", time.Now())
	require.NoError(t, err)

	_, err = Create(s, KindPost, "Same Title", time.Now())
	require.ErrorIs(t, err, ErrExists)
}

func TestCreate_EmptySlug(t *testing.T) {
	s := testSettings(t)
	_, err := Create(s, KindPost, "!!!", time.Now())
	require.ErrorIs(t, err, ErrEmptySlug)
}

func TestFind_BySlug(t *testing.T) {
	s := testSettings(t)

	created, err := Create(s, KindPost, "Find Me Please", time.Now())
	require.NoError(t, err)

	found, err := Find(s, KindPost, "find-me-please")
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = Find(s, KindPost, "never-written")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFind_FrontmatterSlugWins(t *testing.T) {
	s := testSettings(t)
	path := filepath.Join(s.Paths.Content, "odd-filename.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: X\nslug: renamed\ndate: 2020-01-01\n---\n"), 0o644))

	found, err := Find(s, KindPost, "renamed")
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestResolveEditor_Precedence(t *testing.T) {
	s := testSettings(t)

	t.Setenv("BLOGSMITH_EDITOR", "")
	t.Setenv("EDITOR", "")
	_, err := ResolveEditor(s)
	require.ErrorIs(t, err, ErrNoEditor)

	t.Setenv("EDITOR", "vi")
	got, err := ResolveEditor(s)
	require.NoError(t, err)
	assert.Equal(t, "vi", got)

	t.Setenv("BLOGSMITH_EDITOR", "nano")
	got, err = ResolveEditor(s)
	require.NoError(t, err)
	assert.Equal(t, "nano", got)

	s.Editor = "code --wait"
	got, err = ResolveEditor(s)
	require.NoError(t, err)
	assert.Equal(t, "code --wait", got)
}

func TestOpenEditor_RunsCommand(t *testing.T) {
	s := testSettings(t)
	marker := filepath.Join(t.TempDir(), "ran")
	s.Editor = "touch " + marker + " --"

	target := filepath.Join(t.TempDir(), "x.md")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	require.NoError(t, OpenEditor(s, target))

	_, err := os.Stat(marker)
	assert.NoError(t, err, "editor command should have run")
}
