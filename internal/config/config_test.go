package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
site:
  name: Test Blog
author:
  name: Tester
`)

	s, err := Load(path)
	require.NoError(t, err)

	// Relative paths are anchored to the settings file's directory.
	assert.Equal(t, filepath.Join(dir, "content"), s.Paths.Content)
	assert.Equal(t, filepath.Join(dir, "output"), s.Paths.Output)
	assert.Equal(t, filepath.Join(dir, "theme"), s.Paths.Theme)
	assert.Equal(t, "en", s.Site.Language)
	assert.Equal(t, "published", s.DefaultStatus)
	assert.Equal(t, ProfileDebug, s.Profile())

	// Debug profile: feeds off, relative URLs on, localhost URL.
	assert.False(t, s.Feeds.AllAtom)
	assert.True(t, s.RelativeURLs)
	assert.Equal(t, "http://localhost:8000", s.Site.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadProfile_Production_MergesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
site:
  name: Test Blog
  url: http://localhost:8000
`)
	writeSettings(t, dir, "settings.publish.yaml", `
site:
  url: https://blog.example.com
relative_urls: false
feeds:
  all_atom: true
`)

	s, err := LoadProfile(path, ProfileProduction)
	require.NoError(t, err)

	assert.Equal(t, ProfileProduction, s.Profile())
	assert.Equal(t, "https://blog.example.com", s.Site.URL)
	assert.True(t, s.Feeds.AllAtom)
	assert.False(t, s.RelativeURLs)
	// Base fields not overridden survive the merge.
	assert.Equal(t, "Test Blog", s.Site.Name)
}

func TestLoadProfile_Production_NoOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
site:
  name: Test Blog
  url: https://blog.example.com
`)

	s, err := LoadProfile(path, ProfileProduction)
	require.NoError(t, err)

	// Production without an override file still means feeds on and
	// absolute URLs.
	assert.True(t, s.Feeds.AllAtom)
	assert.True(t, s.Feeds.AllRSS)
	assert.False(t, s.RelativeURLs)
}

func TestLoadProfile_Production_RequiresSiteURL(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
site:
  name: Test Blog
relative_urls: false
`)
	writeSettings(t, dir, "settings.publish.yaml", `
feeds:
  all_atom: true
`)

	_, err := LoadProfile(path, ProfileProduction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site.url")
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_BLOG_NAME", "Env Blog")
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
site:
  name: ${TEST_BLOG_NAME}
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Env Blog", s.Site.Name)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
site:
  name: Test
  timezone: Mars/Olympus
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestLoad_PaginationValidation(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
site:
  name: Test
pagination:
  enabled: true
  size: -3
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	require.NoError(t, Init(path, false))
	err := Init(path, false)
	require.ErrorIs(t, err, ErrExists)

	require.NoError(t, Init(path, true))
}

func TestInit_OutputLoadsCleanly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, Init(path, false))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", s.Site.Name)

	// The generated publish override must load as production too.
	p, err := LoadProfile(path, ProfileProduction)
	require.NoError(t, err)
	assert.Equal(t, "https://you.github.io", p.Site.URL)
}

func TestPublishOverridePath(t *testing.T) {
	assert.Equal(t, "settings.publish.yaml", publishOverridePath("settings.yaml"))
	assert.Equal(t, "/a/b/conf.publish.yml", publishOverridePath("/a/b/conf.yml"))
}
