package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// blogFixture lays out a complete blog working directory: settings
// file, production overrides and a content tree.
type blogFixture struct {
	Dir          string
	SettingsPath string
}

// settingsDoc mirrors the shape of settings.yaml for fixture writing;
// tests tweak it before it is serialized.
type settingsDoc map[string]any

func defaultSettings() settingsDoc {
	return settingsDoc{
		"author": map[string]any{
			"name":  "Test Author",
			"intro": "Writes tests.",
		},
		"site": map[string]any{
			"name":     "Integration Blog",
			"url":      "http://localhost:8000",
			"language": "en",
			"timezone": "UTC",
		},
		"paths": map[string]any{
			"content": "content",
			"output":  "output",
			"theme":   "theme",
		},
		"pagination": map[string]any{"enabled": false},
	}
}

// newBlogFixture writes the settings file, a production override and
// the given content files (paths relative to the content root).
func newBlogFixture(t *testing.T, settings settingsDoc, files map[string]string) *blogFixture {
	t.Helper()

	dir := t.TempDir()

	data, err := yaml.Marshal(settings)
	require.NoError(t, err)
	settingsPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settingsPath, data, 0o644))

	override := []byte("site:\n  url: https://blog.example.com\nrelative_urls: false\nfeeds:\n  all_atom: true\n  all_rss: true\n  category_atom: true\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.publish.yaml"), override, 0o644))

	for rel, body := range files {
		p := filepath.Join(dir, "content", filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	return &blogFixture{Dir: dir, SettingsPath: settingsPath}
}

// readOutput returns the contents of a file under the output tree.
func (f *blogFixture) readOutput(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.Dir, "output", filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// writeContentFile adds or replaces a file under the content root.
func writeContentFile(t *testing.T, f *blogFixture, rel, body string) {
	t.Helper()
	p := filepath.Join(f.Dir, "content", filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

// outputExists reports whether a path exists under the output tree.
func (f *blogFixture) outputExists(rel string) bool {
	_, err := os.Stat(filepath.Join(f.Dir, "output", filepath.FromSlash(rel)))
	return err == nil
}
