package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "state", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_MissThenHit(t *testing.T) {
	c := openCache(t)

	body := []byte("# Hello\n")
	_, ok, err := c.Get(body)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(body, "posts/hello.md", []byte("<h1>Hello</h1>")))

	html, ok, err := c.Get(body)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("<h1>Hello</h1>"), html)
}

func TestCache_DifferentBodiesDifferentKeys(t *testing.T) {
	c := openCache(t)

	require.NoError(t, c.Put([]byte("a"), "a.md", []byte("<p>a</p>")))
	require.NoError(t, c.Put([]byte("b"), "b.md", []byte("<p>b</p>")))

	html, ok, err := c.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("<p>a</p>"), html)

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCache_PutIsIdempotent(t *testing.T) {
	c := openCache(t)

	body := []byte("same source")
	require.NoError(t, c.Put(body, "x.md", []byte("v1")))
	require.NoError(t, c.Put(body, "x.md", []byte("v2")))

	html, ok, err := c.Get(body)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), html)

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_ReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put([]byte("persist"), "p.md", []byte("<p>p</p>")))
	require.NoError(t, c.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()

	_, ok, err := c2.Get([]byte("persist"))
	require.NoError(t, err)
	assert.True(t, ok)
}
