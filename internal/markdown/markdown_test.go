package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_BasicMarkdown(t *testing.T) {
	out, err := Render([]byte("# Heading\n\nSome **bold** text.\n"))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<h1 id=\"heading\">Heading</h1>")
	assert.Contains(t, s, "<strong>bold</strong>")
}

func TestRender_GFMTable(t *testing.T) {
	out, err := Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")
}

func TestRender_RawHTMLPassthrough(t *testing.T) {
	out, err := Render([]byte("before\n\n<figure>x</figure>\n\nafter\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<figure>x</figure>")
}

func TestRender_FencedCode(t *testing.T) {
	out, err := Render([]byte("```python\nprint('hi')\n```\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<pre><code class=\"language-python\">")
}

func TestPlainText_StripsMarkup(t *testing.T) {
	got := PlainText([]byte("<p>Hello <em>there</em>,\nworld.</p><script>evil()</script>"))
	assert.Equal(t, "Hello there, world.", got)
}

func TestFirstParagraph(t *testing.T) {
	html := []byte("<h1>Title</h1><p>First para here.</p><p>Second.</p>")
	assert.Equal(t, "First para here.", FirstParagraph(html))
}

func TestFirstParagraph_NoParagraph(t *testing.T) {
	html := []byte("<ul><li>one</li></ul>")
	assert.Equal(t, "one", FirstParagraph(html))
}
