package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/scaffold"
	"github.com/blogsmith/blogsmith/internal/site"
)

var sampleContent = map[string]string{
	"first-post.md": `---
title: First Post
date: 2024-01-10 09:30
tags: [meta]
---
Welcome paragraph.

More detail below the fold.
`,
	"devops/pipelines.md": `---
title: Pipelines Revisited
date: 2024-02-01
---
Pipeline notes.
`,
	"pages/about.md": `---
title: About
---
Who writes this.
`,
}

func buildSite(t *testing.T, f *blogFixture, profile config.Profile, opts site.Options) *site.Result {
	t.Helper()

	settings, err := config.LoadProfile(f.SettingsPath, profile)
	require.NoError(t, err)

	blog, err := content.Load(settings)
	require.NoError(t, err)

	res, err := site.NewGenerator(settings, opts).Build(blog)
	require.NoError(t, err)
	return res
}

func TestBuild_DebugProfile_EndToEnd(t *testing.T) {
	f := newBlogFixture(t, defaultSettings(), sampleContent)

	res := buildSite(t, f, config.ProfileDebug, site.Options{})
	assert.Equal(t, 2, res.Posts)
	assert.Equal(t, 1, res.Pages)

	index := f.readOutput(t, "index.html")
	assert.Contains(t, index, "First Post")
	assert.Contains(t, index, "Pipelines Revisited")
	// Debug builds link relatively and skip feeds.
	assert.Contains(t, index, `href="./posts/first-post/"`)
	assert.False(t, f.outputExists("feeds/all.atom.xml"))
	assert.False(t, f.outputExists("sitemap.xml"))

	post := f.readOutput(t, "posts/first-post/index.html")
	assert.Contains(t, post, "Welcome paragraph.")
	assert.Contains(t, post, "More detail below the fold.")

	assert.True(t, f.outputExists(site.MarkerName))
	assert.True(t, f.outputExists("pages/about/index.html"))
	assert.True(t, f.outputExists("categories/devops/index.html"))
	assert.True(t, f.outputExists("tags/meta/index.html"))
	assert.True(t, f.outputExists("archives/index.html"))
	assert.True(t, f.outputExists("theme/css/style.css"))
}

func TestBuild_ProductionProfile_EndToEnd(t *testing.T) {
	f := newBlogFixture(t, defaultSettings(), sampleContent)

	buildSite(t, f, config.ProfileProduction, site.Options{})

	index := f.readOutput(t, "index.html")
	assert.Contains(t, index, "https://blog.example.com/posts/first-post/")

	atom := f.readOutput(t, "feeds/all.atom.xml")
	assert.Contains(t, atom, "<title>First Post</title>")
	assert.Contains(t, atom, "https://blog.example.com/posts/first-post/")

	assert.True(t, f.outputExists("feeds/all.rss.xml"))
	assert.True(t, f.outputExists("feeds/devops.atom.xml"))

	sitemap := f.readOutput(t, "sitemap.xml")
	assert.Contains(t, sitemap, "https://blog.example.com/posts/pipelines/")
}

// A scaffolded post is a draft: invisible to a plain build, rendered
// when drafts are requested.
func TestScaffold_DraftLifecycle(t *testing.T) {
	f := newBlogFixture(t, defaultSettings(), sampleContent)

	settings, err := config.Load(f.SettingsPath)
	require.NoError(t, err)

	_, err = scaffold.Create(settings, scaffold.KindPost, "Work In Progress", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	res := buildSite(t, f, config.ProfileDebug, site.Options{})
	assert.Equal(t, 2, res.Posts)
	assert.False(t, f.outputExists("posts/work-in-progress/index.html"))

	res = buildSite(t, f, config.ProfileDebug, site.Options{IncludeDrafts: true})
	assert.Equal(t, 3, res.Posts)
	assert.True(t, f.outputExists("posts/work-in-progress/index.html"))
}

// A failed rebuild must not clobber the previous good output.
func TestBuild_FailureKeepsPreviousOutput(t *testing.T) {
	f := newBlogFixture(t, defaultSettings(), sampleContent)
	buildSite(t, f, config.ProfileDebug, site.Options{})

	settings, err := config.Load(f.SettingsPath)
	require.NoError(t, err)

	// A content file without a closing frontmatter delimiter fails the
	// load; the output from the first build must survive.
	writeContentFile(t, f, "broken.md", "---\ntitle: Broken\n")

	_, err = content.Load(settings)
	require.Error(t, err)

	assert.True(t, f.outputExists("index.html"))
	assert.True(t, f.outputExists("posts/first-post/index.html"))
}
