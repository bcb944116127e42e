package commands

import (
	"fmt"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/site"
	"github.com/blogsmith/blogsmith/internal/version"
)

// BuildCmd implements the 'build' command (the old html target).
type BuildCmd struct {
	Drafts     bool `help:"Include draft posts"`
	Production bool `help:"Use the production profile (absolute URLs, feeds on)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	settings, err := loadSettings(root.Settings, b.Production)
	if err != nil {
		return err
	}
	return runBuild(settings, b.Drafts)
}

// runBuild is shared by build, regenerate, devserver, publish and
// github.
func runBuild(settings *config.Settings, drafts bool) error {
	blog, err := content.Load(settings)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	gen := site.NewGenerator(settings, site.Options{
		IncludeDrafts: drafts,
		Version:       version.Version,
	})
	res, err := gen.Build(blog)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}

	fmt.Printf("Built %d posts and %d pages into %s\n", res.Posts, res.Pages, res.OutputDir)
	return nil
}
