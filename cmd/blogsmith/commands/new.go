package commands

import (
	"fmt"
	"time"

	"github.com/blogsmith/blogsmith/internal/scaffold"
)

// NewCmd groups content creation: new post, new page.
type NewCmd struct {
	Post NewPostCmd `cmd:"" help:"Create a draft post and open it in your editor"`
	Page NewPageCmd `cmd:"" help:"Create a page and open it in your editor"`
}

// NewPostCmd creates a post file with synthesized frontmatter.
type NewPostCmd struct {
	Title  string `short:"t" required:"" help:"Post title"`
	NoEdit bool   `help:"Create the file without opening an editor"`
}

func (n *NewPostCmd) Run(_ *Global, root *CLI) error {
	return createAndEdit(root, scaffold.KindPost, n.Title, n.NoEdit)
}

// NewPageCmd creates a page under content/pages.
type NewPageCmd struct {
	Title  string `short:"t" required:"" help:"Page title"`
	NoEdit bool   `help:"Create the file without opening an editor"`
}

func (n *NewPageCmd) Run(_ *Global, root *CLI) error {
	return createAndEdit(root, scaffold.KindPage, n.Title, n.NoEdit)
}

func createAndEdit(root *CLI, kind scaffold.Kind, title string, noEdit bool) error {
	settings, err := loadSettings(root.Settings, false)
	if err != nil {
		return err
	}

	path, err := scaffold.Create(settings, kind, title, time.Now())
	if err != nil {
		return err
	}
	fmt.Println("Created", path)

	if noEdit {
		return nil
	}
	return scaffold.OpenEditor(settings, path)
}
