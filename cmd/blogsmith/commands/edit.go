package commands

import (
	"github.com/blogsmith/blogsmith/internal/scaffold"
)

// EditCmd groups the edit post / edit page commands.
type EditCmd struct {
	Post EditPostCmd `cmd:"" help:"Open an existing post by slug"`
	Page EditPageCmd `cmd:"" help:"Open an existing page by slug"`
}

// EditPostCmd opens an existing post in the editor.
type EditPostCmd struct {
	Slug string `arg:"" help:"Post slug"`
}

func (e *EditPostCmd) Run(_ *Global, root *CLI) error {
	return findAndEdit(root, scaffold.KindPost, e.Slug)
}

// EditPageCmd opens an existing page in the editor.
type EditPageCmd struct {
	Slug string `arg:"" help:"Page slug"`
}

func (e *EditPageCmd) Run(_ *Global, root *CLI) error {
	return findAndEdit(root, scaffold.KindPage, e.Slug)
}

func findAndEdit(root *CLI, kind scaffold.Kind, slug string) error {
	settings, err := loadSettings(root.Settings, false)
	if err != nil {
		return err
	}

	path, err := scaffold.Find(settings, kind, slug)
	if err != nil {
		return err
	}
	return scaffold.OpenEditor(settings, path)
}
