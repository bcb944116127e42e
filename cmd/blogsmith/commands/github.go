package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blogsmith/blogsmith/internal/publish"
)

// GithubCmd builds with the production profile and publishes the
// result to the GitHub Pages branch.
type GithubCmd struct {
	Remote  string `help:"Git remote to push to (defaults to publish.remote)"`
	Branch  string `help:"Pages branch name (defaults to publish.branch)"`
	NoPush  bool   `help:"Create the pages commit but skip the push"`
	Message string `short:"m" help:"Commit message for the pages commit"`
}

func (g *GithubCmd) Run(_ *Global, root *CLI) error {
	settings, err := loadSettings(root.Settings, true)
	if err != nil {
		return err
	}

	if err := runBuild(settings, false); err != nil {
		return err
	}

	remote := settings.Publish.Remote
	if g.Remote != "" {
		remote = g.Remote
	}
	branch := settings.Publish.Branch
	if g.Branch != "" {
		branch = g.Branch
	}

	// The blog repository is the one holding the settings file.
	repoPath := filepath.Dir(root.Settings)
	if abs, err := filepath.Abs(repoPath); err == nil {
		repoPath = abs
	}

	token := settings.Publish.Token
	if token == "" {
		token = os.Getenv("BLOGSMITH_TOKEN")
	}

	hash, err := publish.Run(context.Background(), publish.Options{
		RepoPath:    repoPath,
		SiteDir:     settings.Paths.Output,
		Remote:      remote,
		Branch:      branch,
		CNAME:       settings.Publish.CNAME,
		Token:       token,
		Message:     g.Message,
		NoPush:      g.NoPush,
		AuthorName:  settings.Author.Name,
		AuthorEmail: os.Getenv("GIT_AUTHOR_EMAIL"),
	})
	if err != nil {
		return err
	}

	if g.NoPush {
		fmt.Printf("Created pages commit %s on %s (push skipped)\n", hash.String()[:8], branch)
	} else {
		fmt.Printf("Published commit %s to %s/%s\n", hash.String()[:8], remote, branch)
	}
	return nil
}
