package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/blogsmith/blogsmith/internal/config"
)

// Global carries state shared across subcommands.
type Global struct{}

// CLI is the root command tree. Every target of the old site Makefile
// has a command here.
type CLI struct {
	Settings string           `short:"s" help:"Settings file path" default:"settings.yaml"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build      BuildCmd      `cmd:"" help:"Generate the site into the output directory"`
	Clean      CleanCmd      `cmd:"" help:"Remove the output directory"`
	Regenerate RegenerateCmd `cmd:"" help:"Watch content and rebuild on change (no server)"`
	Serve      ServeCmd      `cmd:"" help:"Serve the output directory over HTTP"`
	Devserver  DevserverCmd  `cmd:"" help:"Serve and rebuild on change"`
	Publish    PublishCmd    `cmd:"" help:"Build with the production profile"`
	Github     GithubCmd     `cmd:"" help:"Build for production and push to GitHub Pages"`
	New        NewCmd        `cmd:"" help:"Create a new post or page"`
	Edit       EditCmd       `cmd:"" help:"Open an existing post or page in your editor"`
	Init       InitCmd       `cmd:"" help:"Write a starter settings file"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	if env := os.Getenv("BLOGSMITH_LOG_LEVEL"); env != "" {
		level = parseLogLevel(env, level)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func parseLogLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return fallback
}

// loadSettings picks the profile from the production flag shared by
// several commands.
func loadSettings(path string, production bool) (*config.Settings, error) {
	if production {
		return config.LoadProfile(path, config.ProfileProduction)
	}
	return config.Load(path)
}
