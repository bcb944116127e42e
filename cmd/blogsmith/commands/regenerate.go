package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/server"
)

// RegenerateCmd watches the content tree and rebuilds on every change,
// without serving anything. Pair it with an external web server, or
// use devserver instead.
type RegenerateCmd struct {
	Drafts bool `default:"true" negatable:"" help:"Include draft posts"`
}

func (r *RegenerateCmd) Run(_ *Global, root *CLI) error {
	settings, err := loadSettings(root.Settings, false)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cache, err := openRenderCache(root.Settings)
	if err != nil {
		slog.Warn("render cache unavailable, rebuilding from scratch each time", logfields.Error(err))
	} else {
		defer cache.Close()
	}

	rebuild := rebuildFunc(settings, root.Settings, r.Drafts, cache)
	if err := rebuild(); err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes (Ctrl-C to stop)\n", settings.Paths.Content)
	watcher := server.NewWatcher(watchPaths(settings, root.Settings), rebuild, nil, nil)
	return watcher.Run(ctx)
}
