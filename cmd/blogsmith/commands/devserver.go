package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/content"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/server"
	"github.com/blogsmith/blogsmith/internal/site"
	"github.com/blogsmith/blogsmith/internal/store"
	"github.com/blogsmith/blogsmith/internal/version"
)

// DevserverCmd combines regenerate and serve: a local server with
// watch-triggered incremental rebuilds.
type DevserverCmd struct {
	Port   int    `short:"p" default:"8000" help:"Listen port"`
	Bind   string `short:"b" default:"127.0.0.1" help:"Bind address"`
	Drafts bool   `default:"true" negatable:"" help:"Include draft posts in the preview"`
}

func (d *DevserverCmd) Run(_ *Global, root *CLI) error {
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

	rebuild := rebuildFunc(settings, root.Settings, d.Drafts, cache)

	health := &server.Health{}
	metrics := server.NewMetrics()

	// Initial build; failures are surfaced on /healthz but don't stop
	// the server from coming up.
	if err := rebuild(); err != nil {
		slog.Error("initial build failed", logfields.Error(err))
		health.SetError(err)
	} else {
		health.SetOK()
	}

	srv := server.New(server.Options{Bind: d.Bind, Port: d.Port, Dir: settings.Paths.Output}, metrics, health)
	watcher := server.NewWatcher(watchPaths(settings, root.Settings), rebuild, health, metrics)

	errCh := make(chan error, 2)
	go func() { errCh <- srv.Run(ctx) }()
	go func() { errCh <- watcher.Run(ctx) }()

	fmt.Printf("Serving %s on http://%s/ (watching for changes)\n", settings.Paths.Output, srv.Addr())

	select {
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return nil
	}
}

// rebuildFunc reloads settings and content each time so edits to the
// settings file are picked up too.
func rebuildFunc(initial *config.Settings, settingsPath string, drafts bool, cache *store.Cache) server.Rebuild {
	return func() error {
		settings := initial
		if reloaded, err := config.Load(settingsPath); err == nil {
			settings = reloaded
		} else {
			slog.Warn("settings reload failed, keeping previous", logfields.Error(err))
		}

		blog, err := content.Load(settings)
		if err != nil {
			return err
		}
		gen := site.NewGenerator(settings, site.Options{
			IncludeDrafts: drafts,
			Version:       version.Version,
			Cache:         cache,
		})
		_, err = gen.Build(blog)
		return err
	}
}

func watchPaths(settings *config.Settings, settingsFile string) []string {
	paths := []string{settings.Paths.Content, settings.Paths.Theme, settingsFile}
	if settings.Paths.Extra != "" {
		paths = append(paths, settings.Paths.Extra)
	}
	return paths
}

// openRenderCache puts the cache under .blogsmith/ next to the
// settings file so clean (which removes only the output) keeps it.
func openRenderCache(settingsFile string) (*store.Cache, error) {
	dir := filepath.Dir(settingsFile)
	return store.Open(filepath.Join(dir, ".blogsmith", "cache.db"))
}
