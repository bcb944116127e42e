package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/blogsmith/blogsmith/internal/server"
)

// ServeCmd serves the already-built output directory. The old
// serve-global target is --bind 0.0.0.0.
type ServeCmd struct {
	Port int    `short:"p" default:"8000" help:"Listen port"`
	Bind string `short:"b" default:"127.0.0.1" help:"Bind address (0.0.0.0 to expose on the network)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	settings, err := loadSettings(root.Settings, false)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(server.Options{
		Bind: s.Bind,
		Port: s.Port,
		Dir:  settings.Paths.Output,
	}, nil, nil)
	return srv.Run(ctx)
}
