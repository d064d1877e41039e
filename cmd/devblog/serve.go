package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/arpith/devblog"
	"github.com/arpith/devblog/views"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Static string `help:"Directory of user static assets served under /public" default:"public" type:"path"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := devblog.New(root.Site.Config(), views.Default(),
		devblog.WithLogger(g.Logger),
		devblog.WithStaticDir(s.Static),
	)
	defer func() {
		if err := app.Close(); err != nil {
			g.Logger.Warn("Failed to close index", "error", err)
		}
	}()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	g.Logger.Info("Server stopped")
	return nil
}
