package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arpith/devblog"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct{}

func (i *IndexCmd) Run(g *Global, root *CLI) error {
	cfg := root.Site.Config().WithDefaults()

	store, err := devblog.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer store.Close()

	ix := devblog.NewIndexer(cfg.ContentDir, store, nil, nil, g.Logger)
	run, err := ix.Sync(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "run %s: %d added, %d updated, %d removed, %d unchanged, %d skipped in %s\n",
		run.ID, run.Added, run.Updated, run.Removed, run.Unchanged, run.Skipped, run.Duration())
	return nil
}
