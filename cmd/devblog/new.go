package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arpith/devblog"
	"github.com/arpith/devblog/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title    string `arg:"" help:"Post title"`
	Category string `short:"k" help:"Post category"`
	Slug     string `help:"Override the slug derived from the title"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	cfg := root.Site.Config().WithDefaults()

	title := strings.TrimSpace(n.Title)
	if title == "" {
		return errors.New("title is empty")
	}
	slug := devblog.Slugify(n.Slug)
	if slug == "" {
		slug = devblog.Slugify(title)
	}

	path, err := scaffold.WritePost(cfg.ContentDir, scaffold.PostData{
		Title:    title,
		Date:     time.Now().Format("2006-01-02"),
		Author:   cfg.Author,
		Category: n.Category,
		Slug:     slug,
	})
	if err != nil {
		return err
	}
	g.Logger.Debug("Post created", "slug", slug, "path", path)
	fmt.Printf("Created %s\nSet draft: false in its frontmatter to publish.\n", path)
	return nil
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("devblog %s\n", version)
	return nil
}
