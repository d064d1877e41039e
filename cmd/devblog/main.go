package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set at build time via ldflags.
var version = "dev"

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI is the devblog command line. Site flags fall back to environment
// variables, which may come from a .env file in the working directory.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging" env:"DEVBLOG_VERBOSE"`

	Site SiteFlags `embed:""`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the blog"`
	Index   IndexCmd   `cmd:"" help:"Sync the content directory into the index once"`
	New     NewCmd     `cmd:"" help:"Create a new draft post"`
	Version VersionCmd `cmd:"" help:"Print the devblog version"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env", "error", err)
	}

	var cli CLI
	global := &Global{Logger: slog.Default()}
	ctx := kong.Parse(&cli,
		kong.Name("devblog"),
		kong.Description("A personal blog served from a directory of markdown posts."),
		kong.UsageOnError(),
		kong.Bind(global, &cli),
	)
	if err := ctx.Run(); err != nil {
		global.Logger.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
