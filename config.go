package devblog

import (
	"log/slog"
	"time"
)

// SiteConfig holds all configuration for a devblog site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD and the About page
	Email       string // Contact address shown on the About page (default DefaultEmail)

	// AboutIntro holds the "Who Am I?" paragraphs. Defaults to DefaultAboutIntro.
	AboutIntro []string

	Addr         string // Listen address (default ":3000")
	ContentDir   string // Markdown posts (default "content")
	DatabasePath string // SQLite index path (default "data/index.db")
	LogoPath     string // Source PNG for the navbar logo (default "content/assets/logos.png")

	PostsPerPage int // Blog list page size (default 6)
	HomeRecent   int // Recent posts shown on the home page (default 3)

	AdminPassword string // Enables /admin/ when set
	SessionSecret string // Required when AdminPassword is set
	CookieSecure  bool   // Set true for HTTPS

	Watch           bool          // Reindex on content changes
	LiveReload      bool          // Push reloads to open browsers after reindex
	ReindexInterval time.Duration // Periodic reindex, 0 disables

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
}

// DefaultAboutIntro is the About page copy used when none is configured.
var DefaultAboutIntro = []string{
	"I'm Arpith and if you love about reading technical blogs, you are at right place.",
	"Being software developer I come across many interesting works and here I'm sharing my personal views about it.",
}

// DefaultEmail is the About page contact address used when none is configured.
const DefaultEmail = "arpithtechy@gmail.com"

// WithDefaults returns c with every unset field filled in the way New
// fills it.
func (c SiteConfig) WithDefaults() SiteConfig {
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/index.db"
	}
	if c.LogoPath == "" {
		c.LogoPath = c.ContentDir + "/assets/logos.png"
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 6
	}
	if c.HomeRecent <= 0 {
		c.HomeRecent = 3
	}
	if c.Email == "" {
		c.Email = DefaultEmail
	}
	if len(c.AboutIntro) == 0 {
		c.AboutIntro = DefaultAboutIntro
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
