package main

import (
	"time"

	"github.com/arpith/devblog"
)

// SiteFlags map onto devblog.SiteConfig. Empty values take the engine
// defaults.
type SiteFlags struct {
	Name        string `help:"Site name" env:"SITE_NAME"`
	URL         string `help:"Canonical site URL" env:"SITE_URL"`
	Description string `help:"Site description" env:"SITE_DESCRIPTION"`
	Author      string `help:"Author name" env:"SITE_AUTHOR"`
	Email       string `help:"Contact address for the About page" env:"SITE_EMAIL"`

	Addr     string `help:"Listen address" env:"ADDR"`
	Content  string `help:"Content directory" env:"CONTENT_DIR" type:"path"`
	Database string `help:"SQLite index path" env:"DATABASE_PATH" type:"path"`
	Logo     string `help:"Logo source PNG" env:"LOGO_PATH" type:"path"`

	PostsPerPage int `help:"Posts per blog page" env:"POSTS_PER_PAGE"`
	HomeRecent   int `help:"Recent posts on the home page" env:"HOME_RECENT"`

	AdminPassword string `help:"Enable /admin/ with this password" env:"ADMIN_PASSWORD"`
	SessionSecret string `help:"Admin session signing secret" env:"ADMIN_SESSION_SECRET"`
	CookieSecure  bool   `help:"Mark cookies Secure (HTTPS)" env:"COOKIE_SECURE"`

	Watch           bool          `help:"Reindex when content changes" env:"WATCH"`
	LiveReload      bool          `name:"live-reload" help:"Reload open pages after a reindex" env:"LIVE_RELOAD"`
	ReindexInterval time.Duration `help:"Periodic reindex interval, 0 disables" env:"REINDEX_INTERVAL"`
	CacheTTL        time.Duration `name:"cache-ttl" help:"Post cache TTL" env:"POST_CACHE_TTL"`
}

// Config builds the engine configuration.
func (f SiteFlags) Config() devblog.SiteConfig {
	return devblog.SiteConfig{
		Name:            f.Name,
		URL:             f.URL,
		Description:     f.Description,
		Author:          f.Author,
		Email:           f.Email,
		Addr:            f.Addr,
		ContentDir:      f.Content,
		DatabasePath:    f.Database,
		LogoPath:        f.Logo,
		PostsPerPage:    f.PostsPerPage,
		HomeRecent:      f.HomeRecent,
		AdminPassword:   f.AdminPassword,
		SessionSecret:   f.SessionSecret,
		CookieSecure:    f.CookieSecure,
		Watch:           f.Watch,
		LiveReload:      f.LiveReload,
		ReindexInterval: f.ReindexInterval,
		PostCacheTTL:    f.CacheTTL,
	}
}
