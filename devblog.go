// Package devblog serves a personal blog from a directory of markdown posts.
// Posts are indexed into SQLite, rendered through templ components, and
// served with Echo: a home page, a paginated blog list, post pages, an
// About page, feeds, and a small admin dashboard for the index.
//
// Page markup is supplied through ViewFuncs so the look of the site lives
// outside the engine; the views package provides the default set.
package devblog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// Site is the per-request context every page component receives.
type Site struct {
	Config     SiteConfig
	Logo       *Logo
	LiveReload bool
	Path       string // request path, for marking the active nav item
}

// ViewFuncs holds the page components the handlers render. This is the
// inversion-of-control point that lets a site own all of its markup.
type ViewFuncs struct {
	Home           func(site Site, featured, recent []Post) templ.Component
	BlogList       func(site Site, posts []Post, page Pagination, categories []string) templ.Component
	Post           func(site Site, post Post, related []Post) templ.Component
	About          func(site Site) templ.Component
	AdminLogin     func(site Site, showError bool, csrfToken string) templ.Component
	AdminDashboard func(site Site, posts []Post, lastRun *IndexRun, message string, csrfToken string) templ.Component
	NotFound       func(site Site) templ.Component
	ServerError    func(site Site) templ.Component
}

// App is the central devblog application. It wires together the store,
// cache, indexer, handlers, middleware, and page components.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *PostCache
	Indexer *Indexer
	Metrics *Metrics
	Logo    *Logo
	Views   ViewFuncs
	Logger  *slog.Logger

	liveReload   *LiveReload
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a devblog App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		Logger:    slog.Default(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the index, runs the first content sync, loads the logo, and
// registers middleware and routes. It does not start background work or
// listen; Start does both.
func (a *App) Init(ctx context.Context) error {
	if a.Config.AdminPassword != "" && a.Config.SessionSecret == "" {
		return fmt.Errorf("devblog: SessionSecret is required when AdminPassword is set")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("devblog: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.Metrics = NewMetrics()
	a.Indexer = NewIndexer(a.Config.ContentDir, a.Store, a.Cache, a.Metrics, a.Logger)

	if _, err := a.Indexer.Sync(ctx); err != nil {
		return fmt.Errorf("devblog: initial index: %w", err)
	}

	logo, err := LoadLogo(a.Config.LogoPath)
	switch {
	case err == nil:
		a.Logo = logo
	case errors.Is(err, os.ErrNotExist):
		a.Logger.Info("No logo image, using site name", "path", a.Config.LogoPath)
	default:
		a.Logger.Warn("Logo unusable, using site name", "path", a.Config.LogoPath, "error", err)
	}

	if a.Config.LiveReload {
		a.liveReload = NewLiveReload(a.Logger)
		a.Indexer.OnSync(func(IndexRun) { a.liveReload.Broadcast("reload") })
	}
	if a.Config.AdminPassword != "" {
		a.loginLimiter = NewLoginLimiter(5, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app, starts the watcher and scheduler when
// configured, and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.Config.Watch {
		w, err := NewWatcher(a.Config.ContentDir, a.Indexer, a.Logger)
		if err != nil {
			return fmt.Errorf("devblog: init watcher: %w", err)
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	if a.Config.ReindexInterval > 0 {
		sched, err := NewScheduler(a.Logger)
		if err != nil {
			return fmt.Errorf("devblog: init scheduler: %w", err)
		}
		if _, err := sched.ScheduleReindex(ctx, a.Config.ReindexInterval, a.Indexer); err != nil {
			return fmt.Errorf("devblog: %w", err)
		}
		sched.Start()
		g.Go(func() error {
			<-ctx.Done()
			return sched.Stop()
		})
	}

	g.Go(func() error {
		a.Logger.Info("Listening", "addr", a.Config.Addr, "url", a.Config.URL)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if a.liveReload != nil {
			a.liveReload.Close()
		}
		return a.Echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded framework assets fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/site.css", embeddedHandler)
	e.GET("/public/livereload.js", embeddedHandler)

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/logo/:name", a.handleLogo)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.Metrics.Registry,
	}))

	page := func(path string, h echo.HandlerFunc) {
		e.GET(path, h)
		e.HEAD(path, h)
	}
	page("/", a.handleHome)
	page("/about/", a.handleAbout)
	page("/blog/", a.handleBlogList)
	page("/blog/:page/", a.handleBlogList)
	page("/posts/:slug/", a.handlePost)

	if a.liveReload != nil {
		e.GET("/_livereload", a.liveReload.Handler)
	}

	if a.Config.AdminPassword != "" {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.POST("/admin/reindex/", a.handleAdminReindex)
	}
}

// site builds the per-request view context.
func (a *App) site(c echo.Context) Site {
	return Site{
		Config:     a.Config,
		Logo:       a.Logo,
		LiveReload: a.liveReload != nil,
		Path:       c.Request().URL.Path,
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
