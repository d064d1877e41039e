package devblog

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.site(c), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Logger.Warn("admin login failed", "ip", ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.site(c), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminReindex runs a content sync on demand. The index is rebuilt
// from the files; posts themselves are never edited here.
func (a *App) handleAdminReindex(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	run, err := a.Indexer.Sync(c.Request().Context())
	if err != nil {
		return a.renderAdminDashboard(c, "Reindex failed: "+err.Error())
	}
	return a.renderAdminDashboard(c, fmt.Sprintf("Reindexed: %d added, %d updated, %d removed, %d skipped.",
		run.Added, run.Updated, run.Removed, run.Skipped))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	var lastRun *IndexRun
	run, err := a.Store.LastIndexRun()
	switch {
	case err == nil:
		lastRun = &run
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return Render(c, a.Views.AdminDashboard(a.site(c), posts, lastRun, msg, CsrfToken(c)))
}
