package views

import (
	"github.com/a-h/templ"

	"github.com/arpith/devblog"
)

func AdminLogin(site devblog.Site, showError bool, csrfToken string) templ.Component {
	body := component("admin-login", struct {
		ShowError bool
		CSRF      string
	}{showError, csrfToken})
	return Layout(site, pageMeta(site, "Admin", "", "admin"), "", body)
}

func AdminDashboard(site devblog.Site, posts []devblog.Post, lastRun *devblog.IndexRun, message string, csrfToken string) templ.Component {
	body := component("admin-dashboard", struct {
		Posts   []devblog.Post
		LastRun *devblog.IndexRun
		Message string
		CSRF    string
	}{posts, lastRun, message, csrfToken})
	return Layout(site, pageMeta(site, "Admin", "", "admin"), "", body)
}
