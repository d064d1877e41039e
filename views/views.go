// Package views is the default look of a devblog site. Components are
// templ.Components backed by html/template definitions embedded from
// templates/, so pages compose the same way hand-written templ code does.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/arpith/devblog"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("views").Funcs(template.FuncMap{
	"formatDate":    FormatDate,
	"categoryTitle": devblog.CategoryTitle,
	"navActive":     NavActive,
	"shortHash":     shortHash,
	"lower":         strings.ToLower,
	"ago":           humanize.Time,
}).ParseFS(files, "templates/*.html"))

// Default returns the ViewFuncs a devblog.App renders with.
func Default() devblog.ViewFuncs {
	return devblog.ViewFuncs{
		Home:           Home,
		BlogList:       BlogList,
		Post:           Post,
		About:          About,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

// component renders the named template with data.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

// FormatDate turns 2006-01-02 into "January 2, 2006". Anything else is
// returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// NavActive reports whether path falls under any of the prefixes.
func NavActive(path string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func shortHash(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
