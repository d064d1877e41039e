package views

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/arpith/devblog"
)

type layoutData struct {
	Site   devblog.Site
	Meta   devblog.PageMeta
	Body   template.HTML
	JSONLD template.JS
	Year   int
}

// Layout wraps body in the document shell: head metadata, the navbar and
// <main>. jsonLD is emitted verbatim and must be JSON from encoding/json.
func Layout(site devblog.Site, meta devblog.PageMeta, jsonLD string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := body.Render(ctx, &buf); err != nil {
			return err
		}
		if jsonLD == "" {
			jsonLD = devblog.WebsiteJsonLD(site.Config)
		}
		return templates.ExecuteTemplate(w, "layout", layoutData{
			Site:   site,
			Meta:   meta,
			Body:   template.HTML(buf.String()),
			JSONLD: template.JS(jsonLD),
			Year:   time.Now().Year(),
		})
	})
}

// Navbar renders the logo and the site sections.
func Navbar(site devblog.Site) templ.Component {
	return component("navbar", site)
}

// Logo renders the fluid logo image linking home, or the site name when
// there is no logo image.
func Logo(site devblog.Site) templ.Component {
	return component("logo", site)
}

func pageMeta(site devblog.Site, title, description string, segments ...string) devblog.PageMeta {
	cfg := site.Config
	if title == "" {
		title = cfg.Name
	} else {
		title += " | " + cfg.Name
	}
	if description == "" {
		description = cfg.Description
	}
	return devblog.PageMeta{
		Title:       title,
		Description: description,
		URL:         devblog.BuildURL(cfg.URL, segments...),
		OGType:      "website",
	}
}
