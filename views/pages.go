package views

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/arpith/devblog"
	"github.com/arpith/devblog/markdown"
)

// Home shows the featured posts followed by the latest ones.
func Home(site devblog.Site, featured, recent []devblog.Post) templ.Component {
	body := component("home", struct {
		Featured []devblog.Post
		Recent   []devblog.Post
	}{featured, recent})
	return Layout(site, pageMeta(site, "", ""), "", body)
}

// BlogList is one page of the blog list with its pagination.
func BlogList(site devblog.Site, posts []devblog.Post, page devblog.Pagination, categories []string) templ.Component {
	title := "Blog"
	if page.Category != "" {
		title = devblog.CategoryTitle(page.Category)
	}
	if page.CurrentPage > 1 {
		title += " (page " + strconv.Itoa(page.CurrentPage) + ")"
	}
	segments := []string{"blog"}
	if page.CurrentPage > 1 {
		segments = append(segments, strconv.Itoa(page.CurrentPage))
	}
	body := component("blog-list", struct {
		Posts       []devblog.Post
		Page        devblog.Pagination
		CategoryNav categoryNav
	}{posts, page, categoryNav{Categories: categories, Active: page.Category}})
	return Layout(site, pageMeta(site, title, "", segments...), "", body)
}

// Post renders a single post with its markdown body.
func Post(site devblog.Site, post devblog.Post, related []devblog.Post) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := markdown.Markdown(post.Content).Render(ctx, &buf); err != nil {
			return err
		}
		return templates.ExecuteTemplate(w, "post", struct {
			Post    devblog.Post
			Body    template.HTML
			Related []devblog.Post
		}{post, template.HTML(buf.String()), related})
	})
	meta := pageMeta(site, post.Title, post.Description, "posts", post.Slug)
	meta.OGType = "article"
	return Layout(site, meta, devblog.BlogPostingJsonLD(post, site.Config), body)
}

// About is the static "Who Am I?" page.
func About(site devblog.Site) templ.Component {
	return Layout(site, pageMeta(site, "About", "", "about"), "", component("about", site))
}

// NotFound is the 404 page.
func NotFound(site devblog.Site) templ.Component {
	return Layout(site, pageMeta(site, "Not found", ""), "", component("not-found", nil))
}

// ServerError is the 5xx page.
func ServerError(site devblog.Site) templ.Component {
	return Layout(site, pageMeta(site, "Error", ""), "", component("server-error", nil))
}
