package devblog

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the home, about and blog list pages followed by every
// public post.
func (a *App) renderSitemap(c echo.Context, posts []Post, blog Pagination) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "about")},
		{Loc: BuildURL(base, "blog")},
	}
	for n := 2; n <= blog.NumPages; n++ {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "blog", strconv.Itoa(n))})
	}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(base, "posts", p.Slug)}
		if _, err := time.Parse("2006-01-02", p.Date); err == nil {
			u.LastMod = p.Date
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
