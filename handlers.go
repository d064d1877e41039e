package devblog

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

const relatedPostsLimit = 3

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
// HEAD requests get the headers only.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	if c.Request().Method == http.MethodHead {
		return nil
	}
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) handleHome(c echo.Context) error {
	featured, err := a.Cache.ListPosts(ListQuery{Featured: Bool(true)})
	if err != nil {
		return err
	}
	recent, err := a.Cache.ListPosts(ListQuery{Featured: Bool(false), Limit: a.Config.HomeRecent})
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.site(c), featured, recent))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.site(c)))
}

// handleBlogList serves /blog/ and /blog/:page/: non-featured posts, newest
// first, one page at a time.
func (a *App) handleBlogList(c echo.Context) error {
	current := 1
	if raw := c.Param("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.ErrNotFound
		}
		if n == 1 {
			target := "/blog/"
			if q := c.QueryString(); q != "" {
				target += "?" + q
			}
			return c.Redirect(http.StatusMovedPermanently, target)
		}
		current = n
	}
	category := c.QueryParam("category")

	q := ListQuery{Featured: Bool(false), Category: category}
	total, err := a.Cache.CountPosts(q)
	if err != nil {
		return err
	}
	page := Paginate(total, a.Config.PostsPerPage, current, category)
	if !page.Valid() {
		return echo.ErrNotFound
	}
	q.Limit = page.PerPage
	q.Skip = page.Skip()
	posts, err := a.Cache.ListPosts(q)
	if err != nil {
		return err
	}
	categories, err := a.Cache.ListCategories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogList(a.site(c), posts, page, categories))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	posts, err := a.Cache.ListPosts(ListQuery{})
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(a.site(c), post, RelatedPosts(post, posts, relatedPostsLimit)))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(ListQuery{})
	if err != nil {
		return err
	}
	total, err := a.Cache.CountPosts(ListQuery{Featured: Bool(false)})
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, Paginate(total, a.Config.PostsPerPage, 1, ""))
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(ListQuery{Limit: feedSize})
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.site(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
