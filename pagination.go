package devblog

import (
	"net/url"
	"strconv"
)

// Pagination describes one page of the blog list.
type Pagination struct {
	CurrentPage int
	NumPages    int
	PerPage     int
	Total       int
	Category    string
}

// PageLink is one numbered entry in the pagination bar.
type PageLink struct {
	Number  int
	Link    string
	Current bool
}

// Paginate computes pagination for total rows. NumPages is at least 1 so an
// empty blog still has a first page. current is not clamped; see Valid.
func Paginate(total, perPage, current int, category string) Pagination {
	if perPage <= 0 {
		perPage = 1
	}
	numPages := (total + perPage - 1) / perPage
	if numPages < 1 {
		numPages = 1
	}
	return Pagination{
		CurrentPage: current,
		NumPages:    numPages,
		PerPage:     perPage,
		Total:       total,
		Category:    category,
	}
}

// Valid reports whether CurrentPage exists.
func (p Pagination) Valid() bool {
	return p.CurrentPage >= 1 && p.CurrentPage <= p.NumPages
}

// Skip is the number of rows before the current page.
func (p Pagination) Skip() int {
	if p.CurrentPage < 1 {
		return 0
	}
	return (p.CurrentPage - 1) * p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.CurrentPage < p.NumPages }

// PrevLink is the URL of the previous page.
func (p Pagination) PrevLink() string { return p.PageURL(p.CurrentPage - 1) }

// NextLink is the URL of the next page.
func (p Pagination) NextLink() string { return p.PageURL(p.CurrentPage + 1) }

// PageURL returns the URL of page n: /blog/ for the first page, /blog/n/ otherwise.
func (p Pagination) PageURL(n int) string {
	u := "/blog/"
	if n > 1 {
		u += strconv.Itoa(n) + "/"
	}
	if p.Category != "" {
		u += "?category=" + url.QueryEscape(p.Category)
	}
	return u
}

// Pages lists every page link in order.
func (p Pagination) Pages() []PageLink {
	links := make([]PageLink, 0, p.NumPages)
	for n := 1; n <= p.NumPages; n++ {
		links = append(links, PageLink{Number: n, Link: p.PageURL(n), Current: n == p.CurrentPage})
	}
	return links
}
