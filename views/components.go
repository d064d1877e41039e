package views

import (
	"github.com/a-h/templ"

	"github.com/arpith/devblog"
)

// PostList renders posts as a grid of cards.
func PostList(posts []devblog.Post) templ.Component {
	return component("post-list", posts)
}

// Featured renders the featured block. It renders nothing for no posts.
func Featured(posts []devblog.Post) templ.Component {
	return component("featured", posts)
}

// Pagination renders the page bar. A single page renders nothing.
func Pagination(p devblog.Pagination) templ.Component {
	return component("pagination", p)
}

type categoryNav struct {
	Categories []string
	Active     string
}

// Categories renders the category filter for the blog list.
func Categories(categories []string, active string) templ.Component {
	return component("categories", categoryNav{Categories: categories, Active: active})
}
