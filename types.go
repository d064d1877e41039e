package devblog

import "time"

// Post is a read-only projection of one markdown file in the content directory.
type Post struct {
	Title          string
	Date           string // normalized to 2006-01-02, empty when unknown
	Author         string
	Category       string
	Slug           string
	Featured       bool
	Draft          bool
	Description    string
	Tags           []string
	Content        string // markdown body
	ReadingMinutes int
	Link           string
	SourcePath     string // relative to the content dir
	Fingerprint    string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// IndexRun records the outcome of one content index pass.
type IndexRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Added      int
	Updated    int
	Removed    int
	Unchanged  int
	Skipped    int
	Error      string
}

// Duration reports how long the run took.
func (r IndexRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ListQuery selects posts the way the blog list and home page need them.
// Nil Featured means "either".
type ListQuery struct {
	Featured      *bool
	Category      string
	IncludeDrafts bool
	Limit         int // 0 means no limit
	Skip          int
}

// Bool returns a pointer to v, for ListQuery.Featured.
func Bool(v bool) *bool { return &v }

func postLink(slug string) string {
	return "/posts/" + slug + "/"
}
