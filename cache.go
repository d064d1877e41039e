package devblog

import (
	"sync"
	"time"
)

// PostCache is an in-memory cache of public posts and categories with TTL.
// Its queries follow the same rules as Store.ListPosts.
type PostCache struct {
	mu         sync.RWMutex
	posts      []Post
	categories []string
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts(ListQuery{})
	if err != nil {
		return err
	}
	categories, err := c.store.ListCategories()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.categories = categories
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and categories after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]Post, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, categories := c.posts, c.categories
		c.mu.RUnlock()
		return posts, categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.categories, nil
}

func (q ListQuery) matches(p Post) bool {
	if p.Draft && !q.IncludeDrafts {
		return false
	}
	if q.Featured != nil && p.Featured != *q.Featured {
		return false
	}
	if c := normalizeCategory(q.Category); c != "" && normalizeCategory(p.Category) != c {
		return false
	}
	return true
}

// ListPosts returns cached posts matching q. Drafts are never cached.
func (c *PostCache) ListPosts(q ListQuery) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var filtered []Post
	skipped := 0
	for _, p := range posts {
		if !q.matches(p) {
			continue
		}
		if skipped < q.Skip {
			skipped++
			continue
		}
		filtered = append(filtered, p)
		if q.Limit > 0 && len(filtered) == q.Limit {
			break
		}
	}
	return filtered, nil
}

// CountPosts counts cached posts matching q, ignoring Limit and Skip.
func (c *PostCache) CountPosts(q ListQuery) (int, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range posts {
		if q.matches(p) {
			n++
		}
	}
	return n, nil
}

// ListCategories returns all categories of public posts.
func (c *PostCache) ListCategories() ([]string, error) {
	_, categories, err := c.ensureLoaded()
	return categories, err
}

// GetPost returns a single public post by slug from the cache.
func (c *PostCache) GetPost(slug string) (Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}
