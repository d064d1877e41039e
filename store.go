package devblog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("post not found")

// Store is the SQLite index of the content directory.
type Store struct {
	db *sql.DB
}

// runTimeLayout is fixed width so index_runs sort chronologically as text.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const postColumns = `slug, title, date, author, category, featured, draft, description, tags, content, reading_minutes, source_path, fingerprint`

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets page renders read while an index run writes; synchronous=NORMAL
	// is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    category_key TEXT NOT NULL DEFAULT '',
    featured INTEGER NOT NULL DEFAULT 0,
    draft INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',',
    content TEXT NOT NULL,
    reading_minutes INTEGER NOT NULL DEFAULT 1,
    source_path TEXT NOT NULL,
    fingerprint TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_listing ON posts(featured, draft, date DESC);

CREATE TABLE IF NOT EXISTS index_runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    added INTEGER NOT NULL,
    updated INTEGER NOT NULL,
    removed INTEGER NOT NULL,
    unchanged INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT ''
);
`)
	if err != nil {
		return err
	}
	return s.migrateCategoryKey()
}

// migrateCategoryKey adds category_key to indexes created before it
// existed. Fingerprints are cleared so the next sync rewrites every row.
func (s *Store) migrateCategoryKey() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('posts') WHERE name = 'category_key'`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.db.Exec(`
ALTER TABLE posts ADD COLUMN category_key TEXT NOT NULL DEFAULT '';
UPDATE posts SET fingerprint = '';
`); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category_key)`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (Post, error) {
	var p Post
	var tags string
	var featured, draft int
	if err := r.Scan(&p.Slug, &p.Title, &p.Date, &p.Author, &p.Category, &featured, &draft,
		&p.Description, &tags, &p.Content, &p.ReadingMinutes, &p.SourcePath, &p.Fingerprint); err != nil {
		return Post{}, err
	}
	p.Featured = featured == 1
	p.Draft = draft == 1
	p.Tags = ParseTags(tags)
	p.Link = postLink(p.Slug)
	return p, nil
}

func (q ListQuery) where() (string, []any) {
	var clauses []string
	var args []any
	if !q.IncludeDrafts {
		clauses = append(clauses, "draft = 0")
	}
	if q.Featured != nil {
		clauses = append(clauses, "featured = ?")
		args = append(args, boolInt(*q.Featured))
	}
	if c := normalizeCategory(q.Category); c != "" {
		clauses = append(clauses, "category_key = ?")
		args = append(args, c)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListPosts returns posts matching q ordered by date descending, then slug.
func (s *Store) ListPosts(q ListQuery) ([]Post, error) {
	where, args := q.where()
	query := `SELECT ` + postColumns + ` FROM posts` + where + ` ORDER BY date DESC, slug ASC`
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Skip)
	} else if q.Skip > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, q.Skip)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPosts counts posts matching q, ignoring Limit and Skip.
func (s *Store) CountPosts(q ListQuery) (int, error) {
	where, args := q.where()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`+where, args...).Scan(&n)
	return n, err
}

// ListAllPosts returns every indexed post, drafts included.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.ListPosts(ListQuery{IncludeDrafts: true})
}

// ListCategories returns the distinct non-empty category keys of public
// posts, sorted.
func (s *Store) ListCategories() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category_key FROM posts WHERE draft = 0 AND category_key != '' ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetPost returns a single public post by slug.
func (s *Store) GetPost(slug string) (Post, error) {
	p, err := scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND draft = 0`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// GetPostAny returns a post by slug regardless of draft status (for admin).
func (s *Store) GetPostAny(slug string) (Post, error) {
	p, err := scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// UpsertPost inserts or replaces a post. Tags are normalized to lowercase.
func (s *Store) UpsertPost(p Post) error {
	normalizedTags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		normalizedTags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	tagString := "," + strings.Join(normalizedTags, ",") + ","
	_, err := s.db.Exec(`INSERT OR REPLACE INTO posts (`+postColumns+`, category_key) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Date, p.Author, p.Category, boolInt(p.Featured), boolInt(p.Draft),
		p.Description, tagString, p.Content, p.ReadingMinutes, p.SourcePath, p.Fingerprint,
		normalizeCategory(p.Category))
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

// IndexedFile is what the indexer needs to know about a stored post.
type IndexedFile struct {
	SourcePath  string
	Fingerprint string
}

// IndexedFiles maps every indexed slug to its source path and fingerprint.
func (s *Store) IndexedFiles() (map[string]IndexedFile, error) {
	rows, err := s.db.Query(`SELECT slug, source_path, fingerprint FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]IndexedFile)
	for rows.Next() {
		var slug string
		var f IndexedFile
		if err := rows.Scan(&slug, &f.SourcePath, &f.Fingerprint); err != nil {
			return nil, err
		}
		out[slug] = f
	}
	return out, rows.Err()
}

// RecordIndexRun stores the outcome of an index pass.
func (s *Store) RecordIndexRun(r IndexRun) error {
	_, err := s.db.Exec(`INSERT INTO index_runs (id, started_at, finished_at, added, updated, removed, unchanged, skipped, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(runTimeLayout), r.FinishedAt.UTC().Format(runTimeLayout),
		r.Added, r.Updated, r.Removed, r.Unchanged, r.Skipped, r.Error)
	return err
}

// LastIndexRun returns the most recent index pass, or ErrNotFound.
func (s *Store) LastIndexRun() (IndexRun, error) {
	var r IndexRun
	var started, finished string
	err := s.db.QueryRow(`SELECT id, started_at, finished_at, added, updated, removed, unchanged, skipped, error FROM index_runs ORDER BY started_at DESC LIMIT 1`).
		Scan(&r.ID, &started, &finished, &r.Added, &r.Updated, &r.Removed, &r.Unchanged, &r.Skipped, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return IndexRun{}, ErrNotFound
	}
	if err != nil {
		return IndexRun{}, err
	}
	if r.StartedAt, err = time.Parse(runTimeLayout, started); err != nil {
		return IndexRun{}, fmt.Errorf("parse started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(runTimeLayout, finished); err != nil {
		return IndexRun{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return r, nil
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
