package devblog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "index.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPosts(t *testing.T, s *Store, posts ...Post) {
	t.Helper()
	for _, p := range posts {
		if p.SourcePath == "" {
			p.SourcePath = p.Slug + ".md"
		}
		if err := s.UpsertPost(p); err != nil {
			t.Fatalf("UpsertPost(%s) failed: %v", p.Slug, err)
		}
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestUpsertAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := Post{
		Slug:           "test-post",
		Title:          "Test Post",
		Date:           "2024-01-15",
		Author:         "Arpith",
		Category:       "golang",
		Tags:           []string{"Go", " testing "},
		Description:    "A test post",
		Content:        "# Test Content\n\nThis is test content.",
		ReadingMinutes: 1,
		SourcePath:     "test-post.md",
		Fingerprint:    "abc123",
	}
	seedPosts(t, s, post)

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Date != post.Date {
		t.Errorf("Date = %q, want %q", got.Date, post.Date)
	}
	if got.Category != post.Category {
		t.Errorf("Category = %q, want %q", got.Category, post.Category)
	}
	if got.Content != post.Content {
		t.Errorf("Content = %q, want %q", got.Content, post.Content)
	}
	if got.Fingerprint != post.Fingerprint {
		t.Errorf("Fingerprint = %q, want %q", got.Fingerprint, post.Fingerprint)
	}
	if got.Link != "/posts/test-post/" {
		t.Errorf("Link = %q, want /posts/test-post/", got.Link)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPost("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(missing) error = %v, want ErrNotFound", err)
	}
}

func TestGetPostHidesDrafts(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s, Post{Slug: "wip", Title: "WIP", Draft: true})

	if _, err := s.GetPost("wip"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(draft) error = %v, want ErrNotFound", err)
	}
	got, err := s.GetPostAny("wip")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if !got.Draft {
		t.Error("GetPostAny should return the draft")
	}
}

func TestListPostsFilterAndOrder(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s,
		Post{Slug: "b", Title: "B", Date: "2024-02-01", Category: "Go"},
		Post{Slug: "a", Title: "A", Date: "2024-02-01", Category: "go"},
		Post{Slug: "old", Title: "Old", Date: "2023-01-01", Category: "misc"},
		Post{Slug: "feat", Title: "Feat", Date: "2024-06-01", Featured: true},
		Post{Slug: "draft", Title: "Draft", Date: "2024-07-01", Draft: true},
	)

	posts, err := s.ListPosts(ListQuery{Featured: Bool(false)})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	want := []string{"a", "b", "old"}
	if got := slugs(posts); !equalStrings(got, want) {
		t.Errorf("non-featured = %v, want %v", got, want)
	}

	featured, err := s.ListPosts(ListQuery{Featured: Bool(true)})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if got := slugs(featured); !equalStrings(got, []string{"feat"}) {
		t.Errorf("featured = %v, want [feat]", got)
	}

	byCategory, err := s.ListPosts(ListQuery{Category: "GO"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if got := slugs(byCategory); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("category go = %v, want [a b]", got)
	}

	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("ListAllPosts returned %d posts, want 5", len(all))
	}
}

func TestListPostsPaging(t *testing.T) {
	s := setupTestStore(t)
	for _, d := range []string{"01", "02", "03", "04", "05"} {
		seedPosts(t, s, Post{Slug: "p" + d, Title: d, Date: "2024-01-" + d})
	}

	page1, err := s.ListPosts(ListQuery{Limit: 2})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	page3, err := s.ListPosts(ListQuery{Limit: 2, Skip: 4})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if got := slugs(page1); !equalStrings(got, []string{"p05", "p04"}) {
		t.Errorf("page 1 = %v", got)
	}
	if got := slugs(page3); !equalStrings(got, []string{"p01"}) {
		t.Errorf("page 3 = %v", got)
	}

	rest, err := s.ListPosts(ListQuery{Skip: 3})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if got := slugs(rest); !equalStrings(got, []string{"p02", "p01"}) {
		t.Errorf("skip 3 = %v", got)
	}

	n, err := s.CountPosts(ListQuery{Limit: 2, Skip: 4})
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if n != 5 {
		t.Errorf("CountPosts = %d, want 5", n)
	}
}

func TestListCategories(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s,
		Post{Slug: "a", Category: "Golang"},
		Post{Slug: "b", Category: "golang"},
		Post{Slug: "c", Category: "databases"},
		Post{Slug: "d"},
		Post{Slug: "e", Category: "secret", Draft: true},
	)
	cats, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if want := []string{"databases", "golang"}; !equalStrings(cats, want) {
		t.Errorf("ListCategories = %v, want %v", cats, want)
	}
}

func TestDeletePostAndIndexedFiles(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s,
		Post{Slug: "keep", SourcePath: "keep.md", Fingerprint: "k1"},
		Post{Slug: "drop", SourcePath: "nested/drop.md", Fingerprint: "d1"},
	)
	if err := s.DeletePost("drop"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	files, err := s.IndexedFiles()
	if err != nil {
		t.Fatalf("IndexedFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("IndexedFiles has %d entries, want 1", len(files))
	}
	if f := files["keep"]; f.SourcePath != "keep.md" || f.Fingerprint != "k1" {
		t.Errorf("IndexedFiles[keep] = %+v", f)
	}
}

func TestIndexRuns(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.LastIndexRun(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LastIndexRun on empty store error = %v, want ErrNotFound", err)
	}

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := IndexRun{ID: "one", StartedAt: base, FinishedAt: base.Add(time.Second), Added: 3}
	second := IndexRun{ID: "two", StartedAt: base.Add(time.Minute), FinishedAt: base.Add(time.Minute + 500*time.Millisecond), Updated: 1, Error: "boom"}
	for _, r := range []IndexRun{second, first} {
		if err := s.RecordIndexRun(r); err != nil {
			t.Fatalf("RecordIndexRun failed: %v", err)
		}
	}

	got, err := s.LastIndexRun()
	if err != nil {
		t.Fatalf("LastIndexRun failed: %v", err)
	}
	if got.ID != "two" || got.Updated != 1 || got.Error != "boom" {
		t.Errorf("LastIndexRun = %+v", got)
	}
	if !got.StartedAt.Equal(second.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, second.StartedAt)
	}
	if got.Duration() != 500*time.Millisecond {
		t.Errorf("Duration = %v, want 500ms", got.Duration())
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{",go,web,", []string{"go", "web"}},
		{",", nil},
		{"", nil},
		{",single,", []string{"single"}},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.input); !equalStrings(got, tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func slugs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNonASCIICategories(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s,
		Post{Slug: "a", Date: "2024-01-02", Category: "Économie"},
		Post{Slug: "b", Date: "2024-01-01", Category: " économie "},
		Post{Slug: "c", Date: "2024-01-03", Category: "Ökologie"},
	)

	posts, err := s.ListPosts(ListQuery{Category: "ÉCONOMIE"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if got := slugs(posts); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("category économie = %v, want [a b]", got)
	}

	cats, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if want := []string{"économie", "ökologie"}; !equalStrings(cats, want) {
		t.Errorf("ListCategories = %v, want %v", cats, want)
	}
}

func TestStoreAddsCategoryKeyToOldIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	seedPosts(t, s, Post{Slug: "a", Category: "Go", Fingerprint: "f1"})
	if _, err := s.db.Exec(`DROP INDEX idx_posts_category; ALTER TABLE posts DROP COLUMN category_key`); err != nil {
		t.Fatalf("downgrade schema: %v", err)
	}
	s.Close()

	s, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	files, err := s.IndexedFiles()
	if err != nil {
		t.Fatalf("IndexedFiles failed: %v", err)
	}
	if files["a"].Fingerprint != "" {
		t.Errorf("fingerprint = %q, want cleared so the next sync rewrites the row", files["a"].Fingerprint)
	}
	seedPosts(t, s, Post{Slug: "a", Category: "Go", Fingerprint: "f1"})
	posts, err := s.ListPosts(ListQuery{Category: "go"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("ListPosts(go) returned %d posts, want 1", len(posts))
	}
}
