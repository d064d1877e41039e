package devblog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"github.com/arpith/devblog/markdown"
)

// ErrUnterminatedFrontmatter is returned when a file opens a `---` block
// that never closes.
var ErrUnterminatedFrontmatter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

const descriptionRunes = 200

// dateLayouts are tried in order when normalizing frontmatter dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// frontmatter mirrors the YAML keys a post may carry. Every key is optional.
type frontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Category    string   `yaml:"category"`
	Slug        string   `yaml:"slug"`
	Featured    bool     `yaml:"featured"`
	Draft       bool     `yaml:"draft"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// SplitFrontmatter separates a leading `---` delimited YAML block from the
// markdown body. Both LF and CRLF files are accepted. had is false when the
// document has no frontmatter.
func SplitFrontmatter(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = []byte("\r\n")
	}
	open := append([]byte("---"), nl...)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}
	closeSeq := append(append(append([]byte{}, nl...), "---"...), nl...)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline.
		tail := append(append([]byte{}, nl...), "---"...)
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrUnterminatedFrontmatter
	}
	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// ParseContent builds a Post from raw file content. sourcePath is the path
// relative to the content dir and is used to derive the slug when the
// frontmatter has none.
func ParseContent(content []byte, sourcePath string) (Post, error) {
	rawFM, body, _, err := SplitFrontmatter(content)
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", sourcePath, err)
	}
	var meta frontmatter
	if len(bytes.TrimSpace(rawFM)) > 0 {
		if err := yaml.Unmarshal(rawFM, &meta); err != nil {
			return Post{}, fmt.Errorf("%s: parse frontmatter: %w", sourcePath, err)
		}
	}

	slug := Slugify(meta.Slug)
	if slug == "" {
		slug = slugFromPath(sourcePath)
	}
	if slug == "" {
		return Post{}, fmt.Errorf("%s: cannot derive slug", sourcePath)
	}

	date, err := normalizeDate(meta.Date)
	if err != nil {
		// Dates are display-only; an odd one must not hide the post.
		slog.Warn("Keeping unparsed post date", "path", sourcePath, "error", err)
		date = strings.TrimSpace(meta.Date)
	}

	text := strings.TrimSpace(string(body))
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = slug
	}
	description := strings.TrimSpace(meta.Description)
	if description == "" {
		description = markdown.Excerpt(text, descriptionRunes)
	}

	return Post{
		Title:          title,
		Date:           date,
		Author:         strings.TrimSpace(meta.Author),
		Category:       strings.TrimSpace(meta.Category),
		Slug:           slug,
		Featured:       meta.Featured,
		Draft:          meta.Draft,
		Description:    description,
		Tags:           FilterEmpty(meta.Tags),
		Content:        text,
		ReadingMinutes: markdown.ReadingMinutes(text),
		Link:           postLink(slug),
		SourcePath:     filepath.ToSlash(sourcePath),
		Fingerprint:    mdfp.CalculateFingerprintFromParts(strings.TrimSpace(string(rawFM)), text),
	}, nil
}

// ParseFile reads and parses one markdown file under root.
func ParseFile(root, rel string) (Post, error) {
	content, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return Post{}, fmt.Errorf("read %s: %w", rel, err)
	}
	return ParseContent(content, rel)
}

// FileError pairs a content path with the error that kept it out of the index.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Err.Error() }

// LoadDir parses every markdown file under root in lexical path order.
// Hidden files and directories are skipped. Files that fail to parse are
// reported in errs and do not stop the walk.
func LoadDir(root string) (posts []Post, errs []FileError, err error) {
	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(name) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	for _, rel := range paths {
		post, err := ParseFile(root, rel)
		if err != nil {
			errs = append(errs, FileError{Path: filepath.ToSlash(rel), Err: err})
			continue
		}
		posts = append(posts, post)
	}
	return posts, errs, nil
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// slugFromPath uses the file name, or the parent directory for index.md.
func slugFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	name := strings.TrimSuffix(base, path.Ext(base))
	if strings.EqualFold(name, "index") {
		if dir := path.Dir(rel); dir != "." {
			name = path.Base(dir)
		}
	}
	return Slugify(name)
}

func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", raw)
}
