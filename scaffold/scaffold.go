// Package scaffold writes new post files from embedded templates.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains the scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// ErrExists is returned when the target post file is already there.
var ErrExists = errors.New("post file already exists")

// PostData holds the frontmatter values of a new post.
type PostData struct {
	Title    string
	Date     string // 2006-01-02
	Author   string
	Category string
	Slug     string
}

// RenderPost executes the post template with data.
func RenderPost(data PostData) ([]byte, error) {
	tmpl, err := template.ParseFS(Templates, "templates/post.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse post template: %w", err)
	}
	data.Title = quoteSafe(data.Title)
	data.Author = quoteSafe(data.Author)
	data.Category = quoteSafe(data.Category)
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute post template: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePost renders a post into dir/<slug>.md and returns the path. It
// never overwrites an existing file.
func WritePost(dir string, data PostData) (string, error) {
	if data.Slug == "" {
		return "", errors.New("post slug is empty")
	}
	content, err := RenderPost(data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, data.Slug+".md")
	if err := createExclusive(path, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}); err != nil {
		return "", err
	}
	return path, nil
}

// createExclusive creates path, which must not exist yet, and fills it
// with write. The file is removed again if writing or closing fails.
func createExclusive(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// quoteSafe escapes a value for a double-quoted YAML scalar.
func quoteSafe(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
