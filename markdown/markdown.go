// Package markdown renders post bodies to HTML and derives plain-text
// excerpts and reading times from them.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// WordsPerMinute is the reading speed used by ReadingMinutes.
const WordsPerMinute = 200

// md is safe for concurrent use. Raw HTML in posts is dropped because
// html.WithUnsafe is not set.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of content to buf.
func RenderMarkdown(buf *bytes.Buffer, content string) error {
	return md.Convert([]byte(content), buf)
}

// ToHTML is RenderMarkdown returning a string.
func ToHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Excerpt returns the text of the first non-empty paragraph of content,
// cut at a word boundary to at most maxRunes runes (with a trailing "…").
func Excerpt(content string, maxRunes int) string {
	rendered, err := ToHTML(content)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return ""
	}
	var text string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.Join(strings.Fields(s.Text()), " ")
		return text == ""
	})
	return truncate(text, maxRunes)
}

// ReadingMinutes estimates how long content takes to read, never less than 1.
func ReadingMinutes(content string) int {
	words := len(strings.Fields(PlainText(content)))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// PlainText strips markup from rendered content.
func PlainText(content string) string {
	rendered, err := ToHTML(content)
	if err != nil {
		return content
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return content
	}
	doc.Find("pre").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	cut := []rune(s)[:maxRunes]
	out := string(cut)
	if i := strings.LastIndex(out, " "); i > 0 {
		out = out[:i]
	}
	return strings.TrimRight(out, " ,.;:") + "…"
}
