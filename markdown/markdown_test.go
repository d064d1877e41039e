package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got, err := ToHTML(tt.input)
		require.NoError(t, err)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
		{"[go](https://go.dev)", `<a href="https://go.dev">go</a>`},
	}
	for _, tt := range tests {
		got, err := ToHTML(tt.input)
		require.NoError(t, err)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got, err := ToHTML("```go\nfmt.Println(\"hello\")\n```")
	require.NoError(t, err)
	assert.Contains(t, got, `<pre><code class="language-go">`)
	assert.Contains(t, got, "fmt.Println(&quot;hello&quot;)")
}

func TestRenderMarkdownTable(t *testing.T) {
	got, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<th>a</th>")
	assert.Contains(t, got, "<td>2</td>")
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	got, err := ToHTML("<script>alert(1)</script>\n\ntext")
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "<p>text</p>")
}

func TestRenderMarkdownUnsafeLink(t *testing.T) {
	got, err := ToHTML("[x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, got, "javascript:")
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	err := Markdown("hello *world*").Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello <em>world</em></p>\n", buf.String())
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"first paragraph", "# Title\n\nFirst **para**.\n\nSecond.", 0, "First para."},
		{"skips empty", "![img](/a.png)\n\nText here", 0, "Text here"},
		{"truncates at word", "one two three four five", 12, "one two…"},
		{"no paragraph", "# Only heading", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Excerpt(tt.input, tt.max))
		})
	}
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadingMinutes(""))
	assert.Equal(t, 1, ReadingMinutes("short post"))
	assert.Equal(t, 2, ReadingMinutes(strings.Repeat("word ", WordsPerMinute+1)))
}

func TestPlainTextSkipsCode(t *testing.T) {
	got := PlainText("Intro **text**\n\n```\nignored code\n```\n\nOutro")
	assert.Equal(t, "Intro text Outro", got)
}
