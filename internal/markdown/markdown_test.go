package markdown_test

import (
	"os"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/markdown"
	"github.com/go-ports/memoapp/internal/models"
)

func sampleMemo() models.Memo {
	t := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return models.Memo{
		ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		Title:     "Release: plan & notes",
		Content:   "- ship it\n- write docs",
		CreatedAt: t.Add(-time.Hour),
		UpdatedAt: t,
	}
}

// splitDocument parses the front-matter of an exported document and returns
// it with the body that follows.
func splitDocument(c *qt.C, doc string) (markdown.Frontmatter, string) {
	c.Helper()
	parts := strings.SplitN(doc, "---\n", 3)
	c.Assert(parts, qt.HasLen, 3)
	c.Assert(parts[0], qt.Equals, "")
	var fm markdown.Frontmatter
	c.Assert(yaml.Unmarshal([]byte(parts[1]), &fm), qt.IsNil)
	return fm, strings.TrimLeft(parts[2], "\n")
}

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestRender_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "heading", content: "# Hello", want: "<h1>Hello</h1>\n"},
		{name: "emphasis", content: "**bold**", want: "<p><strong>bold</strong></p>\n"},
		{name: "strikethrough extension", content: "~~gone~~", want: "<p><del>gone</del></p>\n"},
		{name: "raw html omitted", content: "<script>x</script>", want: "<!-- raw HTML omitted -->\n"},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			got, err := markdown.Render(tt.content)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// Document
// ---------------------------------------------------------------------------

func TestDocument_HappyPath(t *testing.T) {
	c := qt.New(t)

	cats := []categories.Category{{ID: "work", Name: "仕事"}, {ID: "idea", Name: "アイデア"}}
	doc, err := markdown.Document(sampleMemo(), cats)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasPrefix(doc, "---\n"), qt.IsTrue)
	c.Assert(doc, qt.Contains, "\n# Release: plan & notes\n\n- ship it\n- write docs\n")

	c.Assert(doc, qt.Contains, "categories: [work, idea]\n")

	fm, body := splitDocument(c, doc)
	c.Assert(fm, qt.DeepEquals, markdown.Frontmatter{
		ID:            "0f8fad5b-d9cb-469f-a165-70867728950e",
		Title:         "Release: plan & notes",
		Categories:    []string{"work", "idea"},
		CategoryNames: []string{"仕事", "アイデア"},
		Created:       "2025-02-03T03:05:06Z",
		Updated:       "2025-02-03T04:05:06Z",
	})
	c.Assert(strings.HasPrefix(body, "# Release"), qt.IsTrue)
}

func TestDocument_NoCategories(t *testing.T) {
	c := qt.New(t)

	doc, err := markdown.Document(sampleMemo(), nil)
	c.Assert(err, qt.IsNil)
	c.Assert(doc, qt.Contains, "categories: []\n")
	c.Assert(doc, qt.Not(qt.Contains), "category_names")
}

// ---------------------------------------------------------------------------
// WriteMemo / FileName
// ---------------------------------------------------------------------------

func TestWriteMemo_HappyPath(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	path, err := markdown.WriteMemo(dir, sampleMemo(), nil)
	c.Assert(err, qt.IsNil)
	c.Assert(path, qt.Matches, `.*/2025-02-03-release-plan-notes-0f8fad5b\.md`)

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	fm, _ := splitDocument(c, string(data))
	c.Assert(fm.Categories, qt.HasLen, 0)
}

func TestWriteMemo_FailurePath(t *testing.T) {
	c := qt.New(t)
	_, err := markdown.WriteMemo("/nonexistent/dir", sampleMemo(), nil)
	c.Assert(err, qt.ErrorMatches, "markdown.WriteMemo: .*")
}

func TestFileName(t *testing.T) {
	c := qt.New(t)
	m := sampleMemo()
	m.Title = "議事録"
	c.Assert(markdown.FileName(m), qt.Equals, "2025-02-03-0f8fad5b.md")
}
