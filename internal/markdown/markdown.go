// Package markdown renders memo bodies to HTML and writes memos out as
// markdown files with YAML front-matter.
package markdown

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/models"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render converts memo markdown to HTML. Raw HTML in the source is omitted.
func Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("markdown.Render: %w", err)
	}
	return buf.String(), nil
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// Frontmatter is the YAML header of an exported memo.
type Frontmatter struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Categories []string `yaml:"categories,flow"`
	// CategoryNames holds the display names in the locale of the export.
	CategoryNames []string `yaml:"category_names,flow,omitempty"`
	Created    string   `yaml:"created"`
	Updated    string   `yaml:"updated"`
}

// Document renders a memo as a markdown document. The front-matter lists
// the category ids, with their names alongside.
func Document(m models.Memo, cats []categories.Category) (string, error) {
	ids := make([]string, len(cats))
	names := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
		names[i] = c.Name
	}
	fm, err := yaml.Marshal(Frontmatter{
		ID:            m.ID,
		Title:         m.Title,
		Categories:    ids,
		CategoryNames: names,
		Created:       m.CreatedAt.UTC().Format(time.RFC3339),
		Updated:       m.UpdatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("markdown.Document: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n# ")
	sb.WriteString(m.Title)
	sb.WriteString("\n")
	if m.Content != "" {
		sb.WriteString("\n")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// WriteMemo writes the memo document into dir and returns the file path.
// The directory must already exist. An existing export of the same memo is
// overwritten.
func WriteMemo(dir string, m models.Memo, cats []categories.Category) (string, error) {
	doc, err := Document(m, cats)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(m))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil { // #nosec G306 -- exported memos are meant to be shared
		return "", fmt.Errorf("markdown.WriteMemo: %w", err)
	}
	return path, nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// FileName returns "<updated date>-<slug>-<short id>.md". Titles without
// ASCII letters or digits contribute no slug.
func FileName(m models.Memo) string {
	slug := strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(m.Title), "-"), "-")
	if len(slug) > 40 {
		slug = strings.TrimRight(slug[:40], "-")
	}
	short := m.ID
	if len(short) > 8 {
		short = short[:8]
	}
	parts := []string{m.UpdatedAt.UTC().Format("2006-01-02")}
	if slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, short)
	return strings.Join(parts, "-") + ".md"
}
