package feed_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/feed"
	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/models"
)

var (
	older = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	newer = time.Date(2025, 4, 3, 8, 0, 0, 0, time.UTC)
)

func sampleItems() []listing.Item {
	return []listing.Item{
		{
			Memo:       models.Memo{ID: "b", Title: "Second", Content: "## Body", CreatedAt: older, UpdatedAt: newer},
			Categories: categories.Defaults()[:1],
		},
		{
			Memo: models.Memo{ID: "a", Title: "First", CreatedAt: older, UpdatedAt: older},
		},
	}
}

// ---------------------------------------------------------------------------
// ParseFormat
// ---------------------------------------------------------------------------

func TestParseFormat_HappyPath(t *testing.T) {
	c := qt.New(t)
	for in, want := range map[string]feed.Format{"atom": feed.Atom, " RSS ": feed.RSS, "Json": feed.JSON} {
		got, err := feed.ParseFormat(in)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, want)
	}
}

func TestParseFormat_FailurePath(t *testing.T) {
	c := qt.New(t)
	_, err := feed.ParseFormat("yaml")
	c.Assert(err, qt.ErrorMatches, `unknown feed format "yaml" .*`)
}

// ---------------------------------------------------------------------------
// Build / Encode
// ---------------------------------------------------------------------------

func TestBuild(t *testing.T) {
	c := qt.New(t)
	f := feed.Build(sampleItems(), feed.Options{Title: "Memos", BaseURL: "http://localhost:8787/", Author: "me"})

	c.Assert(f.Updated, qt.Equals, newer)
	c.Assert(f.Items, qt.HasLen, 2)
	c.Assert(f.Items[0].Id, qt.Equals, "b")
	c.Assert(f.Items[0].Link.Href, qt.Equals, "http://localhost:8787/api/memos/b")
	c.Assert(f.Items[0].Description, qt.Equals, "[仕事] Body")
	c.Assert(f.Items[1].Description, qt.Equals, "")
}

func TestBuild_Empty(t *testing.T) {
	c := qt.New(t)
	f := feed.Build(nil, feed.Options{Title: "Memos"})
	c.Assert(f.Items, qt.HasLen, 0)
	c.Assert(f.Updated.IsZero(), qt.IsFalse)
}

func TestEncode(t *testing.T) {
	c := qt.New(t)
	f := feed.Build(sampleItems(), feed.Options{Title: "Memos", BaseURL: "http://localhost"})

	c.Run("atom", func(c *qt.C) {
		out, err := feed.Encode(f, feed.Atom)
		c.Assert(err, qt.IsNil)
		c.Assert(strings.Contains(out, "<feed"), qt.IsTrue)
		c.Assert(strings.Contains(out, "<title>Second</title>"), qt.IsTrue)
	})

	c.Run("rss", func(c *qt.C) {
		out, err := feed.Encode(f, feed.RSS)
		c.Assert(err, qt.IsNil)
		c.Assert(strings.Contains(out, "<rss"), qt.IsTrue)
	})

	c.Run("json", func(c *qt.C) {
		out, err := feed.Encode(f, feed.JSON)
		c.Assert(err, qt.IsNil)
		var doc struct {
			Title string `json:"title"`
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		}
		c.Assert(json.Unmarshal([]byte(out), &doc), qt.IsNil)
		c.Assert(doc.Title, qt.Equals, "Memos")
		c.Assert(doc.Items, qt.HasLen, 2)
		c.Assert(doc.Items[0].ID, qt.Equals, "b")
	})

	c.Run("unknown", func(c *qt.C) {
		_, err := feed.Encode(f, feed.Format("yaml"))
		c.Assert(err, qt.ErrorMatches, `feed.Encode: unknown format "yaml"`)
	})
}
