// Package feed publishes a memo list as an Atom, RSS or JSON feed.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/preview"
)

// Format selects the feed encoding.
type Format string

// Supported formats.
const (
	Atom Format = "atom"
	RSS  Format = "rss"
	JSON Format = "json"
)

// ParseFormat accepts "atom", "rss" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Atom, RSS, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown feed format %q (want atom, rss or json)", s)
}

// Options describes the feed channel.
type Options struct {
	Title   string
	BaseURL string // memo links are BaseURL + "/api/memos/" + id
	Author  string
}

// Build converts a listing result into a feed, keeping the list order.
// The feed is updated at the newest memo's UpdatedAt.
func Build(items []listing.Item, opts Options) *feeds.Feed {
	base := strings.TrimRight(opts.BaseURL, "/")
	f := &feeds.Feed{
		Title:       opts.Title,
		Link:        &feeds.Link{Href: base + "/"},
		Description: opts.Title,
		Items:       make([]*feeds.Item, 0, len(items)),
	}
	if opts.Author != "" {
		f.Author = &feeds.Author{Name: opts.Author}
	}

	for _, it := range items {
		if it.UpdatedAt.After(f.Updated) {
			f.Updated = it.UpdatedAt
		}
		names := make([]string, 0, len(it.Categories))
		for _, c := range it.Categories {
			names = append(names, c.Name)
		}
		item := &feeds.Item{
			Id:          it.ID,
			Title:       it.Title,
			Link:        &feeds.Link{Href: base + "/api/memos/" + it.ID},
			Description: preview.Text(it.Content),
			Content:     it.Content,
			Created:     it.CreatedAt,
			Updated:     it.UpdatedAt,
		}
		if len(names) > 0 {
			item.Description = "[" + strings.Join(names, ", ") + "] " + item.Description
		}
		f.Items = append(f.Items, item)
	}
	if f.Updated.IsZero() {
		f.Updated = time.Unix(0, 0).UTC()
	}
	f.Created = f.Updated
	return f
}

// Encode renders the feed in the given format.
func Encode(f *feeds.Feed, format Format) (string, error) {
	var (
		out string
		err error
	)
	switch format {
	case Atom:
		out, err = f.ToAtom()
	case RSS:
		out, err = f.ToRss()
	case JSON:
		out, err = f.ToJSON()
	default:
		return "", fmt.Errorf("feed.Encode: unknown format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("feed.Encode: %w", err)
	}
	return out, nil
}
