// Package feedcmd implements the `memo feed` command.
package feedcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/feed"
	"github.com/go-ports/memoapp/internal/service"
)

// Command implements `memo feed`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	format     string
	baseURL    string
	title      string
	categoryID string
	sort       string
}

// New creates the feed command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "feed",
		Short: "Print the memo list as an Atom, RSS or JSON feed",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.format, "format", string(feed.Atom), "Feed format: atom, rss or json")
	f.StringVar(&c.baseURL, "base-url", "", "Base URL for memo links (default: http://<server.addr>)")
	f.StringVar(&c.title, "title", "memoapp", "Feed title")
	f.StringVar(&c.categoryID, "category", "", "Only include memos with this category id")
	f.StringVar(&c.sort, "sort", "", "Order: recent or category (default from config)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	format, err := feed.ParseFormat(c.format)
	if err != nil {
		return err
	}

	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.ListMemos(cmd.Context(), service.ListOptions{CategoryID: c.categoryID, Sort: c.sort})
	if err != nil {
		return err
	}

	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "http://" + svc.Config.Server.Addr
	}
	author := ""
	if sess, ok := svc.Sessions.Current(); ok {
		author = sess.Email
	}

	doc, err := feed.Encode(feed.Build(res.Items, feed.Options{Title: c.title, BaseURL: baseURL, Author: author}), format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc)
	return nil
}
