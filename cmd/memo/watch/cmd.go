// Package watchcmd implements the `memo watch` command.
package watchcmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/models"
	"github.com/go-ports/memoapp/internal/service"
)

// Command implements `memo watch`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	query      string
	categoryID string
	sort       string

	now func() time.Time
}

// New creates the watch command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx, now: time.Now}
	c.cmd = &cobra.Command{
		Use:   "watch",
		Short: "Print a memo list and reprint it when categories change, until interrupted",
		Long: `Print a memo list and keep it current.

The list is recomputed whenever the category catalog or a memo's categories
change, including changes made by other memo processes on the same home.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.query, "query", "q", "", "Keywords matched against title and content")
	f.StringVar(&c.categoryID, "category", "", "Only list memos with this category id")
	f.StringVar(&c.sort, "sort", "", "Order: recent or category (default from config)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	memos, err := svc.SearchMemos(cmd.Context(), c.query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s every %s (Ctrl-C to stop)\n\n", svc.Home, svc.Config.WatchInterval())
	view := c.follow(svc, memos, out)
	defer view.Close()

	return svc.Watch(cmd.Context())
}

// follow prints the current list and registers a reprint for every change.
// The caller must Close the returned view.
func (c *Command) follow(svc *service.Service, memos []models.Memo, out io.Writer) *listing.View {
	view := svc.NewView(memos, service.ListOptions{
		Query:      c.query,
		CategoryID: c.categoryID,
		Sort:       c.sort,
	})
	shared.PrintList(out, svc.Locale, view.Result(), c.now())
	view.OnChange(func(res listing.Result) {
		now := c.now()
		fmt.Fprintf(out, "\n--- %s ---\n", now.Format(time.TimeOnly))
		shared.PrintList(out, svc.Locale, res, now)
	})
	return view
}
