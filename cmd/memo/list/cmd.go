// Package listcmd implements the `memo list` command.
package listcmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/service"
)

// Command implements `memo list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	query      string
	categoryID string
	sort       string
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List memos, optionally searched, filtered by category and sorted",
		Args:  cobra.NoArgs,
		RunE:  c.run,
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

	res, err := svc.ListMemos(cmd.Context(), service.ListOptions{
		Query:      c.query,
		CategoryID: c.categoryID,
		Sort:       c.sort,
	})
	if err != nil {
		return err
	}

	shared.PrintList(cmd.OutOrStdout(), svc.Locale, res, time.Now())
	return nil
}
