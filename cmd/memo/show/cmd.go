// Package showcmd implements the `memo show` command.
package showcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/markdown"
	"github.com/go-ports/memoapp/internal/preview"
)

// Command implements `memo show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	html bool
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show <memo-id>",
		Short: "Print a memo with its categories",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.html, "html", false, "Render the body as HTML")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	item, err := svc.GetMemo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	body := item.Content
	if c.html {
		if body, err = markdown.Render(item.Content); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", item.Title)
	fmt.Fprintf(out, "ID:         %s\n", item.ID)
	fmt.Fprintf(out, "Categories: %s\n", shared.CategoryNames(item.Categories))
	fmt.Fprintf(out, "Updated:    %s\n", preview.RelativeTime(svc.Locale, item.UpdatedAt, time.Now()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, body)
	return nil
}
