// Package statuscmd implements the `memo status` command.
package statuscmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/i18n"
)

// Command implements `memo status`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the status command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "status",
		Short: "Show the memo home, session and catalog usage",
		RunE:  c.run,
	}
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

	count, err := svc.CountMemos(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Home:       %s\n", svc.Home)
	if sess, ok := svc.Sessions.Current(); ok {
		fmt.Fprintf(out, "Session:    %s (until %s)\n", sess.Email, sess.ExpiresAt.Local().Format(time.DateTime))
	} else {
		fmt.Fprintln(out, "Session:    signed out")
	}
	fmt.Fprintf(out, "Memos:      %d\n", count)

	cats := svc.Categories.Load()
	fmt.Fprintf(out, "Categories: %d / %d", len(cats), categories.Limit)
	if remaining := categories.Limit - len(cats); remaining > 0 {
		fmt.Fprintf(out, " (%s)\n", i18n.T(svc.Locale, i18n.CategoryRemaining, remaining))
	} else {
		fmt.Fprintf(out, " (%s)\n", i18n.T(svc.Locale, i18n.CategoryLimitReached, categories.Limit))
	}
	return nil
}
