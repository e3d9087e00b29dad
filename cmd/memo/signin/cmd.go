// Package signincmd implements the `memo signin` command.
package signincmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
)

// Command implements `memo signin`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	email string
}

// New creates the signin command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "signin",
		Short: "Sign in so memos can be created, edited and deleted",
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.email, "email", "", "Email address (required)")
	_ = c.cmd.MarkFlagRequired("email")
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

	sess, err := svc.Sessions.SignIn(c.email)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (until %s)\n",
		sess.Email, sess.ExpiresAt.Local().Format(time.DateTime))
	return nil
}
