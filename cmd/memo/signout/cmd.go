// Package signoutcmd implements the `memo signout` command.
package signoutcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
)

// Command implements `memo signout`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the signout command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "signout",
		Short: "Sign out and remove the stored session",
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

	removed, err := svc.Sessions.SignOut()
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
	}
	return nil
}
