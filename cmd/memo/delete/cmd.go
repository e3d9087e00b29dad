// Package deletecmd implements the `memo delete` command.
package deletecmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/service"
)

// Command implements `memo delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <memo-id>",
		Short: "Delete a memo and its category assignment",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
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

	err = svc.DeleteMemo(cmd.Context(), args[0])
	switch {
	case errors.Is(err, service.ErrMemoNotFound):
		fmt.Fprintf(cmd.OutOrStdout(), "No memo found for %s\n", args[0])
		return nil
	case err != nil:
		return shared.SignInHint(svc, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted memo %s\n", args[0])
	return nil
}
