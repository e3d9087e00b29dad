// Package initcmd implements the `memo init` command.
package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/config"
)

// Command implements `memo init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the memo home (config, database, session key)",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home := c.ctx.HomeDir()
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	cfgPath := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.Save(cfgPath, config.Default()); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}

	svc, err := c.ctx.Open()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Memo home initialized at %s\n", home)
	return nil
}
