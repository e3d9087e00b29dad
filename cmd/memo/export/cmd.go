// Package exportcmd implements the `memo export` command.
package exportcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/markdown"
	"github.com/go-ports/memoapp/internal/service"
)

// Command implements `memo export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	categoryID string
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export <dir>",
		Short: "Write memos as markdown files with YAML front-matter",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.categoryID, "category", "", "Only export memos with this category id")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.ListMemos(cmd.Context(), service.ListOptions{CategoryID: c.categoryID, Sort: "recent"})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, it := range res.Items {
		path, err := markdown.WriteMemo(dir, it.Memo, it.Categories)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintln(out, path)
	}
	fmt.Fprintf(out, "Exported %d memo(s) to %s\n", len(res.Items), dir)
	return nil
}
