// Package newcmd implements the `memo new` command.
package newcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/i18n"
	"github.com/go-ports/memoapp/internal/models"
)

// Command implements `memo new`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	title       string
	content     string
	contentFile string
	categoryIDs []string
}

// New creates the new command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "new",
		Short: "Create a memo",
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.title, "title", "", "Title, at most 160 characters (required)")
	f.StringVar(&c.content, "content", "", "Markdown body")
	f.StringVar(&c.contentFile, "content-file", "", "Path to a file containing the markdown body")
	f.StringSliceVar(&c.categoryIDs, "category", nil, "Category id to assign (repeatable, at most 4)")

	_ = c.cmd.MarkFlagRequired("title")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	content, err := shared.ReadContent(c.content, c.contentFile)
	if err != nil {
		return err
	}

	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	item, err := svc.CreateMemo(cmd.Context(), models.MemoInput{Title: c.title, Content: content}, c.categoryIDs)
	if err != nil {
		return shared.SignInHint(svc, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created: %s (id: %s)\n", item.Title, item.ID)
	fmt.Fprintf(out, "Categories: %s\n", shared.CategoryNames(item.Categories))
	if len(c.categoryIDs) > categories.PerMemoLimit {
		fmt.Fprintf(out, "Warning: %s\n", i18n.T(svc.Locale, i18n.PickerLimitReached, categories.PerMemoLimit))
	}
	return nil
}
