// Package editcmd implements the `memo edit` command.
package editcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/i18n"
	"github.com/go-ports/memoapp/internal/models"
)

// Command implements `memo edit`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	title           string
	content         string
	contentFile     string
	categoryIDs     []string
	clearCategories bool
}

// New creates the edit command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "edit <memo-id>",
		Short: "Edit a memo; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.title, "title", "", "New title")
	f.StringVar(&c.content, "content", "", "New markdown body")
	f.StringVar(&c.contentFile, "content-file", "", "Path to a file containing the new body")
	f.StringSliceVar(&c.categoryIDs, "category", nil, "Replace categories (repeatable, at most 4)")
	f.BoolVar(&c.clearCategories, "clear-categories", false, "Remove every category from the memo")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if c.clearCategories && flags.Changed("category") {
		return fmt.Errorf("use either --category or --clear-categories, not both")
	}

	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	current, err := svc.GetMemo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	in := models.MemoInput{Title: current.Title, Content: current.Content}
	if flags.Changed("title") {
		in.Title = c.title
	}
	if flags.Changed("content") || flags.Changed("content-file") {
		if in.Content, err = shared.ReadContent(c.content, c.contentFile); err != nil {
			return err
		}
	}

	var ids []string
	switch {
	case c.clearCategories:
		ids = []string{}
	case flags.Changed("category"):
		ids = append([]string{}, c.categoryIDs...)
	}

	item, err := svc.UpdateMemo(cmd.Context(), current.ID, in, ids)
	if err != nil {
		return shared.SignInHint(svc, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Updated: %s (id: %s)\n", item.Title, item.ID)
	fmt.Fprintf(out, "Categories: %s\n", shared.CategoryNames(item.Categories))
	if len(c.categoryIDs) > categories.PerMemoLimit {
		fmt.Fprintf(out, "Warning: %s\n", i18n.T(svc.Locale, i18n.PickerLimitReached, categories.PerMemoLimit))
	}
	return nil
}
