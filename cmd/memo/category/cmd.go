// Package categorycmd implements the `memo category` command group.
package categorycmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/i18n"
)

var errNameRequired = errors.New("category name is required")

// Command implements `memo category`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the category command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage the category catalog (at most 6 categories)",
		RunE:    c.runList,
	}
	c.cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE:  c.runList,
		},
		newAdd(ctx),
		newEdit(ctx),
		newDelete(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runList(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	list := svc.Categories.Load()
	for _, cat := range list {
		fmt.Fprintf(out, "%-12s %s  %s  %s\n", cat.ID, cat.Color, cat.Name, cat.Description)
	}
	if remaining := svc.Categories.Remaining(); remaining > 0 {
		fmt.Fprintln(out, i18n.T(svc.Locale, i18n.CategoryRemaining, remaining))
	} else {
		fmt.Fprintln(out, i18n.T(svc.Locale, i18n.CategoryLimitReached, categories.Limit))
	}
	return nil
}

// ---------------------------------------------------------------------------
// category add
// ---------------------------------------------------------------------------

func draftFlags(cmd *cobra.Command, d *categories.Draft) {
	f := cmd.Flags()
	f.StringVar(&d.Name, "name", "", "Display name")
	f.StringVar(&d.Description, "description", "", "Description")
	f.StringVar(&d.Color, "color", "", fmt.Sprintf("Hex color, e.g. %s", categories.ColorPresets[0]))
}

func newAdd(ctx *shared.Context) *cobra.Command {
	var d categories.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := ctx.Open()
			if err != nil {
				return err
			}
			defer svc.Close()

			if svc.Categories.Remaining() == 0 {
				return errors.New(i18n.T(svc.Locale, i18n.CategoryLimitReached, categories.Limit))
			}
			cat, ok, err := svc.Categories.Add(d)
			if err != nil {
				return err
			}
			if !ok {
				return errNameRequired
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s (id: %s)\n", cat.Name, cat.ID)
			return nil
		},
	}
	draftFlags(cmd, &d)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// ---------------------------------------------------------------------------
// category edit
// ---------------------------------------------------------------------------

func newEdit(ctx *shared.Context) *cobra.Command {
	var d categories.Draft
	cmd := &cobra.Command{
		Use:   "edit <category-id>",
		Short: "Edit a category; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.Open()
			if err != nil {
				return err
			}
			defer svc.Close()

			current, ok := categories.Find(svc.Categories.Load(), args[0])
			if !ok {
				return fmt.Errorf("no category found for %s", args[0])
			}
			f := cmd.Flags()
			if !f.Changed("name") {
				d.Name = current.Name
			}
			if !f.Changed("description") {
				d.Description = current.Description
			}
			if !f.Changed("color") {
				d.Color = current.Color
			}
			updated, err := svc.Categories.Update(current.ID, d)
			if err != nil {
				return err
			}
			if !updated {
				return errNameRequired
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s\n", current.ID)
			return nil
		},
	}
	draftFlags(cmd, &d)
	return cmd
}

// ---------------------------------------------------------------------------
// category delete
// ---------------------------------------------------------------------------

func newDelete(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category; memos keep the id but stop showing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.Open()
			if err != nil {
				return err
			}
			defer svc.Close()

			removed, err := svc.Categories.Remove(args[0])
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No category found for %s\n", args[0])
			}
			return nil
		},
	}
}
