// Package tagcmd implements the `memo tag` command.
package tagcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/i18n"
	"github.com/go-ports/memoapp/internal/picker"
)

// Command implements `memo tag`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the tag command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "tag <memo-id> [category-id...]",
		Short: "Toggle categories on a memo; with no ids, show the picker",
		Long: "Each category id is toggled in order: a selected category is removed, " +
			"an unselected one is added while the memo has fewer than 4.",
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
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

	out := cmd.OutOrStdout()
	memoID := args[0]
	selected := svc.Associations.CategoriesFor(memoID)
	if len(args) > 1 {
		res, err := svc.ToggleMemoCategories(cmd.Context(), memoID, args[1:])
		if err != nil {
			return shared.SignInHint(svc, err)
		}
		selected = res.Selected
		for _, id := range res.Ignored {
			if _, known := categories.Find(svc.Categories.Load(), id); !known {
				fmt.Fprintf(out, "Ignored %s: unknown category\n", id)
			} else {
				fmt.Fprintf(out, "Ignored %s: %s\n", id, i18n.T(svc.Locale, i18n.PickerLimitReached, categories.PerMemoLimit))
			}
		}
	} else if _, err := svc.GetMemo(cmd.Context(), memoID); err != nil {
		return err
	}

	p := picker.New(svc.Categories, nil)
	defer p.Close()
	printOptions(out, svc.Locale, p, selected)
	return nil
}

func printOptions(out io.Writer, loc i18n.Locale, p *picker.Picker, selected []string) {
	for _, opt := range p.Options(selected) {
		mark := " "
		switch {
		case opt.Selected:
			mark = "x"
		case opt.Disabled:
			mark = "-"
		}
		fmt.Fprintf(out, "[%s] %s (%s)\n", mark, opt.Category.Name, opt.Category.ID)
	}
	st := p.Status(selected)
	fmt.Fprintln(out, i18n.T(loc, i18n.PickerSelected, st.Selected, st.PerMemoLimit))
	if st.LimitReached {
		fmt.Fprintln(out, i18n.T(loc, i18n.PickerLimitReached, st.PerMemoLimit))
	}
}
