// Package rootcmd wires the root cobra.Command for the memo CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	categorycmd "github.com/go-ports/memoapp/cmd/memo/category"
	configcmd "github.com/go-ports/memoapp/cmd/memo/config"
	deletecmd "github.com/go-ports/memoapp/cmd/memo/delete"
	editcmd "github.com/go-ports/memoapp/cmd/memo/edit"
	exportcmd "github.com/go-ports/memoapp/cmd/memo/export"
	feedcmd "github.com/go-ports/memoapp/cmd/memo/feed"
	initcmd "github.com/go-ports/memoapp/cmd/memo/init"
	listcmd "github.com/go-ports/memoapp/cmd/memo/list"
	mcpcmd "github.com/go-ports/memoapp/cmd/memo/mcp"
	newcmd "github.com/go-ports/memoapp/cmd/memo/new"
	servecmd "github.com/go-ports/memoapp/cmd/memo/serve"
	"github.com/go-ports/memoapp/cmd/memo/shared"
	showcmd "github.com/go-ports/memoapp/cmd/memo/show"
	signincmd "github.com/go-ports/memoapp/cmd/memo/signin"
	signoutcmd "github.com/go-ports/memoapp/cmd/memo/signout"
	statuscmd "github.com/go-ports/memoapp/cmd/memo/status"
	tagcmd "github.com/go-ports/memoapp/cmd/memo/tag"
	versioncmd "github.com/go-ports/memoapp/cmd/memo/version"
	watchcmd "github.com/go-ports/memoapp/cmd/memo/watch"
)

// New creates and returns the root cobra.Command for the memo CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "memo",
		Short:         "memoapp: memos organized with up to six categories",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override memo home directory (default: $MEMOAPP_HOME env → persisted config → ~/.memoapp)",
	)
	root.PersistentFlags().StringVar(
		&ctx.Locale, "locale", "",
		"Message locale: ja, en or fr (default: locale from config.yaml)",
	)

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		signincmd.New(ctx).Cmd(),
		signoutcmd.New(ctx).Cmd(),
		statuscmd.New(ctx).Cmd(),
		newcmd.New(ctx).Cmd(),
		editcmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		showcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		categorycmd.New(ctx).Cmd(),
		tagcmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		feedcmd.New(ctx).Cmd(),
		watchcmd.New(ctx).Cmd(),
		servecmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}
