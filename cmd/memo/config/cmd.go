// Package configcmd implements the `memo config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/config"
)

const configTemplate = `# memoapp configuration

# Message language: ja | en | fr
locale: en

# Database file holding memos and the category catalog.
# Relative paths are resolved against the memo home.
storage:
  path: ""                      # default <home>/memo.db

# Mutations require a signed-in session.
session:
  required: true
  ttl: 720h
  # secret: ...                 # default: generated session.key

# Memo list defaults.
listing:
  collation: ja                 # language used to order category names
  sort: recent                  # recent | category

# How often watch/serve poll for changes made by other processes.
watch:
  interval: 1s

server:
  addr: 127.0.0.1:8787
`

// Command implements `memo config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetHome(),
		newClearHome(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	home, source := config.ResolveHome()
	if c.ctx.Home != "" {
		home = c.ctx.Home
		source = "flag"
	}
	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return err
	}
	data := map[string]any{
		"locale":   cfg.Locale,
		"database": cfg.DatabasePath(home),
		"session": map[string]any{
			"required": cfg.Session.Required,
			"ttl":      cfg.SessionTTL().String(),
			"secret":   redactSecret(cfg.Session.Secret),
		},
		"listing": map[string]any{
			"collation": cfg.Listing.Collation,
			"sort":      cfg.Listing.Sort,
		},
		"watch_interval":   cfg.WatchInterval().String(),
		"server_addr":      cfg.Server.Addr,
		"memo_home":        home,
		"memo_home_source": source,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := ctx.HomeDir()
			cfgPath := filepath.Join(home, "config.yaml")
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-home
// ---------------------------------------------------------------------------

func newSetHome() *cobra.Command {
	return &cobra.Command{
		Use:   "set-home <path>",
		Short: "Persist memo home location (used when MEMOAPP_HOME is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedHome(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(resolved, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted memo home: %s\n", resolved)
			fmt.Fprintf(out, "Override anytime with %s.\n", config.HomeEnv)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-home
// ---------------------------------------------------------------------------

func newClearHome() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-home",
		Short: "Remove persisted memo home location from global config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedHome()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted memo home setting.")
			} else {
				fmt.Fprintln(out, "No persisted memo home setting was found.")
			}
			return nil
		},
	}
}

func redactSecret(secret string) string {
	if secret != "" {
		return "<redacted>"
	}
	return ""
}
