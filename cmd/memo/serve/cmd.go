// Package servecmd implements the `memo serve` command.
package servecmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/server"
)

// Command implements `memo serve`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	addr string
}

// New creates the serve command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.addr, "addr", "", "Listen address (default from config server.addr)")
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

	addr := c.addr
	if addr == "" {
		addr = svc.Config.Server.Addr
	}

	// The watcher must be done before the deferred Close releases the database.
	ctx, cancel := context.WithCancel(cmd.Context())
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if err := svc.Watch(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("serve: watch stopped", "err", err)
		}
	}()

	err = server.New(svc).Start(ctx, addr)
	cancel()
	<-watchDone
	return err
}
