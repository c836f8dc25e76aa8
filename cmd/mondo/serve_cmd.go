package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mondohq/mondo/internal/api"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		Long: `Run the HTTP API frontend clients connect to, in the foreground.
For the full background service including folder watching, use mondod.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(a.store, a.list, a.client, a.player, a.cfg, a.logger, version)
			return server.Serve(ctx)
		},
	}
}
