// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warpkeeper/warpkeeper/internal/api"
	"github.com/warpkeeper/warpkeeper/internal/logging"
)

// serveCmd starts the local HTTP API and blocks until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP API",
	Long: `Starts the Warpkeeper HTTP API on the configured address and serves
until interrupted. Every account operation available on the CLI is also
reachable over this API.

Examples:
  warpkeeper serve
  warpkeeper serve --server.port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	srv := api.NewServer(appConfig.Server.Host, appConfig.Server.Port, engine)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("shutdown error: %v", err)
		return err
	}
	return <-errCh
}
