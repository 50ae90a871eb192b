package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate, bootstrap the admin account and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, log, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer func() { _ = a.Close() }()

			if _, err := a.Migrate(ctx); err != nil {
				return err
			}
			if _, err := a.Bootstrap(ctx); err != nil {
				return err
			}

			e := a.Router()
			addr := ":" + a.Config.AppPort
			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", addr))
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(sctx)
		},
	}
}
