package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"udhar-ledger/internal/app"
	"udhar-ledger/internal/config"
	"udhar-ledger/pkg/logging"
)

type rootOptions struct {
	envFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "udhar",
		Short:         "Udhar loan ledger",
		Long:          "Loan applications, approvals and repayments for a small lending desk.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newAdminCmd(opts),
		newDueCmd(opts),
	)
	return cmd
}

// setup loads configuration and opens the application. The caller closes
// both the app and the logger.
func (o *rootOptions) setup(ctx context.Context) (*app.App, *zap.Logger, error) {
	if err := config.LoadDotenv(o.envFiles...); err != nil {
		return nil, nil, err
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return a, log, nil
}
