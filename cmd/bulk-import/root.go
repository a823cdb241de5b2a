package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/repository"
	"github.com/joseph-ayodele/hr-bulk-import/internal/server"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	envFiles []string
	cfg      *common.Config
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "bulk-import",
		Short:         "Import employee spreadsheets into the HR database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := common.LoadConfig(a.envFiles...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cfg)
			slog.SetDefault(a.logger)
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "env files to load before the environment (default .env, .env.local)")

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newHealthCmd(a))
	cmd.AddCommand(newJobCmd(a))
	return cmd
}

func newLogger(cfg *common.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// connect validates the database settings and opens the store.
func (a *app) connect(ctx context.Context) (*repository.Store, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return server.ConnectDB(ctx, a.cfg.Database, a.logger)
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(cobra.ExactArgs(n)(cmd, args))
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	os.Exit(exitCode(err))
}
