// Command reconcile lets operators inspect and resolve attestations that were
// published but never minted.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"aria/internal/config"
	"aria/internal/domain"
	"aria/internal/logger"
	"aria/internal/minter"
	"aria/internal/repository/postgres"
	"aria/internal/service"
)

// app holds what every subcommand needs. svc is built lazily from config
// unless already set.
type app struct {
	svc     service.ReconcileService
	out     io.Writer
	cleanup func()
}

func main() {
	a := &app{out: os.Stdout}
	err := newRootCmd(a).Execute()
	if a.cleanup != nil {
		a.cleanup()
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "reconcile",
		Short:        "Manage pending mints left behind by failed attestation runs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.svc != nil {
				return nil
			}
			return a.init(cmd.Context(), verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.SetOut(a.out)

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newRetryCmd(a),
		newAbandonCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logCfg := cfg.Log
	logCfg.Format = "console"
	if verbose {
		logCfg.Level = "debug"
	} else if logCfg.Level == "debug" {
		logCfg.Level = "info"
	}
	log := logger.NewWithWriter(logCfg, os.Stderr)

	if !cfg.DB.Enabled {
		return domain.ErrReconciliationStorage
	}
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.cleanup = func() { _ = db.Close() }

	a.svc = service.NewReconcileService(
		postgres.NewPendingMintRepo(db),
		minter.NewInvoker(&cfg.Mint, log),
		cfg.Mint.Timeout,
		log.With().Str("operator", operatorName()).Logger(),
	)
	return nil
}

func operatorName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "cli"
}
