// Command initdb prepares a database: it applies the schema and seeds the
// first accounts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/egor/backoffice/config"
	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "initdb",
		Short:         "Back office database bootstrap",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "path to config file (defaults to CONFIG_PATH)")

	rootCmd.AddCommand(migrateCmd(), seedCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes (idempotent)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.store.Close()

			if err := database.Migrate(cmd.Context(), env.store); err != nil {
				return err
			}
			env.log.Infof("schema applied to %s", env.cfg.Postgres.Database)
			return nil
		},
	}
}

type environment struct {
	cfg   *config.Config
	store *database.Store
	log   logger.Logger
}

func open(cmd *cobra.Command) (*environment, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   "console",
		TimeFormat: cfg.Logger.TimeFormat,
	})

	db, err := database.Open(cmd.Context(), cfg.Postgres)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, store: database.NewStore(db), log: log}, nil
}
