package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"pspicdash/adapters/sqlstore"
	"pspicdash/internal/config"
	"pspicdash/internal/migration"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newMigrateCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	var pruneAfter time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the navigation preference tables",
		Long: `Create the navigation preference tables and optionally prune stale sessions.

The database defaults to DATABASE_URL. Example: migrate --prune-older-than 2160h`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if databaseURL != "" {
				cfg.Database.URL = databaseURL
			}

			ctx := cmd.Context()
			db, err := sqlstore.Open(ctx, cfg.Database.Driver(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(ctx, db); err != nil {
				return err
			}
			versions, err := migration.AppliedVersions(ctx, db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s schema at %s (applied: %s)\n", cfg.Database.Driver(), runner.Version(), strings.Join(versions, ", "))

			if pruneAfter > 0 {
				removed, err := sqlstore.NewPreferenceRepository(db).DeleteOlderThan(ctx, time.Now().Add(-pruneAfter))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "pruned %d sessions idle for more than %s\n", removed, pruneAfter)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Override DATABASE_URL")
	cmd.Flags().DurationVar(&pruneAfter, "prune-older-than", 0, "Delete preferences not updated within this duration")
	return cmd
}
