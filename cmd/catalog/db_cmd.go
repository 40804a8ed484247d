package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	"skill-bridge/internal/database/migration"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/database/seeder"

	"github.com/spf13/cobra"
)

func connect(ctx context.Context) (database.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	pool, err := dbpostgres.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func migrateCmd() *cobra.Command {
	var (
		timeout time.Duration
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the catalog schema migrations to Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := log.New(os.Stderr, "", log.LstdFlags)
			runner := migration.Runner{Logger: logger}
			if dryRun {
				pending, err := runner.Pending(ctx, db.SQLDB())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, m := range pending {
					fmt.Fprintf(out, "pending V%d %s\n", m.Version, m.Name)
				}
				fmt.Fprintf(out, "%d pending migration(s)\n", len(pending))
				return nil
			}
			n, err := runner.Run(ctx, db.SQLDB())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall timeout")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending migrations without applying them")
	return cmd
}

func seedCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Mirror the reference tables into Postgres",
		Long: `Upsert every job role, skill and course into Postgres and delete rows that
are no longer in the catalog. Run migrate first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := log.New(os.Stderr, "", log.LstdFlags)
			if err := (seeder.Runner{Seeders: seeder.Defaults(cat), Logger: logger}).Run(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d job roles and %d courses\n", len(cat.JobRoles()), len(cat.Courses()))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall timeout")
	return cmd
}
