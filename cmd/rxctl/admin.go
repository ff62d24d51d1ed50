package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/rx-admin/internal/repository/postgres"
)

func (a *app) withDB(cmd *cobra.Command, fn func(ctx context.Context, db *sqlx.DB) error) error {
	ctx := cmd.Context()
	db, err := postgres.NewDB(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}

func newSeedCommand(a *app) *cobra.Command {
	counts := postgres.DefaultSeedCounts
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace patients, medications and prescriptions with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, func(ctx context.Context, db *sqlx.DB) error {
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
				created, err := postgres.NewSeeder(db, rand.New(rand.NewSource(seed))).Seed(ctx, counts)
				if err != nil {
					return err
				}
				a.log.Info("demo data seeded", "seed", seed)
				fmt.Printf("Created %s patients, %s medications, and %s prescriptions.\n",
					humanize.Comma(int64(created.Patients)),
					humanize.Comma(int64(created.Medications)),
					humanize.Comma(int64(created.Prescriptions)))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&counts.Patients, "patients", counts.Patients, "Number of patients")
	cmd.Flags().IntVar(&counts.Medications, "medications", counts.Medications, "Number of medications")
	cmd.Flags().IntVar(&counts.Prescriptions, "prescriptions", counts.Prescriptions, "Number of prescriptions")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed, for reproducible data sets")
	return cmd
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, func(ctx context.Context, db *sqlx.DB) error {
				applied, err := postgres.Migrate(ctx, db)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Println("Database is up to date.")
					return nil
				}
				for _, name := range applied {
					fmt.Println("applied", name)
				}
				return nil
			})
		},
	}
}
