package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/campusware/campus/modules/importer/infrastructure/persistence"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/configuration"
)

func pruneTasksCmd() *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "prune-tasks",
		Short: "Fail import tasks stuck in QUEUED past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			if retention == 0 {
				retention = conf.TaskJanitor.Retention
			}

			pool, err := pgxpool.New(cmd.Context(), conf.Database.Opts)
			if err != nil {
				return err
			}
			defer pool.Close()

			tasks := persistence.NewImportTaskRepository()
			ctx := composables.WithPool(cmd.Context(), pool)
			cutoff := time.Now().Add(-retention)

			count, err := composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
				return tasks.FailStale(txCtx, cutoff, "no validation result arrived before the retention window expired")
			})
			if err != nil {
				return err
			}
			fmt.Printf("failed %d stale task(s) queued before %s\n", count, cutoff.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "override the retention window (default from TASK_JANITOR_RETENTION)")
	return cmd
}
