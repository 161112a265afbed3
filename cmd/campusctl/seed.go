package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/campusware/campus/modules/curriculum/domain/entities/department"
	"github.com/campusware/campus/modules/curriculum/domain/entities/studentgroup"
	"github.com/campusware/campus/modules/curriculum/domain/naturalkey"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence"
	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/configuration"
	"github.com/campusware/campus/pkg/eventbus"
)

func seedCmd() *cobra.Command {
	var campusID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a small demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			pool, err := pgxpool.New(cmd.Context(), conf.Database.Opts)
			if err != nil {
				return err
			}
			defer pool.Close()

			app := application.New(&application.ApplicationOptions{
				Pool:     pool,
				EventBus: eventbus.NewEventPublisher(conf.Logger()),
				Logger:   conf.Logger(),
			})

			seeder := application.NewSeeder()
			seeder.Register(demoDataset(campusID))

			ctx := composables.WithPool(cmd.Context(), pool)
			if err := seeder.Seed(ctx, app); err != nil {
				return err
			}
			fmt.Println("demo dataset seeded")
			return nil
		},
	}
	cmd.Flags().StringVar(&campusID, "campus", "", "campus scope for the demo codes")
	return cmd
}

func demoDataset(campusID string) application.SeedFunc {
	return func(ctx context.Context, _ application.Application) error {
		return seedDemo(ctx, campusID)
	}
}

func seedDemo(ctx context.Context, campusID string) error {
	departments := persistence.NewDepartmentRepository()
	groups := persistence.NewStudentGroupRepository()

	return composables.InTx(ctx, func(txCtx context.Context) error {
		demoDepartments := []*department.Department{
			{Code: naturalkey.Qualify(campusID, "MATH"), Name: "Mathematics"},
			{Code: naturalkey.Qualify(campusID, "CS"), Name: "Computer Science"},
			{Code: naturalkey.Qualify(campusID, "PHYS"), Name: "Physics"},
		}
		for _, d := range demoDepartments {
			if err := departments.Upsert(txCtx, d); err != nil {
				return err
			}
		}

		demoGroups := []*studentgroup.StudentGroup{
			{Code: naturalkey.Qualify(campusID, "CS-101"), Name: "CS first year", Year: 1},
			{Code: naturalkey.Qualify(campusID, "CS-201"), Name: "CS second year", Year: 2},
		}
		for _, g := range demoGroups {
			if err := groups.Upsert(txCtx, g); err != nil {
				return err
			}
		}
		return nil
	})
}
