package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/campusware/campus/migrations"
	"github.com/campusware/campus/pkg/configuration"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
	}
	cmd.AddCommand(
		migrateDirection("up", "Apply all pending migrations", goose.Up),
		migrateDirection("down", "Roll back the last migration", goose.Down),
		migrateDirection("status", "Print migration status", goose.Status),
	)
	return cmd
}

func migrateDirection(use, short string, run func(*sql.DB, string, ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return run(db, ".")
		},
	}
}

func openDB() (*sql.DB, error) {
	conf := configuration.Use()
	db, err := sql.Open("pgx", conf.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return db, nil
}
