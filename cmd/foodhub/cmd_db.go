package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/database/seeders"
	"github.com/shashiranjanraj/foodhub/pkg/database"
	"github.com/shashiranjanraj/foodhub/pkg/migration"
	"github.com/shashiranjanraj/foodhub/pkg/queue"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// foodhub migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		n, err := migration.New(database.DB, cmd.OutOrStdout()).Run()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", n)
		return nil
	},
}

// foodhub migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		n, err := migration.New(database.DB, cmd.OutOrStdout()).Rollback()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) rolled back\n", n)
		return nil
	},
}

// foodhub migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		list, err := migration.New(database.DB, cmd.OutOrStdout()).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range list {
			batch := "-"
			if s.Ran {
				batch = fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%t\t%s\n", s.Name, s.Ran, batch)
		}
		return w.Flush()
	},
}

// foodhub db:init
var dbInitCmd = &cobra.Command{
	Use:   "db:init",
	Short: "Create or update every table from the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		all := append(models.All(), &queue.FailedJobRecord{})
		if err := database.DB.AutoMigrate(all...); err != nil {
			return fmt.Errorf("db:init: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d table(s) up to date\n", len(all))
		return nil
	},
}

// foodhub seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog and the admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		n, err := seeders.RunAll(cmd.Context(), database.DB)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d seeder(s) ran\n", n)
		return nil
	},
}
