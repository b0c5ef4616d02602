// Command foodhub runs the FoodHub API and its maintenance tasks.
//
//	foodhub serve              # HTTP API, gRPC health, queue workers
//	foodhub migrate            # apply pending migrations
//	foodhub seed               # demo catalog and admin user
//	foodhub schedule:run       # hourly notification backfill
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/shashiranjanraj/foodhub/database/migrations"
	_ "github.com/shashiranjanraj/foodhub/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "foodhub",
	Short:         "FoodHub food ordering backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(dbInitCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
	rootCmd.AddCommand(backfillCmd)
}
