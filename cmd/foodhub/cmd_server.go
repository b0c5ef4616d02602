package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodhub/app/routes"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/internal/kernel"
	"github.com/shashiranjanraj/foodhub/internal/server"
	"github.com/shashiranjanraj/foodhub/pkg/app"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/migration"
)

// foodhub serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP API, gRPC health port and queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(sigCtx)
		defer cancel()

		a, err := app.Bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if config.Bool("AUTO_MIGRATE", true) {
			if _, err := migration.New(a.DB, cmd.OutOrStdout()).Run(); err != nil {
				return err
			}
		}

		workers := a.StartWorkers(ctx)
		defer workers.Wait()
		defer cancel()

		h, err := a.Handler()
		if err != nil {
			return err
		}
		err = server.Run(ctx, h, server.Options{
			Addr:            ":" + config.AppPort(),
			GRPCPort:        config.GRPCPort(),
			Checks:          a.HealthChecks(),
			ShutdownTimeout: config.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		})
		logger.Info("server stopped")
		return err
	},
}

// foodhub route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := kernel.Router(routes.Deps{}).Routes()

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
