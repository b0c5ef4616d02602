package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/app"
	"github.com/shashiranjanraj/foodhub/pkg/database"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/queue"
	"github.com/shashiranjanraj/foodhub/pkg/schedule"
)

var queueWorkersFlag int

// foodhub queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers against the Redis queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.Bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if config.QueueDriver() != "redis" {
			logger.Warn("QUEUE_DRIVER is not redis; this worker only sees jobs dispatched in its own process")
		}

		n := queueWorkersFlag
		if n < 1 {
			n = config.QueueWorkers()
		}
		wg := queue.StartWorkers(ctx, n)
		<-ctx.Done()
		wg.Wait()
		logger.Info("queue workers stopped")
		return nil
	},
}

// newNotificationService builds the service over the open database.
func newNotificationService() *services.NotificationService {
	r := app.NewRepositories(database.DB)
	return services.NewNotificationService(r.Notifications, r.Orders, r.Users)
}

func backfill(ctx context.Context, svc *services.NotificationService) error {
	res, err := svc.Backfill(ctx)
	if err != nil {
		return err
	}
	logger.Info("notifications backfilled", "scanned", res.Scanned, "linked", res.Linked)
	return nil
}

// foodhub schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run periodic maintenance until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		svc := newNotificationService()
		schedule.Hourly().Name("notifications:backfill").WithoutOverlapping().Run(func(ctx context.Context) error {
			return backfill(ctx, svc)
		})

		for _, t := range schedule.List() {
			fmt.Fprintln(cmd.OutOrStdout(), "scheduled:", t)
		}
		schedule.Start(ctx)
		<-ctx.Done()
		schedule.Wait()
		return nil
	},
}

// foodhub notifications:backfill
var backfillCmd = &cobra.Command{
	Use:   "notifications:backfill",
	Short: "Link legacy notifications to their order and customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return backfill(cmd.Context(), newNotificationService())
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (default QUEUE_WORKERS)")
}
