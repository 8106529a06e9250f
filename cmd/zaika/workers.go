package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zaikahq/zaika/internal/server"
	"github.com/zaikahq/zaika/pkg/logger"
	"github.com/zaikahq/zaika/pkg/schedule"
)

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "queue:work",
			Short: "Run queue workers without the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := server.Boot(); err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				server.StartQueue(ctx)
				<-ctx.Done()
				logger.Info("queue: workers stopped")
				return nil
			},
		},
		&cobra.Command{
			Use:   "schedule:run",
			Short: "Run the scheduler without the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := server.Boot(); err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				server.StartScheduler(ctx)
				for _, id := range schedule.List() {
					logger.Info("schedule: registered", "task", id)
				}
				<-ctx.Done()
				return nil
			},
		},
	)
}
