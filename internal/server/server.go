// Package server boots the application: config, storage backends, workers,
// listeners, the scheduler and the HTTP/gRPC servers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/zaikahq/zaika/app/jobs"
	"github.com/zaikahq/zaika/app/routes"
	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/app/views"
	"github.com/zaikahq/zaika/config"
	"github.com/zaikahq/zaika/pkg/cache"
	"github.com/zaikahq/zaika/pkg/database"
	"github.com/zaikahq/zaika/pkg/event"
	zgrpc "github.com/zaikahq/zaika/pkg/grpc"
	"github.com/zaikahq/zaika/pkg/logger"
	"github.com/zaikahq/zaika/pkg/metrics"
	"github.com/zaikahq/zaika/pkg/middleware"
	"github.com/zaikahq/zaika/pkg/migration"
	"github.com/zaikahq/zaika/pkg/queue"
	"github.com/zaikahq/zaika/pkg/reqid"
	"github.com/zaikahq/zaika/pkg/router"
	"github.com/zaikahq/zaika/pkg/schedule"
	"github.com/zaikahq/zaika/pkg/storage"
	"github.com/zaikahq/zaika/pkg/ws"

	_ "github.com/zaikahq/zaika/database/migrations"
)

// Boot loads configuration and connects the shared backends. Every CLI
// entrypoint that touches the database calls this first.
func Boot() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if uri := config.MongoLogURI(); uri != "" {
		if _, err := logger.EnableMongoSink(uri); err != nil {
			logger.Warn("server: mongo log sink unavailable", "error", err)
		}
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, cache disabled", "error", err)
	}
	storage.Connect()

	return nil
}

// Run boots everything and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func Run() error {
	if err := Boot(); err != nil {
		return err
	}

	if err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	StartQueue(ctx)

	hub := ws.NewHub()
	go hub.Run()
	registerListeners(hub)

	StartScheduler(ctx)

	grpcSrv, _, err := zgrpc.Start(config.GRPCPort())
	if err != nil {
		return err
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)
	if err := routes.RegisterAPI(r, database.DB, hub); err != nil {
		return fmt.Errorf("server: register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: http shutdown", "error", err)
	}
	zgrpc.Stop(grpcSrv)

	return nil
}

// StartQueue registers job types, selects the driver and starts the workers.
func StartQueue(ctx context.Context) {
	queue.Register("*jobs.StockAlertJob", func() queue.Job { return &jobs.StockAlertJob{} })
	queue.UseDB(database.DB)

	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		logger.Info("server: queue driver", "driver", "redis")
	} else {
		logger.Info("server: queue driver", "driver", "memory")
	}

	queue.StartWorkers(ctx, config.QueueWorkers())
}

// registerListeners connects stock changes to the live feed and the catalog
// cache.
func registerListeners(hub *ws.Hub) {
	event.Listen(services.EventStockChanged, func(payload interface{}) {
		update, ok := payload.(views.StockUpdate)
		if !ok {
			return
		}
		raw, err := json.Marshal(update)
		if err != nil {
			return
		}
		hub.Broadcast <- raw
	})

	event.Listen(services.EventStockChanged, func(interface{}) {
		services.InvalidateCache()
	})
}

// StartScheduler registers the stale-cart reaper and starts the tick loop.
func StartScheduler(ctx context.Context) {
	carts := services.NewCartService(database.DB)
	ttl := time.Duration(config.CartTTLHours()) * time.Hour

	schedule.Hourly().Name("cart:release-stale").WithoutOverlapping().Run(func() {
		if _, err := carts.ReleaseStale(context.Background(), ttl); err != nil {
			logger.Error("schedule: stale cart release failed", "error", err)
		}
	})

	schedule.Start(ctx)
}
