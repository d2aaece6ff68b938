package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/indiereel/backend/api/routes"
	"github.com/indiereel/backend/internal/catalog"
	"github.com/indiereel/backend/internal/contests"
	"github.com/indiereel/backend/internal/crew"
	"github.com/indiereel/backend/internal/leaderboard"
	"github.com/indiereel/backend/internal/lists"
	"github.com/indiereel/backend/internal/movies"
	"github.com/indiereel/backend/internal/payments"
	"github.com/indiereel/backend/internal/reviews"
	"github.com/indiereel/backend/internal/users"
	"github.com/indiereel/backend/pkg/config"
	"github.com/indiereel/backend/pkg/db"
	"github.com/indiereel/backend/pkg/instance"
	"github.com/indiereel/backend/pkg/logger"
	"github.com/indiereel/backend/pkg/metrics"
	"github.com/indiereel/backend/pkg/migrate"
	"github.com/indiereel/backend/pkg/outbox"
	"github.com/indiereel/backend/pkg/razorpay"
	"github.com/indiereel/backend/pkg/redis"
	"github.com/indiereel/backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Static:      map[string]string{"env": cfg.App.Env, "instance": instance.ID()},
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

	// Without gateway credentials submissions still work; package selection
	// and payment confirmation answer 503.
	var gateway payments.Gateway
	gatewayEnv := "disabled"
	if razorpayClient, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg); err != nil {
		logg.Warn(logg.WithField(context.Background(), "error", err.Error()), "razorpay not configured; payments disabled")
	} else {
		gateway = razorpayClient
		gatewayEnv = razorpayClient.Environment()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	conn := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(conn), logg)
	usersRepo := users.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Repo:     payments.NewRepository(conn),
		Gateway:  gateway,
		Logger:   logg,
		Metrics:  workflowMetrics,
		Currency: cfg.Razorpay.Currency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	movieService, err := movies.NewService(movies.ServiceParams{
		Repo:         movies.NewRepository(conn),
		Catalog:      catalogRepo,
		Users:        usersRepo,
		Payments:     paymentsService,
		TX:           dbClient,
		Outbox:       outboxService,
		Posters:      gcsClient,
		PosterPrefix: cfg.GCS.PosterPrefix,
		Logger:       logg,
		Metrics:      workflowMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create movie service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:         reviews.NewRepository(conn),
		TX:           dbClient,
		Outbox:       outboxService,
		Logger:       logg,
		Metrics:      workflowMetrics,
		FreezeWindow: cfg.Review.RatingFreezeWindow,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	crewService, err := crew.NewService(crew.NewRepository(conn), usersRepo, catalogRepo, dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create crew service", err)
		os.Exit(1)
	}

	listService, err := lists.NewService(lists.NewRepository(conn), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create list service", err)
		os.Exit(1)
	}

	contestService, err := contests.NewService(contests.NewRepository(conn), movieService, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create contest service", err)
		os.Exit(1)
	}

	leaderboardService, err := leaderboard.NewService(leaderboard.ServiceParams{
		Repo:   leaderboard.NewRepository(conn),
		TX:     dbClient,
		Cache:  redisClient,
		Logger: logg,
		Size:   cfg.Cron.LeaderboardSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create leaderboard service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:          dbClient,
		Redis:       redisClient,
		Storage:     gcsClient,
		Idempotency: redisClient,
		RateLimiter: redisClient,
		Gatherer:    registry,
		Movies:      movieService,
		Reviews:     reviewService,
		Crew:        crewService,
		Lists:       listService,
		Contests:    contestService,
		Leaderboard: leaderboardService,
		Catalog:     catalogService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"addr":     addr,
		"razorpay": gatewayEnv,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
