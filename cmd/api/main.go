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
	"go.uber.org/multierr"

	"github.com/angelmondragon/packfinderz-loyalty/api"
	"github.com/angelmondragon/packfinderz-loyalty/api/routes"
	"github.com/angelmondragon/packfinderz-loyalty/internal/accounts"
	"github.com/angelmondragon/packfinderz-loyalty/internal/checkout"
	"github.com/angelmondragon/packfinderz-loyalty/internal/ledger"
	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/config"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/db"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/metrics"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/migrate"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	policy, err := loyalty.NewPolicy(cfg.Loyalty.BlockSize, cfg.Loyalty.PercentPerBlock, cfg.Loyalty.MaxBlocks)
	if err != nil {
		return err
	}
	homeFee, err := cfg.Checkout.HomeDeliveryFeeAmount()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	accountsRepo := accounts.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())

	checkoutService, err := checkout.NewService(dbClient, accountsRepo, ledgerRepo, checkout.Options{
		Policy:          policy,
		HomeDeliveryFee: homeFee,
		Metrics:         metrics.NewCheckoutMetrics(registry),
		Logger:          logg,
	})
	if err != nil {
		return err
	}
	accountsService, err := accounts.NewService(accountsRepo)
	if err != nil {
		return err
	}
	ledgerService, err := ledger.NewService(ledgerRepo)
	if err != nil {
		return err
	}

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, registry, policy, checkoutService, accountsService, ledgerService)
	server := api.NewServer(cfg.App, os.Getenv("PORT"), router)

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   server.Addr,
		"driver": dbClient.Driver(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
