package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jewelstack/jewelpos-backend/api/routes"
	"github.com/jewelstack/jewelpos-backend/internal/appstate"
	"github.com/jewelstack/jewelpos-backend/internal/billing"
	billsvc "github.com/jewelstack/jewelpos-backend/internal/bills"
	customersvc "github.com/jewelstack/jewelpos-backend/internal/customers"
	inventorysvc "github.com/jewelstack/jewelpos-backend/internal/inventory"
	productsvc "github.com/jewelstack/jewelpos-backend/internal/products"
	"github.com/jewelstack/jewelpos-backend/internal/rates"
	"github.com/jewelstack/jewelpos-backend/pkg/config"
	"github.com/jewelstack/jewelpos-backend/pkg/db"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
	"github.com/jewelstack/jewelpos-backend/pkg/metrics"
	"github.com/jewelstack/jewelpos-backend/pkg/migrate"
	"github.com/jewelstack/jewelpos-backend/pkg/redis"
)

const sessionSweepInterval = 10 * time.Minute

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

	registry := prometheus.NewRegistry()
	saleMetrics := metrics.NewSaleMetrics(registry)
	rateMetrics := metrics.NewRateFeedMetrics(registry)

	productRepo := productsvc.NewRepository(dbClient.DB())
	customerRepo := customersvc.NewRepository(dbClient.DB())
	billRepo := billsvc.NewRepository(dbClient.DB())
	inventoryRepo := inventorysvc.NewRepository(dbClient.DB())

	productService, err := productsvc.NewService(productRepo)
	requireResource(logg, "product service", err)
	customerService, err := customersvc.NewService(customerRepo)
	requireResource(logg, "customer service", err)
	billService, err := billsvc.NewService(billRepo)
	requireResource(logg, "bill service", err)
	inventoryService, err := inventorysvc.NewService(inventoryRepo, productRepo)
	requireResource(logg, "inventory service", err)

	cache := appstate.NewCache(cfg.Cache.FreshFor, cfg.Cache.EvictAfter)
	state, err := appstate.NewState(productService, customerService, billService, inventoryService, cache, logg)
	requireResource(logg, "app state", err)

	snapshotter, err := appstate.NewSnapshotter(dbClient, productRepo, customerRepo, billRepo, inventoryRepo, state, logg)
	requireResource(logg, "snapshotter", err)

	engine, err := billing.NewEngine(billRepo, saleMetrics, logg)
	requireResource(logg, "billing engine", err)

	sessions := billing.NewSessionStore(cfg.Cache.CartTTL, billing.Context{
		MakingChargePercent: cfg.Billing.MakingChargePercent,
		GSTPercent:          cfg.Billing.GSTPercent,
	})

	feed, err := rates.NewHTTPFeed(cfg.RateFeed)
	requireResource(logg, "rate feed", err)
	rateCache, err := rates.NewCache(feed, cfg.RateFeed.CacheTTL, rateMetrics)
	requireResource(logg, "rate cache", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go refreshRatesLoop(ctx, rateCache, cfg.RateFeed.RefreshInterval, logg)
	go sweepSessionsLoop(ctx, sessions, logg)

	addr := ":" + cfg.App.Port
	lctx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(lctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DBPinger:    dbClient,
			RedisClient: redisClient,
			Registry:    registry,
			State:       state,
			Snapshotter: snapshotter,
			Bills:       billService,
			Inventory:   inventoryService,
			Sessions:    sessions,
			Engine:      engine,
			RateCache:   rateCache,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "error during server shutdown", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(lctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(lctx, "api server shutting down gracefully")
}

// refreshRatesLoop warms the spot-rate cache and keeps it warm so the first
// operator of the day never waits on the feed.
func refreshRatesLoop(ctx context.Context, cache *rates.Cache, interval time.Duration, logg *logger.Logger) {
	if interval <= 0 {
		return
	}

	if _, err := cache.Refresh(ctx); err != nil {
		logg.Warn(ctx, "initial rate fetch failed; serving on demand")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := cache.Refresh(ctx); err != nil {
				logg.Warn(ctx, "scheduled rate refresh failed; stale rates remain")
			}
		}
	}
}

func sweepSessionsLoop(ctx context.Context, sessions *billing.SessionStore, logg *logger.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logg.Info(logg.WithField(ctx, "sessions", n), "swept idle till sessions")
			}
		}
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
