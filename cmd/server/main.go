package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"ecb-rate-service/internal/adapter/cache"
	httpRouter "ecb-rate-service/internal/adapter/http"
	"ecb-rate-service/internal/adapter/repository"
	"ecb-rate-service/internal/config"
	"ecb-rate-service/internal/domain/ports"
	"ecb-rate-service/internal/metrics"
	"ecb-rate-service/internal/service"
	"ecb-rate-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info("Starting ECB rate service", "version", repository.Version, "cache_driver", cfg.Cache.Driver)

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	store, closeStore, err := newStore(cfg.Cache, log)
	if err != nil {
		log.Error("Failed to initialise cache", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	exchangeService := service.NewExchangeService(service.Options{
		Cache:      store,
		CurrentTTL: cfg.Cache.CurrentTTL,
		HistoryTTL: cfg.Cache.HistoryTTL,
		Transport:  &http.Client{Timeout: cfg.ECB.Timeout},
		Endpoints: service.Endpoints{
			Daily:      cfg.ECB.DailyURL,
			NinetyDays: cfg.ECB.NinetyDaysURL,
			History:    cfg.ECB.HistoryURL,
		},
		UserAgent: cfg.ECB.UserAgent,
		Logger:    log,
		Metrics:   appMetrics,
	})

	handler := httpRouter.NewHandler(exchangeService, log)
	router := httpRouter.NewRouter(handler, log, appMetrics, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancelJobs := context.WithCancel(context.Background())
	scheduler, err := newScheduler(ctx, cfg.ECB.WarmSchedule, exchangeService, store, log)
	if err != nil {
		log.Error("Failed to schedule cache warm-up", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancelJobs()
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		closeStore()
		os.Exit(1)
	}

	log.Info("Server exited")
}

// newStore builds the byte store selected by CACHE_DRIVER. The returned
// func releases its connections.
func newStore(cfg config.CacheConfig, log *logger.Logger) (ports.Store, func(), error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		store, err := cache.NewRedisStore(cfg.RedisURL, cfg.Prefix, log)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(context.Background()); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case config.CacheDriverNone:
		return cache.NullStore{}, func() {}, nil
	default:
		return cache.NewMemoryStore(cfg.CleanupInterval, log), func() {}, nil
	}
}
