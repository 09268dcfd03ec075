package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/config"
	"github.com/kailas-cloud/heptuple/internal/db"
	dbRedis "github.com/kailas-cloud/heptuple/internal/db/redis"
	"github.com/kailas-cloud/heptuple/internal/domain/keyword"
	logpkg "github.com/kailas-cloud/heptuple/internal/logger"
	"github.com/kailas-cloud/heptuple/internal/metrics"
	"github.com/kailas-cloud/heptuple/internal/repository/analysiscache"
	corpusrepo "github.com/kailas-cloud/heptuple/internal/repository/corpus"
	profilerepo "github.com/kailas-cloud/heptuple/internal/repository/profile"
	chiTransport "github.com/kailas-cloud/heptuple/internal/transport/chi"
	analysisuc "github.com/kailas-cloud/heptuple/internal/usecase/analysis"
	compareuc "github.com/kailas-cloud/heptuple/internal/usecase/compare"
	feedbackuc "github.com/kailas-cloud/heptuple/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/heptuple/internal/usecase/health"
	searchuc "github.com/kailas-cloud/heptuple/internal/usecase/search"
	"github.com/kailas-cloud/heptuple/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting heptuple API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Redis and Valkey speak the same protocol; one rueidis store serves both drivers.
	var store db.Store
	switch cfg.Database.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Username:   cfg.Database.Username,
			Password:   cfg.Database.Password,
			DB:         cfg.Database.DB,
			ClientName: logpkg.ServiceName,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterHTTPMetrics()
	metrics.RegisterAnalysisMetrics()

	table, err := loadTaxonomy(cfg.Analysis.KeywordsFile)
	if err != nil {
		logger.Fatal("Failed to load keyword taxonomy", zap.Error(err))
	}
	logger.Info("Keyword taxonomy loaded",
		zap.String("source", taxonomySource(cfg.Analysis.KeywordsFile)),
		zap.String("model_version", cfg.Analysis.ModelVersion),
	)

	// Repositories
	profileRepo := profilerepo.New(store, cfg.Storage.KeyPrefix)
	corpusRepo := corpusrepo.New(store, cfg.Storage.KeyPrefix)

	// Use case services
	analyzer := analysisuc.NewAnalyzer(table, cfg.Analysis.ModelVersion)
	analysisSvc := analysisuc.New(analyzer).
		WithMaxTextLength(cfg.Analysis.MaxTextLength).
		WithBatchConcurrency(cfg.Analysis.BatchConcurrency)
	if cfg.Analysis.CacheTTLSec > 0 {
		ttl := time.Duration(cfg.Analysis.CacheTTLSec) * time.Second
		analysisSvc.WithCache(analysiscache.New(store, cfg.Storage.KeyPrefix, ttl, logger))
	}
	compareSvc := compareuc.New(profileRepo)
	searchSvc := searchuc.New(corpusRepo).WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	feedbackSvc := feedbackuc.New()
	healthSvc := healthuc.New(store, table, cfg.Analysis.ModelVersion)

	server := chiTransport.NewServer(analysisSvc, compareSvc, searchSvc, feedbackSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// loadTaxonomy reads the keyword table override, or returns the built-in one.
func loadTaxonomy(path string) (*keyword.Table, error) {
	if path == "" {
		return keyword.Default(), nil
	}
	t, err := keyword.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

func taxonomySource(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}
