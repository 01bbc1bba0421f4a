package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/bootstrap"
	"github.com/kailas-cloud/localdex/internal/config"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	logpkg "github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/metrics"
	entityrepo "github.com/kailas-cloud/localdex/internal/repository/entity"
	recentrepo "github.com/kailas-cloud/localdex/internal/repository/recent"
	sequencerepo "github.com/kailas-cloud/localdex/internal/repository/sequence"
	"github.com/kailas-cloud/localdex/internal/transport/api"
	chiTransport "github.com/kailas-cloud/localdex/internal/transport/chi"
	entityuc "github.com/kailas-cloud/localdex/internal/usecase/entity"
	healthuc "github.com/kailas-cloud/localdex/internal/usecase/health"
	recentuc "github.com/kailas-cloud/localdex/internal/usecase/recent"
	relateduc "github.com/kailas-cloud/localdex/internal/usecase/related"
	searchuc "github.com/kailas-cloud/localdex/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/localdex/internal/usecase/suggest"
	"github.com/kailas-cloud/localdex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting localdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("remote_driver", cfg.Remote.Driver),
	)

	store, err := bootstrap.OpenStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterSearchMetrics()

	// One repository per kind; each doubles as the local search gateway.
	repos := entityrepo.NewAll(store)
	var (
		searchGateways  []searchuc.Gateway
		relatedGateways []relateduc.Gateway
		suggestGateways []suggestuc.Gateway
		entityRepos     []entityuc.Repository
	)
	for _, k := range kind.All() {
		repo := repos[k]
		if err := repo.EnsureIndex(ctx); err != nil {
			logger.Fatal("Failed to ensure index", zap.String("collection", repo.Collection()), zap.Error(err))
		}
		searchGateways = append(searchGateways, repo)
		relatedGateways = append(relatedGateways, repo)
		suggestGateways = append(suggestGateways, repo)
		entityRepos = append(entityRepos, repo)
	}

	backend, err := bootstrap.NewRemote(cfg.Remote, logger)
	if err != nil {
		logger.Fatal("Failed to create remote backend", zap.Error(err))
	}

	// Pass nil interfaces (not typed nil pointers) when the remote tier is off.
	var (
		remoteSearch  searchuc.RemoteSearcher
		remoteRelated relateduc.RemoteSearcher
		remoteSuggest suggestuc.RemoteSuggester
		remoteHealth  healthuc.RemoteChecker
	)
	if backend != nil {
		remoteSearch, remoteRelated, remoteSuggest, remoteHealth = backend, backend, backend, backend
	}

	searchSvc := searchuc.New(searchGateways, remoteSearch, searchuc.Config{
		RemoteTimeout:  cfg.Remote.Timeout(),
		GatewayTimeout: cfg.Search.GatewayTimeout(),
		MaxParallel:    cfg.Search.MaxParallel,
		ScanLimit:      cfg.Search.ScanLimit,
	}, logger)
	relatedSvc := relateduc.New(relatedGateways, remoteRelated, relateduc.Config{
		RemoteTimeout:  cfg.Remote.Timeout(),
		GatewayTimeout: cfg.Search.GatewayTimeout(),
		DefaultLimit:   cfg.Related.DefaultLimit,
		MaxLimit:       cfg.Related.MaxLimit,
	}, logger)
	suggestSvc := suggestuc.New(suggestGateways, remoteSuggest, suggestuc.Config{
		RemoteTimeout: cfg.Remote.Timeout(),
		CacheSize:     cfg.Suggest.CacheSize,
		CacheTTL:      cfg.Suggest.CacheTTL(),
		Catalog:       cfg.Suggest.Catalog,
	}, logger)
	recentSvc := recentuc.New(recentrepo.New(store, cfg.Recent.Capacity, cfg.Recent.TTL()))
	entitySvc := entityuc.New(entityRepos, sequencerepo.New(store), logger)
	healthSvc := healthuc.New(store, remoteHealth)

	server := chiTransport.NewServer(chiTransport.Services{
		Search:   searchSvc,
		Related:  relatedSvc,
		Suggest:  suggestSvc,
		Recent:   recentSvc,
		Entities: entitySvc,
		Health:   healthSvc,
	}, logger).WithSearchLimits(cfg.Search.MaxResults, cfg.Search.HardMaxResults)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware("/metrics"))
	api.HandlerWithOptions(server, api.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
