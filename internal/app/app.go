// Package app wires configuration, storage, providers, the fetcher and
// the resolver into a running service.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/tradewars/resolver/internal/fetcher"
	"github.com/tradewars/resolver/internal/provider/shyft"
	"github.com/tradewars/resolver/internal/provider/solscan"
	"github.com/tradewars/resolver/internal/resolver"
	"github.com/tradewars/resolver/internal/snapshot"
	"github.com/tradewars/resolver/internal/storage"
	"github.com/tradewars/resolver/pkg/cache"
	"github.com/tradewars/resolver/pkg/config"
	"github.com/tradewars/resolver/pkg/healthprobe"
	"github.com/tradewars/resolver/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	store         storage.Store
	resolver      *resolver.Resolver
	snapshots     *snapshot.Service
	priceCache    cache.Cache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	store, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	transferFetcher, err := setupFetcher(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup fetcher: %w", err)
	}

	competitionResolver, err := resolver.New(&resolver.Config{
		Store:       store,
		Fetcher:     transferFetcher,
		Concurrency: cfg.ResolveConcurrency,
		Timeout:     cfg.ResolveTimeout,
		Logger:      logger,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup resolver: %w", err)
	}

	priceCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	snapshotService, err := setupSnapshots(cfg, logger, priceCache)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup snapshots: %w", err)
	}

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Resolver:      competitionResolver,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		store:         store,
		resolver:      competitionResolver,
		snapshots:     snapshotService,
		priceCache:    priceCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Resolver exposes the resolver for one-shot CLI use.
func (a *App) Resolver() *resolver.Resolver { return a.resolver }

// Snapshots exposes the snapshot service for one-shot CLI use.
func (a *App) Snapshots() *snapshot.Service { return a.snapshots }

// Store exposes the storage layer for one-shot CLI use.
func (a *App) Store() storage.Store { return a.store }

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	if cfg.StorageMode == "postgres" {
		return storage.NewPostgresStore(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
	}

	return storage.NewConsoleStore(logger), nil
}

func setupFetcher(cfg *config.Config, logger *zap.Logger) (*fetcher.Fetcher, error) {
	primary := solscan.NewClient(&solscan.Config{
		BaseURL:        cfg.SolscanBaseURL,
		APIKey:         cfg.SolscanAPIKey,
		PageSize:       cfg.SolscanPageSize,
		RequestTimeout: cfg.FetchRequestTimeout,
		Logger:         logger,
	})

	secondary := shyft.NewClient(&shyft.Config{
		BaseURL:        cfg.ShyftBaseURL,
		APIKey:         cfg.ShyftAPIKey,
		Network:        cfg.ShyftNetwork,
		PageSize:       cfg.ShyftPageSize,
		RequestTimeout: cfg.FetchRequestTimeout,
		Logger:         logger,
	})

	return fetcher.New(&fetcher.Config{
		Primary:        primary,
		Secondary:      secondary,
		MaxRetries:     cfg.FetchMaxRetries,
		BaseDelay:      cfg.FetchBaseDelay,
		RateLimitDelay: cfg.FetchRateLimitDelay,
		MaxPages:       cfg.FetchMaxPagesPerWallet,
		Logger:         logger,
	})
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupSnapshots(cfg *config.Config, logger *zap.Logger, priceCache cache.Cache) (*snapshot.Service, error) {
	rpcClient := snapshot.NewRPCClient(cfg.SolanaRPCURL, cfg.FetchRequestTimeout, logger)

	prices := snapshot.NewPriceSource(&snapshot.PriceConfig{
		BaseURL:        cfg.PriceAPIURL,
		DefaultSOLUSD:  cfg.DefaultSOLPriceUSD,
		CacheTTL:       cfg.PriceCacheTTL,
		Cache:          priceCache,
		RequestTimeout: cfg.FetchRequestTimeout,
		Logger:         logger,
	})

	return snapshot.NewService(&snapshot.Config{
		RPC:    rpcClient,
		Prices: prices,
		Logger: logger,
	})
}
