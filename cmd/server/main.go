package main

import (
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/swaplens/backend/config"
	httpDelivery "github.com/swaplens/backend/internal/delivery/http"
	"github.com/swaplens/backend/internal/infrastructure/availability"
	"github.com/swaplens/backend/internal/infrastructure/cache"
	"github.com/swaplens/backend/internal/infrastructure/catalog"
	"github.com/swaplens/backend/internal/infrastructure/discovery"
	"github.com/swaplens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting SwapLens backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	// Initialize infrastructure dependencies
	catalogStore, err := catalog.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open catalog store", zap.Error(err))
	}
	defer catalogStore.Close()

	availabilityStore, err := availability.NewStore(catalogStore.DB())
	if err != nil {
		logger.Fatal("failed to open availability store", zap.Error(err))
	}

	resultCache := cache.NewMemoryCache(cfg.Cache.TTL)

	discoveryClient := discovery.NewClient(cfg.Discovery.APIKey, cfg.Discovery.BaseURL, cfg.Discovery.Timeout)
	if cfg.Server.Environment == "development" {
		discoveryClient.SetDebug(true)
	}
	logger.Info("discovery client configured",
		zap.String("base_url", cfg.Discovery.BaseURL),
		zap.Duration("timeout", cfg.Discovery.Timeout))

	// Initialize usecase layer
	swapCache := usecase.NewCatalogSwapCache(catalogStore, cfg.Cache.AsyncSwapWriteback, logger)

	resolver := usecase.NewResolverService(
		catalogStore,
		swapCache,
		discoveryClient,
		usecase.ResolverConfig{Limit: cfg.Resolver.SwapLimit},
		logger,
	)

	availabilityService := usecase.NewAvailabilityService(
		availabilityStore,
		availabilityStore,
		availabilityStore,
		usecase.AvailabilityConfig{
			Cap:                cfg.Resolver.AvailabilityCap,
			CommunityFreshness: time.Duration(cfg.Resolver.CommunityFreshnessDays) * 24 * time.Hour,
		},
		logger,
	)

	swapService := usecase.NewSwapService(
		catalogStore,
		resolver,
		availabilityService,
		resultCache,
		usecase.SwapServiceConfig{ResultTTL: cfg.Cache.TTL},
		logger,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(swapService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
