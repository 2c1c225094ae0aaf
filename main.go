package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/serendibtrip/serendibtrip-api/config"
	"github.com/serendibtrip/serendibtrip-api/db"
	_ "github.com/serendibtrip/serendibtrip-api/docs"
	"github.com/serendibtrip/serendibtrip-api/handlers"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/middleware"
	"github.com/serendibtrip/serendibtrip-api/models/featuregate"
	recservice "github.com/serendibtrip/serendibtrip-api/models/recommendation/service"
	tripservice "github.com/serendibtrip/serendibtrip-api/models/trip/service"
	"github.com/serendibtrip/serendibtrip-api/pkg/gemini"
	"github.com/serendibtrip/serendibtrip-api/router"
	"github.com/serendibtrip/serendibtrip-api/services"
	"github.com/serendibtrip/serendibtrip-api/store/postgres"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// @title SerendibTrip API
// @version 1.0
// @description Trip planning, budgeting and AI recommendations for travel in Sri Lanka.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	pool, err := config.InitDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer pool.Close()

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.URL()); err != nil {
			log.Fatalw("Failed to run database migrations", "error", err)
		}
	}

	redisClient, err := config.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalw("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warnw("Error closing Redis client", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Feature gate
	limits, err := config.LoadFeatureLimits(cfg.FeatureGate.LimitsFile)
	if err != nil {
		log.Fatalw("Failed to load feature limits", "error", err)
	}
	var counterStore featuregate.CounterStore
	switch cfg.FeatureGate.Store {
	case "memory":
		log.Warn("Feature gate counters are held in memory and reset on restart")
		counterStore = featuregate.NewMemoryCounterStore()
	default:
		counterStore = featuregate.NewRedisCounterStore(redisClient, cfg.FeatureGate.GuestSessionTTL())
	}
	gate := featuregate.NewGate(limits, counterStore,
		featuregate.WithBypass(cfg.FeatureGate.BypassLimits),
		featuregate.WithMetrics(featuregate.NewMetrics(registry)),
	)

	// AI provider
	var provider types.RecommendationProvider = gemini.Disabled()
	if cfg.AI.Enabled() {
		client, err := gemini.NewClient(ctx, cfg.AI)
		if err != nil {
			log.Fatalw("Failed to initialize Gemini client", "error", err)
		}
		provider = client
	}
	recommendationTTL := time.Duration(cfg.Cache.RecommendationTTLMinutes) * time.Minute
	recommendationCache := cache.New(recommendationTTL, time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute)
	recommendationService := recservice.NewRecommendationService(provider, recommendationCache, recommendationTTL, recservice.NewMetrics(registry))

	// Share snapshots
	var snapshots services.SnapshotStorage
	if cfg.Storage.Enabled {
		s3Storage, err := services.NewS3SnapshotStorage(ctx, cfg.Storage)
		if err != nil {
			log.Fatalw("Failed to initialize snapshot storage", "error", err)
		}
		snapshots = s3Storage
		log.Infow("Share snapshots stored in bucket", "bucket", cfg.Storage.Bucket)
	} else {
		log.Warn("Object storage disabled, shared itineraries are kept in memory")
		snapshots = services.NewMemorySnapshotStorage()
	}
	signer := services.NewShareTokenSigner(cfg.Storage.ShareSecret, cfg.Storage.ShareTTL())

	// Stores and services
	tripStore := postgres.NewPgTripStore(pool)
	favoriteStore := postgres.NewPgFavoriteStore(pool)
	notificationStore := postgres.NewPgNotificationSettingsStore(pool)

	tripService := tripservice.NewTripManagementService(tripStore, snapshots, signer, cfg.Storage.ShareTTL())
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version, string(cfg.Server.Environment), cfg.AI.Enabled())

	jwtValidator, err := middleware.NewJWTValidator(&cfg.Server)
	if err != nil {
		log.Fatalw("Failed to initialize JWT validator", "error", err)
	}

	deps := router.Dependencies{
		Config:                cfg,
		JWTValidator:          jwtValidator,
		RateLimiter:           services.NewRateLimitService(redisClient),
		FeatureGate:           gate,
		Registry:              registry,
		HTTPMetrics:           middleware.NewHTTPMetrics(registry),
		TripHandler:           handlers.NewTripHandler(tripService),
		ItineraryHandler:      handlers.NewItineraryHandler(tripService),
		BudgetHandler:         handlers.NewBudgetHandler(),
		FeatureHandler:        handlers.NewFeatureHandler(gate),
		RecommendationHandler: handlers.NewRecommendationHandler(recommendationService, tripService),
		FavoriteHandler:       handlers.NewFavoriteHandler(favoriteStore),
		NotificationHandler:   handlers.NewNotificationHandler(notificationStore, log.Desugar()),
		HealthHandler:         handlers.NewHealthHandler(healthService),
	}
	r := router.SetupRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment, "version", cfg.Server.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("Shutting down server", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server exited")
}
