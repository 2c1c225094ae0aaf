package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/serendibtrip/serendibtrip-api/config"
	"github.com/serendibtrip/serendibtrip-api/handlers"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/middleware"
	"github.com/serendibtrip/serendibtrip-api/services"
	"github.com/serendibtrip/serendibtrip-api/types"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config                *config.Config
	JWTValidator          middleware.Validator
	RateLimiter           services.RateLimiterInterface
	FeatureGate           middleware.FeatureAcquirer
	Registry              *prometheus.Registry
	HTTPMetrics           *middleware.HTTPMetrics
	TripHandler           *handlers.TripHandler
	ItineraryHandler      *handlers.ItineraryHandler
	BudgetHandler         *handlers.BudgetHandler
	FeatureHandler        *handlers.FeatureHandler
	RecommendationHandler *handlers.RecommendationHandler
	FavoriteHandler       *handlers.FavoriteHandler
	NotificationHandler   *handlers.NotificationHandler
	HealthHandler         *handlers.HealthHandler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(deps.Config.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
			logger.GetLogger().Warnw("Ignoring invalid trusted proxies", "error", err)
		}
	}

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.HTTPMetrics))
	}

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.OptionalAuth(deps.JWTValidator))
	v1.Use(middleware.APIRateLimiter(deps.RateLimiter, deps.Config.RateLimit))
	{
		// Stateless calculators, open to guests
		budgetRoutes := v1.Group("/budget")
		{
			budgetRoutes.POST("/allocation", deps.BudgetHandler.AllocationHandler)
			budgetRoutes.POST("/categorize", deps.BudgetHandler.CategorizeHandler)
			budgetRoutes.POST("/fit", deps.BudgetHandler.FitHandler)
		}
		v1.POST("/pricing/estimate", deps.BudgetHandler.PriceEstimateHandler)

		featureRoutes := v1.Group("/features")
		{
			featureRoutes.GET("", deps.FeatureHandler.ListFeaturesHandler)
			featureRoutes.GET("/:name/access", deps.FeatureHandler.FeatureAccessHandler)
			featureRoutes.GET("/:name/usage", deps.FeatureHandler.FeatureUsageHandler)
			featureRoutes.POST("/:name/usage", deps.FeatureHandler.RecordUsageHandler)
		}

		v1.POST("/trips/check-overlap", deps.TripHandler.CheckOverlapHandler)
		v1.GET("/shared/:token", deps.TripHandler.GetSharedTripHandler)

		// AI routes are metered per guest session or per user
		v1.POST("/recommendations",
			middleware.RequireFeature(deps.FeatureGate, types.FeatureAIRecommendations),
			deps.RecommendationHandler.RecommendationsHandler,
		)
		v1.POST("/ai/chat",
			middleware.RequireFeature(deps.FeatureGate, types.FeatureAIChat),
			deps.RecommendationHandler.ChatHandler,
		)

		// --- Authenticated Routes ---
		authRoutes := v1.Group("")
		authRoutes.Use(middleware.RequireAuth())
		{
			tripRoutes := authRoutes.Group("/trips")
			{
				tripRoutes.POST("",
					middleware.RequireFeature(deps.FeatureGate, types.FeatureSaveTrip),
					deps.TripHandler.CreateTripHandler,
				)
				tripRoutes.GET("", deps.TripHandler.ListUserTripsHandler)
				tripRoutes.GET("/:id", deps.TripHandler.GetTripHandler)
				tripRoutes.PUT("/:id", deps.TripHandler.UpdateTripHandler)
				tripRoutes.DELETE("/:id", deps.TripHandler.DeleteTripHandler)
				tripRoutes.GET("/:id/budget", deps.TripHandler.GetTripBudgetHandler)
				tripRoutes.POST("/:id/share",
					middleware.RequireFeature(deps.FeatureGate, types.FeatureShareItinerary),
					deps.TripHandler.ShareTripHandler,
				)

				dayRoutes := tripRoutes.Group("/:id/days/:day")
				{
					dayRoutes.POST("/activities", deps.ItineraryHandler.AddActivityHandler)
					dayRoutes.PATCH("/activities/:index", deps.ItineraryHandler.UpdateActivityHandler)
					dayRoutes.DELETE("/activities/:index", deps.ItineraryHandler.DeleteActivityHandler)
					dayRoutes.POST("/reorder", deps.ItineraryHandler.ReorderActivityHandler)
				}
			}

			favoriteRoutes := authRoutes.Group("/favorites")
			{
				favoriteRoutes.GET("", deps.FavoriteHandler.ListFavoritesHandler)
				favoriteRoutes.POST("", deps.FavoriteHandler.AddFavoriteHandler)
				favoriteRoutes.DELETE("/:id", deps.FavoriteHandler.DeleteFavoriteHandler)
			}

			userRoutes := authRoutes.Group("/users/me")
			{
				userRoutes.GET("/notification-settings", deps.NotificationHandler.GetSettingsHandler)
				userRoutes.PUT("/notification-settings", deps.NotificationHandler.UpdateSettingsHandler)
			}
		}
	}

	return r
}
