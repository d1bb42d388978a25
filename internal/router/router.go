package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/arifdev/recipely/backend/internal/handlers"
	"github.com/arifdev/recipely/backend/internal/metrics"
	"github.com/arifdev/recipely/backend/internal/middleware"
	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/realtime"
	"github.com/arifdev/recipely/backend/internal/repositories"
	"github.com/arifdev/recipely/backend/internal/services"
	"github.com/arifdev/recipely/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Debug().Msg("global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, broker *realtime.Broker, collector *metrics.Collector, registry *prometheus.Registry) {
	// AutoMigrate PostgreSQL models
	if err := db.Postgres.AutoMigrate(&models.Notification{}); err != nil {
		log.Fatal().Err(err).Msg("failed to auto migrate models")
	}
	log.Info().Msg("postgres auto-migrations completed")

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	// --- Initialize Repositories ---
	mongoDB := db.Mongo.Database(cfg.MongoDBName)
	userRepo := repositories.NewMongoUserRepository(mongoDB)
	recipeRepo := repositories.NewMongoRecipeRepository(mongoDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)

	// --- Initialize Services ---
	graphStore := services.NewGraphStore(userRepo)
	interactionStore := services.NewInteractionStore(recipeRepo)
	notificationLog := services.NewNotificationLog(notificationRepo)
	gateway := services.NewInteractionGateway(graphStore, interactionStore, notificationLog, broker, collector)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Debug().Msg("jwt authentication middleware applied to /api/v1 group")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, recipeRepo)
	userHandler.RegisterUserRoutes(api)

	// Follow routes
	followHandler := handlers.NewFollowHandler(gateway, graphStore)
	followHandler.RegisterFollowRoutes(api)

	// Recipe routes
	recipeHandler := handlers.NewRecipeHandler(recipeRepo, userRepo)
	recipeHandler.RegisterRecipeRoutes(api)

	// Saved recipe routes (registered before /recipes/:id variants)
	savedRecipeHandler := handlers.NewSavedRecipeHandler(gateway, recipeRepo)
	savedRecipeHandler.RegisterSavedRecipeRoutes(api)

	// Like routes
	likeHandler := handlers.NewLikeHandler(gateway)
	likeHandler.RegisterLikeRoutes(api)

	// Rating routes
	ratingHandler := handlers.NewRatingHandler(gateway)
	ratingHandler.RegisterRatingRoutes(api)

	// Comment routes
	commentHandler := handlers.NewCommentHandler(gateway)
	commentHandler.RegisterCommentRoutes(api)

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationLog, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	// Realtime routes
	realtimeHandler := handlers.NewRealtimeHandler(broker)
	realtimeHandler.RegisterRealtimeRoutes(api)

	log.Info().Msg("all routes configured")
}
