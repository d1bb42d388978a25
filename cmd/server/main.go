package main

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/arifdev/recipely/backend/internal/metrics"
	"github.com/arifdev/recipely/backend/internal/realtime"
	"github.com/arifdev/recipely/backend/internal/router"
	"github.com/arifdev/recipely/backend/pkg/config"
	"github.com/arifdev/recipely/backend/pkg/logging"
	"github.com/arifdev/recipely/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.Env)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(registry)

	// Fanout broker
	broker := realtime.NewBroker(collector)
	defer broker.Close()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db, broker, collector, registry)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	log.Info().Str("port", cfg.Port).Msg("starting server")
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
