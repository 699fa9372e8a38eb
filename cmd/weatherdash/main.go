package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/weatherpro/weatherdash/internal/api/http"
	"github.com/weatherpro/weatherdash/internal/app"
	"github.com/weatherpro/weatherdash/internal/config"
	"github.com/weatherpro/weatherdash/internal/geo"
	"github.com/weatherpro/weatherdash/internal/persist"
	"github.com/weatherpro/weatherdash/internal/report"
	"github.com/weatherpro/weatherdash/internal/scheduler"
	"github.com/weatherpro/weatherdash/internal/store"
	"github.com/weatherpro/weatherdash/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Geocoding resolver with regional, global, and optional Google tiers.
	resolver := geo.NewResolver(httpClient, geo.Options{
		SearchURL:     cfg.GeocodingURL,
		ReverseURL:    cfg.ReverseURL,
		RegionCountry: cfg.RegionCountry,
		GoogleAPIKey:  cfg.GeocoderAPIKey,
	})

	// Forecast and air-quality clients feeding the aggregator.
	forecastClient := weather.NewForecastClient(httpClient, cfg.ForecastURL, cfg.ForecastDays)
	airClient := weather.NewAirQualityClient(httpClient, cfg.AirQualityURL)
	aggregator := weather.NewAggregator(forecastClient, airClient)

	// In-memory history with configured retention, plus durable last-seen state.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	gateway := persist.Open(cfg.DBPath)
	defer gateway.Close()

	controller := app.New(resolver, aggregator, memStore, gateway, cfg.DebounceDelay, cfg.FetchTimeout)
	defer controller.Stop()

	reports := report.NewBuilder(forecastClient, report.DefaultCities())

	// Restore the last-seen location (or the default) and warm both views.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	controller.Bootstrap(bootCtx)
	reports.Refresh(bootCtx)
	bootCancel()

	// Scheduler that keeps displayed data fresh between user actions.
	sched := scheduler.New(controller, reports, cfg.RefreshInterval, cfg.FetchTimeout)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	router := fiber.New(fiber.Config{
		AppName:               "weatherdash",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	router.Use(logger.New())
	router.Use(recover.New())

	// Basic health endpoint
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherdash",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(router, controller, reports)

	// Start server with graceful shutdown
	go func() {
		if err := router.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
