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
	"github.com/valkey-io/valkey-go"

	"github.com/ddui/walkability-api/internal/airquality"
	httpapi "github.com/ddui/walkability-api/internal/api/http"
	"github.com/ddui/walkability-api/internal/astro"
	"github.com/ddui/walkability-api/internal/cache"
	"github.com/ddui/walkability-api/internal/config"
	"github.com/ddui/walkability-api/internal/region"
	"github.com/ddui/walkability-api/internal/scheduler"
	"github.com/ddui/walkability-api/internal/walkability"
	"github.com/ddui/walkability-api/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	resolver, err := region.NewResolver()
	if err != nil {
		log.Fatalf("failed to load region tables: %v", err)
	}

	weatherClient := weather.NewClient(httpClient, weather.Config{
		ServiceKey:     cfg.ServiceKey,
		BaseURL:        cfg.WeatherBaseURL,
		UltraShortPath: cfg.UltraShortPath,
		ShortPath:      cfg.ShortPath,
		MidTempPath:    cfg.MidTempPath,
		MidLandPath:    cfg.MidLandPath,
	})

	airClient := airquality.NewClient(httpClient, airquality.Config{
		ServiceKey:  cfg.ServiceKey,
		BaseURL:     cfg.AirQualityBaseURL,
		StationPath: cfg.StationPath,
		DustPath:    cfg.DustPath,
		WeeklyPath:  cfg.WeeklyPath,
	})
	airService := airquality.NewService(airClient)

	astroClient := astro.NewClient(httpClient, astro.Config{
		ServiceKey:  cfg.ServiceKey,
		BaseURL:     cfg.AstroBaseURL,
		RiseSetPath: cfg.RiseSetPath,
	})

	// Valkey-backed cache when configured, in-memory otherwise.
	var store cache.Cache
	if cfg.ValkeyAddr != "" {
		client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{cfg.ValkeyAddr}})
		if err != nil {
			log.Fatalf("failed to connect to valkey: %v", err)
		}
		defer client.Close()
		store = cache.NewValkeyCache(client)
	} else {
		log.Println("INFO: VALKEY_ADDR not set, using in-memory cache")
		store = cache.NewMemoryCache()
	}
	caches := cache.NewAirQuality(store, airService)

	// Populate the rolling caches before serving; warm-up failure after
	// bounded retries is fatal.
	if err := caches.WarmUp(context.Background()); err != nil {
		log.Fatalf("cache warm-up failed: %v", err)
	}

	// Scheduled refreshes on the upstream publish cadence.
	sched := scheduler.New(tz, caches)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	service := walkability.NewService(resolver, weatherClient, airService, caches, astroClient)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "walkability-api",
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
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
