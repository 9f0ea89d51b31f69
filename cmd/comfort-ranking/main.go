package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/comfort-ranking/internal/api/http"
	"github.com/i474232898/comfort-ranking/internal/cache"
	"github.com/i474232898/comfort-ranking/internal/catalog"
	"github.com/i474232898/comfort-ranking/internal/config"
	"github.com/i474232898/comfort-ranking/internal/logger"
	"github.com/i474232898/comfort-ranking/internal/scheduler"
	"github.com/i474232898/comfort-ranking/internal/weather"
	"github.com/i474232898/comfort-ranking/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if cfg.OpenWeatherAPIKey == "" {
		log.Warn("OPENWEATHER_API_KEY is not set; every city fetch will fail")
	}

	// City catalog. Without it there is nothing to rank.
	cities, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			log.Error("failed to load city catalog", "path", loadErr.Path, "error", loadErr.Err)
		} else {
			log.Error("failed to load city catalog", "error", err)
		}
		os.Exit(1)
	}
	cities = catalog.Subset(cities, cfg.CitySubsetSize)
	log.Info("city catalog loaded", "path", cfg.CatalogPath, "cities", len(cities))

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}

	// Provider with resilience (backoff + circuit breaker).
	provider := providers.NewOpenWeatherProvider(
		httpClient,
		cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.OpenWeatherBaseURL),
		providers.WithRetries(cfg.UpstreamMaxRetries),
	)

	// Two cache tiers sharing one set of hit/miss counters.
	metrics := cache.NewMetrics(prometheus.DefaultRegisterer)
	observations := cache.New[weather.Observation]("observation", cfg.ObservationTTL, metrics)
	results := cache.New[[]weather.RankedEntry]("result", cfg.ResultTTL, metrics)

	pipeline := weather.NewPipeline(provider, observations, cfg.FetchParallelism, cfg.UpstreamTimeout, log)
	service := weather.NewService(cities, pipeline, observations, results, metrics, log)

	// Background sweep and optional warm-up.
	sched := scheduler.New(service, cfg.WarmInterval, cfg.SweepInterval, 2*cfg.UpstreamTimeout, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "comfort-ranking",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.RequestTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "comfort-ranking",
			"cities":  len(cities),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/api", httpapi.RequestTimeout(cfg.RequestTimeout))
	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
