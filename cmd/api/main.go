package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sairajtravels/trip-api/internal/adapters/http"
	natsadapter "github.com/sairajtravels/trip-api/internal/adapters/nats"
	"github.com/sairajtravels/trip-api/internal/adapters/nominatim"
	"github.com/sairajtravels/trip-api/internal/adapters/ors"
	"github.com/sairajtravels/trip-api/internal/adapters/postgres"
	"github.com/sairajtravels/trip-api/internal/adapters/valkey"
	"github.com/sairajtravels/trip-api/internal/core/domain"
	"github.com/sairajtravels/trip-api/internal/core/ports"
	"github.com/sairajtravels/trip-api/internal/core/usecases"
	"github.com/sairajtravels/trip-api/internal/pkg/config"
	"github.com/sairajtravels/trip-api/internal/pkg/logging"
	"github.com/sairajtravels/trip-api/internal/pkg/metrics"
	"github.com/sairajtravels/trip-api/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("trip-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.CollectorAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database. Trip planning itself works without it; only the catalogue
	// and trip log endpoints need a database.
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable", "error", err)
		db = nil
	} else {
		defer db.Close()

		// Export pool gauges
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.UpdateDBPoolMetrics(db.Pool.Stat())
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		nc = nil
	} else {
		defer nc.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// External providers
	directions := ors.New(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.Profile,
		time.Duration(cfg.Provider.TimeoutSeconds)*time.Second,
	)
	geocoder := nominatim.New(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		cfg.Geocoder.Zoom,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
	)

	pricing := domain.Pricing{
		FuelEfficiencyKmPerLiter: cfg.Pricing.FuelEfficiencyKmPerLiter,
		FuelPricePerLiter:        cfg.Pricing.FuelPricePerLiter,
		TollRatePerKm:            cfg.Pricing.TollRatePerKm,
	}

	// Repos (nil when no database is configured)
	var tripLogRepo ports.TripLogRepository
	var tripLogSvc *usecases.TripLogService
	var savedRouteSvc *usecases.SavedRouteService
	if db != nil {
		repo := postgres.NewTripLogRepo(db)
		tripLogRepo = repo
		tripLogSvc = usecases.NewTripLogService(repo)
		savedRouteSvc = usecases.NewSavedRouteService(postgres.NewSavedRouteRepo(db), cacheOrNil(cache))
	}

	var events ports.EventPublisher
	if nc != nil {
		events = nc
	}

	// Use cases
	snapper := usecases.NewSnapService(geocoder, cacheOrNil(cache))
	planner := usecases.NewPlannerService(
		directions, snapper, pricing, cfg.Pricing.FallbackSpeedKmh, tripLogRepo, events,
	)

	deps := &http.Dependencies{
		Planner:     planner,
		SavedRoutes: savedRouteSvc,
		TripLog:     tripLogSvc,
		NATS:        natsConn,
		DB:          db,
		Cache:       cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Sairaj Travels Trip API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.sairajtravels.com",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// cacheOrNil converts a possibly-nil *valkey.Cache into the port interface
// without producing a non-nil interface wrapping a nil pointer.
func cacheOrNil(c *valkey.Cache) ports.CacheService {
	if c == nil {
		return nil
	}
	return c
}
