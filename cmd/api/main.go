package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/booking-api/internal/cache"
	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/handler"
	availabilityHandler "github.com/jwalitptl/booking-api/internal/handler/availability"
	bookingHandler "github.com/jwalitptl/booking-api/internal/handler/booking"
	catalogHandler "github.com/jwalitptl/booking-api/internal/handler/catalog"
	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/presenter"
	"github.com/jwalitptl/booking-api/internal/repository/postgres"
	"github.com/jwalitptl/booking-api/internal/router"
	availabilityService "github.com/jwalitptl/booking-api/internal/service/availability"
	bookingService "github.com/jwalitptl/booking-api/internal/service/booking"
	catalogService "github.com/jwalitptl/booking-api/internal/service/catalog"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

// availabilityStore is what the services need from the availability cache
type availabilityStore interface {
	availabilityService.Cache
	bookingService.Invalidator
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.App.Environment,
	})

	loc, err := cfg.Location()
	if err != nil {
		l.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("invalid timezone")
	}
	p, err := presenter.New(cfg.App.Locale, loc)
	if err != nil {
		l.Fatal().Err(err).Msg("invalid locale")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	db, err := postgres.NewDB(startCtx, cfg.Database)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrator, err := postgres.NewMigrator(db.DB, l)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to prepare migrations")
		}
		if err := migrator.Up(startCtx); err != nil {
			l.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, cfg.Database.Name),
	)
	m := metrics.NewMetrics("ranch", reg)

	var availabilityCache availabilityStore = cache.Nop{}
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(startCtx, cfg.Redis)
		if err != nil {
			// reads fall back to the database
			l.Warn().Err(err).Msg("availability cache disabled")
		} else {
			defer rdb.Close()
			availabilityCache = cache.NewAvailabilityCache(rdb, cfg.Redis.CacheTTL, m, l)
		}
	}

	// Repositories
	serviceRepo := postgres.NewServiceRepository(db)
	slotRepo := postgres.NewTimeSlotRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	transactor := postgres.NewTransactor(db)

	// Services
	catalogSvc := catalogService.NewService(serviceRepo, slotRepo, catalogService.Config{
		CacheTTL:        cfg.Catalog.CacheTTL,
		CleanupInterval: cfg.Catalog.CleanupInterval,
		UpcomingSlots:   cfg.Booking.UpcomingSlots,
	}, m)
	availabilitySvc := availabilityService.NewService(serviceRepo, slotRepo,
		availabilityService.WithCache(availabilityCache),
		availabilityService.WithLocation(loc),
		availabilityService.WithMaxDays(cfg.Booking.MaxDayWindow),
		availabilityService.WithLogger(l),
	)
	bookingSvc := bookingService.NewService(serviceRepo, slotRepo, bookingRepo, transactor,
		bookingService.WithCache(availabilityCache),
		bookingService.WithMetrics(m),
		bookingService.WithLogger(l),
	)

	mode := gin.DebugMode
	if cfg.IsProduction() {
		mode = gin.ReleaseMode
	}

	r := router.NewRouter(
		catalogHandler.NewHandler(catalogSvc, p),
		availabilityHandler.NewHandler(availabilitySvc, p, cfg.Booking.DefaultDayWindow),
		bookingHandler.NewHandler(bookingSvc, p),
		handler.NewHandler(db, slotRepo, p, reg),
		l,
		reg,
		router.RouterConfig{
			Mode:             mode,
			BasePath:         cfg.Server.BasePath,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RequestsPerSecond,
				Burst: cfg.RateLimit.Burst,
			},
			CORSOrigins:    cfg.CORS.AllowedOrigins,
			MaxBodyBytes:   cfg.Server.MaxBodyBytes,
			RequestTimeout: cfg.Server.RequestTimeout,
			HSTS:           cfg.IsProduction(),
			CatalogMaxAge:  int(cfg.Catalog.CacheTTL.Seconds()),
			MetricsPrefix:  "ranch_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info().
			Int("port", cfg.Server.Port).
			Str("environment", cfg.App.Environment).
			Str("base_path", cfg.Server.BasePath).
			Msg("booking api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	l.Info().Msg("server exited properly")
}
