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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/rx-admin/internal/config"
	"github.com/jwalitptl/rx-admin/internal/handler/health"
	medicationHandler "github.com/jwalitptl/rx-admin/internal/handler/medication"
	patientHandler "github.com/jwalitptl/rx-admin/internal/handler/patient"
	prescriptionHandler "github.com/jwalitptl/rx-admin/internal/handler/prescription"
	"github.com/jwalitptl/rx-admin/internal/middleware"
	"github.com/jwalitptl/rx-admin/internal/repository/postgres"
	"github.com/jwalitptl/rx-admin/internal/router"
	eventService "github.com/jwalitptl/rx-admin/internal/service/event"
	medicationService "github.com/jwalitptl/rx-admin/internal/service/medication"
	patientService "github.com/jwalitptl/rx-admin/internal/service/patient"
	prescriptionService "github.com/jwalitptl/rx-admin/internal/service/prescription"
	"github.com/jwalitptl/rx-admin/pkg/logger"
	"github.com/jwalitptl/rx-admin/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	log.Logger = *appLogger.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		appLogger.Fatal(err, "failed to apply migrations")
	}
	for _, name := range applied {
		appLogger.Info("Applied migration", "name", name)
	}

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	medicationRepo := postgres.NewMedicationRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	patientSvc := patientService.NewService(patientRepo)
	medicationSvc := medicationService.NewService(medicationRepo)
	prescriptionSvc := prescriptionService.NewService(
		prescriptionRepo,
		patientRepo,
		medicationRepo,
		eventSvc,
		validator.New(),
		appLogger,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, cfg.Database.Name),
	)
	var metricsHandler http.Handler
	var requestMetrics *middleware.RequestMetrics
	if cfg.Monitoring.MetricsEnabled {
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
		requestMetrics = middleware.NewRequestMetrics(cfg.Monitoring.Namespace, registry)
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	routerConfig := router.RouterConfig{
		CORSConfig:     corsConfig,
		CacheConfig:    middleware.DefaultCacheConfig(),
		RequestTimeout: cfg.Server.RequestTimeout,
		Metrics:        requestMetrics,
	}
	if cfg.Server.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.Server.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.Server.RateLimit.Burst
	}

	gin.SetMode(gin.ReleaseMode)
	r := router.NewRouter(
		routerConfig,
		health.NewHandler(map[string]health.Checker{"database": db}, metricsHandler),
		patientHandler.NewHandler(patientSvc),
		medicationHandler.NewHandler(medicationSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
		os.Exit(1)
	}

	appLogger.Info("Server exited properly")
}
