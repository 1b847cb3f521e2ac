package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "learnportal-backend/internal/api/http"
	"learnportal-backend/internal/config"
	"learnportal-backend/internal/database"
	"learnportal-backend/internal/events"
	"learnportal-backend/internal/identity"
	"learnportal-backend/internal/jobs"
	"learnportal-backend/internal/logger"
	"learnportal-backend/internal/metrics"
	"learnportal-backend/internal/repository/postgres"
	"learnportal-backend/internal/scheduler"
	"learnportal-backend/internal/security"
	"learnportal-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LearnPortal Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := database.Open(cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply schema migrations
	if err := database.RunMigrations(cfg.GetDatabaseConnectionString()); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Identity Provider
	ctx := context.Background()
	provider, err := identity.NewFirebaseProvider(ctx, cfg.Auth.ProjectID, cfg.Auth.CredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize identity provider", "error", err)
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}

	// Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Initialize Event Bus
	bus := events.NewBus()

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
		cfg.SendGrid.PortalURL,
	)
	intakeSvc := service.NewIntakeService(
		store.RegistrationRepository,
		store.UserRepository,
		bus,
		collector,
	)
	provisioner := service.NewProvisioner(
		provider,
		store.UserRepository,
		store.ProfileRepository,
		bus,
		collector,
	)
	decisionSvc := service.NewDecisionService(
		store.RegistrationRepository,
		store.CompanyRepository,
		store.ApprovalLogRepository,
		provisioner,
		emailSvc,
		bus,
		collector,
	)

	// Initialize HTTP handlers and middleware
	submitLimiter := httpapi.NewRateLimiter(cfg.RateLimit.SubmitPerMinute, cfg.RateLimit.SubmitBurst)
	defer submitLimiter.Stop()

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Registrations: httpapi.NewRegistrationHandler(intakeSvc, decisionSvc),
		Events:        httpapi.NewEventsHandler(bus),
		Auth:          httpapi.NewAuthMiddleware(tokenManager),
		SubmitLimiter: submitLimiter,
		Registry:      registry,
		DB:            db,
	})

	// Initialize in-process orphan sweep
	jobRunner := jobs.NewJobRunner(store, provider, collector, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
