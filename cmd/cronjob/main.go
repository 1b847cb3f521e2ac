package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"learnportal-backend/internal/config"
	"learnportal-backend/internal/database"
	"learnportal-backend/internal/identity"
	"learnportal-backend/internal/jobs"
	"learnportal-backend/internal/logger"
	"learnportal-backend/internal/metrics"
	"learnportal-backend/internal/repository/postgres"
	"learnportal-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-orphans')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LearnPortal Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Identity Provider
	provider, err := identity.NewFirebaseProvider(context.Background(), cfg.Auth.ProjectID, cfg.Auth.CredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize identity provider", "error", err)
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, provider, metrics.NewNoop(), cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cronScheduler.Stop()
	logger.Info("Cronjob runner stopped")
}

// runJobOnce executes a single named job for manual or containerized runs
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-orphans":
		jobRunner.SweepOrphanedIdentities()
	default:
		logger.Error("Unknown job name", "job", jobName)
		log.Fatalf("Unknown job name: %s", jobName)
	}
}
