package jobs

import (
	"learnportal-backend/internal/config"
	"learnportal-backend/internal/identity"
	"learnportal-backend/internal/logger"
	"learnportal-backend/internal/metrics"
	"learnportal-backend/internal/repository/postgres"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    *postgres.Store
	provider identity.Provider
	metrics  metrics.Recorder
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, provider identity.Provider, rec metrics.Recorder, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		provider: provider,
		metrics:  rec,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
