package jobs

import (
	"membership-backend/internal/config"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	accounts repository.AccountRepository
	slots    repository.AuthSlotRepository
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(accounts repository.AccountRepository, slots repository.AuthSlotRepository, cfg *config.Config) *JobRunner {
	return &JobRunner{
		accounts: accounts,
		slots:    slots,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
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
