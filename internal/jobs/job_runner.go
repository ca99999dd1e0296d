package jobs

import (
	"enapm-backend/internal/clock"
	"enapm-backend/internal/config"
	"enapm-backend/internal/logger"
	"enapm-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	invitations repository.InvitationRepository
	clock       clock.Clock
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(invitations repository.InvitationRepository, clk clock.Clock, cfg *config.Config) *JobRunner {
	return &JobRunner{
		invitations: invitations,
		clock:       clk,
		config:      cfg,
	}
}

// Config returns the loaded application configuration
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
