package scheduler

import (
	"time"

	"iuran-rt-backend/internal/jobs"
	"iuran-rt-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// Invoice generation at the start of the month
	if _, err := s.cron.AddFunc(cfg.GenerateMonthlyInvoices, s.jobs.GenerateMonthlyInvoices); err != nil {
		logger.Error("Failed to register GenerateMonthlyInvoices job", "spec", cfg.GenerateMonthlyInvoices, "error", err)
		return err
	}

	// Arrears snapshots at month end
	if _, err := s.cron.AddFunc(cfg.TakeArrearsSnapshots, s.jobs.TakeArrearsSnapshots); err != nil {
		logger.Error("Failed to register TakeArrearsSnapshots job", "spec", cfg.TakeArrearsSnapshots, "error", err)
		return err
	}

	logger.Info("All cron jobs registered successfully", "count", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has registered jobs
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// Next returns when each registered job fires next, keyed by entry id
func (s *Scheduler) Next() map[cron.EntryID]time.Time {
	next := make(map[cron.EntryID]time.Time)
	for _, e := range s.cron.Entries() {
		next[e.ID] = e.Next
	}
	return next
}
