package scheduler

import (
	"fmt"
	"log"

	"PricePulse/internal/pipeline"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the pipeline on a cron schedule in daemon mode.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
}

// NewScheduler creates a new Scheduler.
func NewScheduler(p *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
	}
}

// Register registers the pipeline run task with the given cron expression.
func (s *Scheduler) Register(cronExpr string) error {
	if _, err := s.Cron.AddFunc(cronExpr, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the pipeline immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runTask()
}

// runTask logs failures instead of exiting: in daemon mode a failed run
// leaves previous output untouched and the next scheduled run retries.
func (s *Scheduler) runTask() {
	log.Println("[INFO] scheduled run starting")
	if err := s.Pipeline.Run(); err != nil {
		log.Printf("[ERROR] scheduled run failed: %v", err)
	}
}
