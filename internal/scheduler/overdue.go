// Package scheduler runs the periodic overdue sweep: open loans past
// their expected return date are flagged overdue without waiting for the
// return transaction to notice.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// LoanFlagger is the slice of the loans repository the sweep needs.
type LoanFlagger interface {
	FlagOverdue(asOf time.Time) (int64, error)
}

// OverdueSweeper periodically flags overdue loans on a cron schedule.
type OverdueSweeper struct {
	loans    LoanFlagger
	schedule string

	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
	registered bool
}

// NewOverdueSweeper creates a sweeper with a standard 5-field cron
// schedule.
func NewOverdueSweeper(loans LoanFlagger, schedule string) *OverdueSweeper {
	return &OverdueSweeper{
		loans:    loans,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the sweep schedule. It runs one sweep immediately so a
// restart never leaves stale loans unflagged until the next tick.
func (s *OverdueSweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	// Register the job once; a restarted sweeper reuses the existing
	// entry instead of stacking a second one.
	if !s.registered {
		if _, err := s.cron.AddFunc(s.schedule, s.RunSweep); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
		}
		s.registered = true
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Overdue sweep scheduled: %s", s.schedule)

	go s.RunSweep()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *OverdueSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Overdue sweep stopped")
}

// RunSweep flags overdue loans once.
func (s *OverdueSweeper) RunSweep() {
	flagged, err := s.loans.FlagOverdue(time.Now())
	if err != nil {
		log.Printf("Overdue sweep failed: %v", err)
		return
	}
	if flagged > 0 {
		log.Printf("Overdue sweep flagged %d loan(s)", flagged)
	}
}
