// Package scheduler runs periodic maintenance: it enqueues the book status
// reconciliation task on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/tasks"
)

// ReconcileScheduler periodically enqueues status reconciliation tasks.
type ReconcileScheduler struct {
	taskClient *tasks.Client
	schedule   string

	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewReconcileScheduler creates a new scheduler instance.
func NewReconcileScheduler(taskClient *tasks.Client, schedule string) *ReconcileScheduler {
	return &ReconcileScheduler{
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule. Safe to call once; subsequent calls are no-ops.
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.enqueue)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation job: %w", err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Status reconciliation scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

func (s *ReconcileScheduler) enqueue() {
	if _, err := s.taskClient.Add(tasks.ReconcileStatusTask{}).Save(); err != nil {
		log.Printf("Status reconciliation scheduler: failed to enqueue task: %v", err)
	}
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *ReconcileScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Status reconciliation scheduler: stopped")
}
