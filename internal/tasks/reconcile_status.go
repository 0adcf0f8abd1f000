package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// StatusReconciler recomputes book statuses from open-loan state and repairs
// drift, returning the number of corrected rows.
type StatusReconciler interface {
	ReconcileStatuses() (int64, error)
}

// ReconcileStatusTask audits the Book.status flag against open loans. A
// crash between a loan write and its paired status write would leave the two
// inconsistent; this task repairs such drift.
type ReconcileStatusTask struct{}

// Config returns the queue configuration for reconciliation tasks.
func (t ReconcileStatusTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reconcile_book_status",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReconcileStatusProcessor creates a processor function for ReconcileStatusTask.
func ReconcileStatusProcessor(reconciler StatusReconciler) backlite.QueueProcessor[ReconcileStatusTask] {
	return func(ctx context.Context, task ReconcileStatusTask) error {
		if reconciler == nil {
			return fmt.Errorf("status reconciler not configured")
		}

		fixed, err := reconciler.ReconcileStatuses()
		if err != nil {
			return fmt.Errorf("reconcile book statuses: %w", err)
		}

		if fixed > 0 {
			log.Printf("[TASK] Repaired %d book status row(s)", fixed)
		}
		return nil
	}
}

// NewReconcileStatusQueue creates a backlite queue for reconciliation tasks.
func NewReconcileStatusQueue(reconciler StatusReconciler) backlite.Queue {
	return backlite.NewQueue(ReconcileStatusProcessor(reconciler))
}
