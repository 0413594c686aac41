package dtos

import (
	"time"

	"github.com/google/uuid"
)

// RecalcJob tracks an order total recalculation pass.
type RecalcJob struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`   // pending, processing, completed, failed
	Progress    int        `json:"progress"` // 0-100 percentage
	Total       int        `json:"total"`
	Processed   int        `json:"processed"`
	Changed     int        `json:"changed"`
	Failed      int        `json:"failed"`
	Errors      []JobError `json:"errors"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// JobError is a single order the pass could not update.
type JobError struct {
	OrderID uuid.UUID `json:"order_id"`
	Message string    `json:"message"`
}

// JobStatus constants
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)
