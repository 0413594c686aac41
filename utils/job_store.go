package utils

import (
	"sync"
	"time"

	"delivery-backend/dtos"

	"github.com/google/uuid"
)

// JobStore manages recalculation jobs in memory
type JobStore struct {
	jobs map[uuid.UUID]*dtos.RecalcJob
	mu   sync.RWMutex
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[uuid.UUID]*dtos.RecalcJob)}
}

// Global job store instance
var Store = NewJobStore()

// CleanupOldJobs removes finished jobs older than 1 hour.
func (js *JobStore) CleanupOldJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	for id, job := range js.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(js.jobs, id)
		}
	}
}

func (js *JobStore) CreateJob(total int) *dtos.RecalcJob {
	js.CleanupOldJobs()

	js.mu.Lock()
	defer js.mu.Unlock()

	job := &dtos.RecalcJob{
		ID:        uuid.New(),
		Status:    dtos.JobStatusPending,
		Total:     total,
		Errors:    []dtos.JobError{},
		StartedAt: time.Now(),
	}

	js.jobs[job.ID] = job
	return job
}

// GetJob returns a copy so callers can serialize it without holding the lock.
func (js *JobStore) GetJob(id uuid.UUID) (dtos.RecalcJob, bool) {
	js.mu.RLock()
	defer js.mu.RUnlock()

	job, exists := js.jobs[id]
	if !exists {
		return dtos.RecalcJob{}, false
	}
	snapshot := *job
	snapshot.Errors = append([]dtos.JobError(nil), job.Errors...)
	return snapshot, true
}

func (js *JobStore) SetProcessing(id uuid.UUID) {
	js.update(id, func(job *dtos.RecalcJob) {
		job.Status = dtos.JobStatusProcessing
	})
}

// RecordProgress counts one processed order.
func (js *JobStore) RecordProgress(id uuid.UUID, orderID uuid.UUID, changed bool, err error) {
	js.update(id, func(job *dtos.RecalcJob) {
		job.Processed++
		switch {
		case err != nil:
			job.Failed++
			job.Errors = append(job.Errors, dtos.JobError{OrderID: orderID, Message: err.Error()})
		case changed:
			job.Changed++
		}
		if job.Total > 0 {
			job.Progress = job.Processed * 100 / job.Total
		}
	})
}

func (js *JobStore) CompleteJob(id uuid.UUID, status string) {
	js.update(id, func(job *dtos.RecalcJob) {
		job.Status = status
		job.Progress = 100
		now := time.Now()
		job.CompletedAt = &now
	})
}

func (js *JobStore) update(id uuid.UUID, fn func(*dtos.RecalcJob)) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[id]; exists {
		fn(job)
	}
}
