package model

import "time"

// JobStatus tracks a look job through the worker pool.
type JobStatus string

// Job statuses.
const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	// JobFallback means the stylist failed and the engine plan was kept.
	JobFallback JobStatus = "fallback"
	JobFailed   JobStatus = "failed"
)

// LookJob asks the stylist for an augmented plan for a stored moment.
type LookJob struct {
	ID             string    `json:"id"`
	MomentID       string    `json:"moment_id"`
	UserID         string    `json:"user_id"`
	Status         JobStatus `json:"status"`
	PlanID         string    `json:"plan_id,omitempty"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ReferenceImage *Image    `json:"-"`
}
