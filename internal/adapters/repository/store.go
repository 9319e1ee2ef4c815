// Package repository persists baselines, moments, plans, wardrobe items and
// look jobs.
package repository

import (
	"context"

	"github.com/okian/glowplan/internal/domain/model"
)

// MomentStore keeps submitted moments.
type MomentStore interface {
	// SaveMoment assigns an id when empty and stores m.
	SaveMoment(ctx context.Context, m model.Moment) (model.Moment, error)
	GetMoment(ctx context.Context, id string) (model.Moment, error)
}

// PlanStore keeps generated plans keyed by id and by originating moment.
type PlanStore interface {
	// SavePlan assigns an id when empty and makes p the current plan of its
	// moment. Earlier plans of the moment stay readable by id.
	SavePlan(ctx context.Context, p model.Plan) (model.Plan, error)
	GetPlan(ctx context.Context, id string) (model.Plan, error)
	// PlanForMoment returns the current plan of a moment.
	PlanForMoment(ctx context.Context, momentID string) (model.Plan, error)
	// History returns the current plans of a user's moments, newest first.
	History(ctx context.Context, userID string, limit int) ([]model.Plan, error)
}

// BaselineStore keeps one baseline per user.
type BaselineStore interface {
	PutBaseline(ctx context.Context, b model.Baseline) (model.Baseline, error)
	GetBaseline(ctx context.Context, userID string) (model.Baseline, error)
}

// WardrobeStore keeps tagged garments per user.
type WardrobeStore interface {
	AddWardrobeItem(ctx context.Context, it model.WardrobeItem) (model.WardrobeItem, error)
	Wardrobe(ctx context.Context, userID string) ([]model.WardrobeItem, error)
}

// JobStore keeps look jobs.
type JobStore interface {
	SaveJob(ctx context.Context, j model.LookJob) (model.LookJob, error)
	GetJob(ctx context.Context, id string) (model.LookJob, error)
	// UpdateJob replaces a stored job. Returns ErrNotFound if unknown.
	UpdateJob(ctx context.Context, j model.LookJob) (model.LookJob, error)
}

// Counts is a point-in-time size of each collection.
type Counts struct {
	Baselines     int `json:"baselines"`
	Moments       int `json:"moments"`
	Plans         int `json:"plans"`
	WardrobeItems int `json:"wardrobe_items"`
	Jobs          int `json:"jobs"`
}

// Store provides read/write access to all service state.
type Store interface {
	MomentStore
	PlanStore
	BaselineStore
	WardrobeStore
	JobStore

	Count(ctx context.Context) Counts
}
