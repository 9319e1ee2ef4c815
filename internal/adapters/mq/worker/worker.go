// Package worker runs look jobs: it asks the stylist for an augmented plan
// and falls back to the moment's deterministic plan when that fails.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/glowplan/internal/adapters/mq/queue"
	"github.com/okian/glowplan/internal/adapters/repository"
	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/internal/domain/stylist"
	"github.com/okian/glowplan/pkg/logger"
	"github.com/okian/glowplan/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	defaultJobTimeout       = 60 * time.Second
	metricsUpdateInterval   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Stylist produces augmented plans.
type Stylist interface {
	GenerateAugmentedPlan(ctx context.Context, mc stylist.MomentContext, wardrobe []model.WardrobeItem, ref *model.Image) (model.Plan, error)
}

// Store is the subset of the repository a worker reads and writes.
type Store interface {
	repository.MomentStore
	repository.PlanStore
	repository.BaselineStore
	repository.WardrobeStore
	repository.JobStore
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes look jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	stylist    Stylist
	store      Store
	name       string
	jobTimeout time.Duration
	busy       *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, s Stylist, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		stylist:    s,
		store:      store,
		name:       "worker",
		jobTimeout: defaultJobTimeout,
		busy:       new(atomic.Int64),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.OrGlobal(w.logger).Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.busy.Add(1)
			if err := w.Process(ctx, j); err != nil {
				w.logger.Error(ctx, "error processing look job", logger.String("job_id", j.ID), logger.Error(err))
			}
			w.busy.Add(-1)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process runs one job to a terminal status. The returned error is only
// non-nil when the job record itself could not be updated; stylist
// failures end in a fallback status instead.
func (w *InMemoryWorker) Process(ctx context.Context, j queue.Job) error { //nolint:gocritic // hugeParam: jobs are passed by value through the channel
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	m, err := w.store.GetMoment(ctx, j.MomentID)
	if err != nil {
		return w.finish(ctx, j, model.JobFailed, "", err)
	}

	// A missing baseline is styled with an all-unspecified one.
	b, err := w.store.GetBaseline(ctx, m.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return w.finish(ctx, j, model.JobFailed, "", err)
	}
	if b.UserID == "" {
		b = model.Baseline{UserID: m.UserID}.Normalized()
	}

	wardrobe, err := w.store.Wardrobe(ctx, m.UserID)
	if err != nil {
		return w.finish(ctx, j, model.JobFailed, "", err)
	}

	callCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	plan, genErr := w.stylist.GenerateAugmentedPlan(callCtx, stylist.MomentContext{Moment: m, Baseline: b}, wardrobe, j.ReferenceImage)
	if genErr == nil {
		plan.MomentID = m.ID
		plan, err = w.store.SavePlan(ctx, plan)
		if err == nil {
			metrics.RecordPlanGenerated(string(plan.Category), string(plan.Source))
			metrics.RecordGlowScore(plan.GlowScore)
			return w.finish(ctx, j, model.JobDone, plan.ID, nil)
		}
		genErr = err
	}

	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", "stylist_fallback")
	fallback, err := w.store.PlanForMoment(ctx, m.ID)
	if err != nil {
		return w.finish(ctx, j, model.JobFailed, "", errors.Join(genErr, err))
	}
	w.logger.Warn(ctx, "stylist failed, keeping deterministic plan",
		logger.String("job_id", j.ID),
		logger.String("moment_id", m.ID),
		logger.Error(genErr),
	)
	return w.finish(ctx, j, model.JobFallback, fallback.ID, genErr)
}

func (w *InMemoryWorker) finish(ctx context.Context, j queue.Job, status model.JobStatus, planID string, cause error) error { //nolint:gocritic // hugeParam: mirrors Process
	j.Status = status
	j.PlanID = planID
	j.Error = ""
	if cause != nil {
		j.Error = cause.Error()
	}
	j.ReferenceImage = nil
	metrics.RecordJobStatus(string(status))

	if _, err := w.store.UpdateJob(ctx, j); err != nil {
		metrics.RecordErrorByComponent("worker", "job_update")
		return fmt.Errorf("update job %s: %w", j.ID, err)
	}
	if status == model.JobFailed {
		w.logger.Error(ctx, "look job failed", logger.String("job_id", j.ID), logger.Error(cause))
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	busy    *atomic.Int64

	shutdown chan struct{}
	logger   logger.Logger
}

// NewPool creates a worker pool. A non-positive count defaults to twice the
// CPU count.
func NewPool(workerCount int, q Queue, s Stylist, store Store, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		busy:     new(atomic.Int64),
		shutdown: make(chan struct{}),
	}
	// Pool and workers share the logger option.
	var shared InMemoryWorker
	for _, opt := range opts {
		opt(&shared)
	}
	p.logger = logger.OrGlobal(shared.logger).Named("worker-pool")

	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, s, store, wopts...)
		w.busy = p.busy
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Busy returns the number of workers currently running a job.
func (p *Pool) Busy() int { return int(p.busy.Load()) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	busy := p.Busy()
	metrics.UpdateWorkerActiveCount(busy)
	metrics.UpdateWorkerIdleCount(len(p.workers) - busy)
}

// Shutdown closes the queue and waits for workers to finish their current
// job. Jobs still queued are left pending.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	select {
	case <-p.shutdown:
	default:
		close(p.shutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
