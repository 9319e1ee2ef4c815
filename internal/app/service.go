// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/glowplan/internal/adapters/gemini"
	"github.com/okian/glowplan/internal/adapters/http/api"
	"github.com/okian/glowplan/internal/adapters/mq/queue"
	"github.com/okian/glowplan/internal/adapters/mq/worker"
	"github.com/okian/glowplan/internal/adapters/repository"
	"github.com/okian/glowplan/internal/domain/dedupe"
	"github.com/okian/glowplan/internal/domain/glow"
	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/internal/domain/stylist"
	"github.com/okian/glowplan/pkg/logger"
	"github.com/okian/glowplan/pkg/metrics"
)

// Service implements the API dependencies for Glow Plan.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *repository.MemoryStore
	deduper   dedupe.Deduper
	jobs      *queue.InMemoryQueue
	engine    glow.Generator
	generator stylist.Generator
	stylist   *stylist.Stylist
	pool      *worker.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	dedupeTTL       time.Duration
	planStoreSize   int
	stylistEnabled  bool
	wardrobeEnabled bool
	tagConcurrency  int
	geminiOpts      []gemini.Option
	now             func() time.Time

	started bool
	logger  logger.Logger
}

var _ api.Dependencies = (*Service)(nil)

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       1_000,
		dedupeSize:      50_000,
		dedupeTTL:       10 * time.Minute,
		planStoreSize:   100_000,
		wardrobeEnabled: true,
		tagConcurrency:  4,
		engine:          glow.NewEngine(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger = logger.OrGlobal(s.logger)
	s.logger.Info(ctx, "starting glow plan service...")

	s.store = repository.NewMemoryStore(ctx,
		repository.WithPlanCapacity(s.planStoreSize),
		repository.WithClock(s.now),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
		dedupe.WithTTL(s.dedupeTTL),
	)
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	if s.generator == nil {
		opts := append([]gemini.Option{gemini.WithLogger(s.logger)}, s.geminiOpts...)
		s.generator = gemini.New(opts...)
	}
	s.stylist = stylist.New(s.generator,
		stylist.WithEngine(s.engine),
		stylist.WithTagConcurrency(s.tagConcurrency),
		stylist.WithClock(s.now),
		stylist.WithLogger(s.logger),
	)

	s.pool = worker.NewPool(s.workerCount, s.jobs, s.stylist, s.store, worker.WithLogger(s.logger))
	s.pool.Start(ctx)

	if (s.stylistEnabled || s.wardrobeEnabled) && !s.generator.Configured() {
		s.logger.Warn(ctx, "generative API key missing; stylist and wardrobe tagging will be unavailable")
	}

	s.started = true
	s.logger.Info(ctx, "glow plan service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("stylist", s.stylistEnabled),
		logger.Bool("wardrobe", s.wardrobeEnabled),
	)
	return nil
}

// Stop gracefully shuts down the service. Jobs still queued stay pending.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping glow plan service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	_ = s.store.Close()

	s.started = false
	s.logger.Info(ctx, "glow plan service stopped")
}

// SeenAndRecord reports whether an idempotency key was already used and
// records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordMomentDuplicate()
	}
	return seen
}

// Bind associates a recorded key with the moment it created.
func (s *Service) Bind(ctx context.Context, key, momentID string) {
	s.deduper.Bind(ctx, key, momentID)
}

// Lookup returns the moment bound to key.
func (s *Service) Lookup(ctx context.Context, key string) (string, bool) {
	return s.deduper.Lookup(ctx, key)
}

// Unrecord releases a key whose request failed.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// Size returns the current number of remembered idempotency keys.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// PutBaseline stores a user's baseline.
func (s *Service) PutBaseline(ctx context.Context, b model.Baseline) (model.Baseline, error) {
	out, err := s.store.PutBaseline(ctx, b)
	return out, translate(err)
}

// GetBaseline reads a user's baseline.
func (s *Service) GetBaseline(ctx context.Context, userID string) (model.Baseline, error) {
	b, err := s.store.GetBaseline(ctx, userID)
	return b, translate(err)
}

// baselineFor returns the stored baseline or an all-unspecified one.
func (s *Service) baselineFor(ctx context.Context, userID string) (model.Baseline, error) {
	b, err := s.store.GetBaseline(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Baseline{UserID: userID}.Normalized(), nil
	}
	return b, err
}

// CreateMoment stores a moment and its deterministic plan.
func (s *Service) CreateMoment(ctx context.Context, userID, momentType string, modifiers map[string]string) (model.Moment, model.Plan, error) {
	start := time.Now()

	b, err := s.baselineFor(ctx, userID)
	if err != nil {
		return model.Moment{}, model.Plan{}, translate(err)
	}
	m, err := s.store.SaveMoment(ctx, model.NewMoment("", userID, momentType, modifiers, s.now()))
	if err != nil {
		return model.Moment{}, model.Plan{}, translate(err)
	}

	p := s.engine.Generate(b, m)
	p.CreatedAt = m.CreatedAt
	p, err = s.store.SavePlan(ctx, p)
	if err != nil {
		return model.Moment{}, model.Plan{}, translate(err)
	}

	metrics.RecordPlanGenerated(string(p.Category), string(p.Source))
	metrics.RecordGlowScore(p.GlowScore)
	metrics.RecordPlanLatency(float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "moment created",
		logger.String("moment_id", m.ID),
		logger.String("category", string(p.Category)),
		logger.Int("glow_score", p.GlowScore),
	)
	return m, p, nil
}

// GetMoment reads a moment.
func (s *Service) GetMoment(ctx context.Context, id string) (model.Moment, error) {
	m, err := s.store.GetMoment(ctx, id)
	return m, translate(err)
}

// GetPlan reads a plan by id.
func (s *Service) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	p, err := s.store.GetPlan(ctx, id)
	return p, translate(err)
}

// PlanForMoment reads the current plan of a moment.
func (s *Service) PlanForMoment(ctx context.Context, momentID string) (model.Plan, error) {
	p, err := s.store.PlanForMoment(ctx, momentID)
	return p, translate(err)
}

// History lists a user's plans, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]model.Plan, error) {
	plans, err := s.store.History(ctx, userID, limit)
	return plans, translate(err)
}

// RequestLook queues a stylist job for a stored moment.
func (s *Service) RequestLook(ctx context.Context, momentID string, ref *model.Image) (model.LookJob, error) {
	if !s.stylistEnabled {
		return model.LookJob{}, fmt.Errorf("%w: stylist disabled", api.ErrUnavailable)
	}
	m, err := s.store.GetMoment(ctx, momentID)
	if err != nil {
		return model.LookJob{}, translate(err)
	}

	j, err := s.store.SaveJob(ctx, model.LookJob{MomentID: m.ID, UserID: m.UserID})
	if err != nil {
		return model.LookJob{}, translate(err)
	}
	queued := j
	queued.ReferenceImage = ref
	if err := s.jobs.Enqueue(ctx, queued); err != nil {
		j.Status = model.JobFailed
		j.Error = err.Error()
		if _, uerr := s.store.UpdateJob(ctx, j); uerr != nil {
			s.logger.Warn(ctx, "failed to mark rejected job", logger.String("job_id", j.ID), logger.Error(uerr))
		}
		metrics.RecordJobStatus(string(model.JobFailed))
		return model.LookJob{}, translate(err)
	}
	metrics.RecordJobStatus(string(model.JobPending))
	return j, nil
}

// GetJob reads a look job.
func (s *Service) GetJob(ctx context.Context, id string) (model.LookJob, error) {
	j, err := s.store.GetJob(ctx, id)
	return j, translate(err)
}

// TagWardrobe tags each encoded garment photo and stores the successes.
func (s *Service) TagWardrobe(ctx context.Context, userID string, images []string) ([]api.TagOutcome, error) {
	if !s.wardrobeEnabled {
		return nil, fmt.Errorf("%w: wardrobe tagging disabled", api.ErrUnavailable)
	}
	if !s.generator.Configured() {
		return nil, fmt.Errorf("%w: %w", api.ErrUnavailable, stylist.ErrCredentialMissing)
	}

	out := make([]api.TagOutcome, len(images))
	decoded := make([]model.Image, 0, len(images))
	index := make([]int, 0, len(images))
	for i, enc := range images {
		out[i].Index = i
		img, err := stylist.DecodeImage(enc)
		if err != nil {
			out[i].Error = err.Error()
			continue
		}
		decoded = append(decoded, img)
		index = append(index, i)
	}

	for _, r := range s.stylist.ExtractGarmentTagsBatch(ctx, decoded) {
		i := index[r.Index]
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		it, err := s.store.AddWardrobeItem(ctx, model.WardrobeItemFromTags("", userID, r.Tags, s.now()))
		if err != nil {
			out[i].Error = err.Error()
			continue
		}
		out[i].Item = &it
	}
	return out, nil
}

// Wardrobe lists a user's stored garments.
func (s *Service) Wardrobe(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	items, err := s.store.Wardrobe(ctx, userID)
	return items, translate(err)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"stylistEnabled":  s.stylistEnabled,
		"wardrobeEnabled": s.wardrobeEnabled,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	counts := s.store.Count(ctx)
	queueLen := s.jobs.Len(ctx)
	stats["queueLength"] = queueLen
	stats["busyWorkers"] = s.pool.Busy()
	stats["idempotencyKeys"] = s.deduper.Size()
	stats["generativeConfigured"] = s.generator.Configured()
	stats["records"] = counts

	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateWorkerCount(s.workerCount)
	return stats
}

// translate wraps store and queue errors with the API kind they map to.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", api.ErrNotFound, err)
	case errors.Is(err, repository.ErrInvalidRecord), errors.Is(err, repository.ErrInvalidLimit):
		return fmt.Errorf("%w: %w", api.ErrBadRequest, err)
	case errors.Is(err, queue.ErrFull):
		return fmt.Errorf("%w: %w", api.ErrBackpressure, err)
	case errors.Is(err, queue.ErrClosed):
		return fmt.Errorf("%w: %w", api.ErrUnavailable, err)
	default:
		return err
	}
}
