package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultPlanCapacity          = 100000
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemoryStore is an in-memory Store. Plans live in a bounded LRU; the other
// collections are plain maps.
type MemoryStore struct {
	mu sync.RWMutex

	baselines   map[string]model.Baseline
	moments     map[string]model.Moment
	userMoments map[string][]string // user id -> moment ids in creation order
	plans       *lru.Cache[string, model.Plan]
	momentPlan  map[string]string // moment id -> current plan id
	wardrobe    map[string][]model.WardrobeItem
	jobs        map[string]model.LookJob

	planCapacity          int
	metricsUpdateInterval time.Duration
	now                   func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		baselines:             make(map[string]model.Baseline),
		moments:               make(map[string]model.Moment),
		userMoments:           make(map[string][]string),
		momentPlan:            make(map[string]string),
		wardrobe:              make(map[string][]model.WardrobeItem),
		jobs:                  make(map[string]model.LookJob),
		planCapacity:          defaultPlanCapacity,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		now:                   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// The eviction callback runs inside plans.Add, which is only called with
	// s.mu held.
	plans, err := lru.NewWithEvict[string, model.Plan](s.planCapacity, s.onPlanEvicted)
	if err != nil {
		panic(fmt.Sprintf("repository: plan cache: %v", err))
	}
	s.plans = plans

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)
	return s
}

func (s *MemoryStore) onPlanEvicted(id string, p model.Plan) {
	if s.momentPlan[p.MomentID] == id {
		delete(s.momentPlan, p.MomentID)
	}
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// SaveMoment implements MomentStore.
func (s *MemoryStore) SaveMoment(ctx context.Context, m model.Moment) (model.Moment, error) {
	if strings.TrimSpace(m.UserID) == "" {
		return model.Moment{}, fmt.Errorf("%w: moment without user id", ErrInvalidRecord)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.moments[m.ID]; !exists {
		s.userMoments[m.UserID] = append(s.userMoments[m.UserID], m.ID)
	}
	s.moments[m.ID] = m
	return m, nil
}

// GetMoment implements MomentStore.
func (s *MemoryStore) GetMoment(ctx context.Context, id string) (model.Moment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.moments[id]
	if !ok {
		return model.Moment{}, fmt.Errorf("%w: moment %s", ErrNotFound, id)
	}
	return m, nil
}

// SavePlan implements PlanStore.
func (s *MemoryStore) SavePlan(ctx context.Context, p model.Plan) (model.Plan, error) {
	if p.MomentID == "" {
		return model.Plan{}, fmt.Errorf("%w: plan without moment id", ErrInvalidRecord)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moments[p.MomentID]; !ok {
		return model.Plan{}, fmt.Errorf("%w: moment %s", ErrNotFound, p.MomentID)
	}
	s.plans.Add(p.ID, p)
	s.momentPlan[p.MomentID] = p.ID
	return p, nil
}

// GetPlan implements PlanStore.
func (s *MemoryStore) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	p, ok := s.plans.Get(id)
	if !ok {
		return model.Plan{}, fmt.Errorf("%w: plan %s", ErrNotFound, id)
	}
	return p, nil
}

// PlanForMoment implements PlanStore.
func (s *MemoryStore) PlanForMoment(ctx context.Context, momentID string) (model.Plan, error) {
	s.mu.RLock()
	id, ok := s.momentPlan[momentID]
	s.mu.RUnlock()
	if !ok {
		return model.Plan{}, fmt.Errorf("%w: plan for moment %s", ErrNotFound, momentID)
	}
	return s.GetPlan(ctx, id)
}

// History implements PlanStore. Moments whose plan was evicted are skipped.
func (s *MemoryStore) History(ctx context.Context, userID string, limit int) ([]model.Plan, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.userMoments[userID]
	out := make([]model.Plan, 0, min(limit, len(ids)))
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		planID, ok := s.momentPlan[ids[i]]
		if !ok {
			continue
		}
		if p, ok := s.plans.Peek(planID); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// PutBaseline implements BaselineStore. The stored baseline is normalized.
func (s *MemoryStore) PutBaseline(ctx context.Context, b model.Baseline) (model.Baseline, error) {
	if strings.TrimSpace(b.UserID) == "" {
		return model.Baseline{}, fmt.Errorf("%w: baseline without user id", ErrInvalidRecord)
	}
	b = b.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.baselines[b.UserID] = b
	return b, nil
}

// GetBaseline implements BaselineStore.
func (s *MemoryStore) GetBaseline(ctx context.Context, userID string) (model.Baseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.baselines[userID]
	if !ok {
		return model.Baseline{}, fmt.Errorf("%w: baseline %s", ErrNotFound, userID)
	}
	return b, nil
}

// AddWardrobeItem implements WardrobeStore.
func (s *MemoryStore) AddWardrobeItem(ctx context.Context, it model.WardrobeItem) (model.WardrobeItem, error) {
	if strings.TrimSpace(it.UserID) == "" {
		return model.WardrobeItem{}, fmt.Errorf("%w: wardrobe item without user id", ErrInvalidRecord)
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.wardrobe[it.UserID] = append(s.wardrobe[it.UserID], it)
	return it, nil
}

// Wardrobe implements WardrobeStore. An unknown user has an empty wardrobe.
func (s *MemoryStore) Wardrobe(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wardrobe[userID]), nil
}

// SaveJob implements JobStore.
func (s *MemoryStore) SaveJob(ctx context.Context, j model.LookJob) (model.LookJob, error) {
	if j.MomentID == "" {
		return model.LookJob{}, fmt.Errorf("%w: job without moment id", ErrInvalidRecord)
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	now := s.now()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	if j.Status == "" {
		j.Status = model.JobPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	return j, nil
}

// GetJob implements JobStore.
func (s *MemoryStore) GetJob(ctx context.Context, id string) (model.LookJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.LookJob{}, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return j, nil
}

// UpdateJob implements JobStore.
func (s *MemoryStore) UpdateJob(ctx context.Context, j model.LookJob) (model.LookJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.jobs[j.ID]
	if !ok {
		return model.LookJob{}, fmt.Errorf("%w: job %s", ErrNotFound, j.ID)
	}
	j.CreatedAt = prev.CreatedAt
	j.UpdatedAt = s.now()
	s.jobs[j.ID] = j
	return j, nil
}

// Count returns the size of each collection.
func (s *MemoryStore) Count(ctx context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := 0
	for _, list := range s.wardrobe {
		items += len(list)
	}
	return Counts{
		Baselines:     len(s.baselines),
		Moments:       len(s.moments),
		Plans:         s.plans.Len(),
		WardrobeItems: items,
		Jobs:          len(s.jobs),
	}
}

// startMetricsUpdater starts a background goroutine that updates store metrics.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics(ctx)
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics(ctx context.Context) {
	c := s.Count(ctx)
	metrics.UpdateStoreRecords("baselines", c.Baselines)
	metrics.UpdateStoreRecords("moments", c.Moments)
	metrics.UpdateStoreRecords("plans", c.Plans)
	metrics.UpdateStoreRecords("wardrobe_items", c.WardrobeItems)
	metrics.UpdateStoreRecords("jobs", c.Jobs)
}
