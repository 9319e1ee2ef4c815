package service

import (
	"time"

	"github.com/okian/glowplan/internal/adapters/gemini"
	"github.com/okian/glowplan/internal/config"
	"github.com/okian/glowplan/internal/domain/stylist"
	"github.com/okian/glowplan/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of stylist workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending look jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency-key cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDedupeTTL sets how long idempotency keys are remembered.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.dedupeTTL = ttl
		}
	}
}

// WithPlanStoreSize bounds the number of plans kept in memory.
func WithPlanStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.planStoreSize = size
		}
	}
}

// WithStylist toggles POST /moments/{id}/look.
func WithStylist(enabled bool) Option {
	return func(s *Service) {
		s.stylistEnabled = enabled
	}
}

// WithWardrobe toggles garment tagging.
func WithWardrobe(enabled bool) Option {
	return func(s *Service) {
		s.wardrobeEnabled = enabled
	}
}

// WithTagConcurrency bounds concurrent tagging calls per request.
func WithTagConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.tagConcurrency = n
		}
	}
}

// WithGeminiOptions configures the generative client built at Start.
func WithGeminiOptions(opts ...gemini.Option) Option {
	return func(s *Service) {
		s.geminiOpts = append(s.geminiOpts, opts...)
	}
}

// WithGenerator replaces the generative client entirely.
func WithGenerator(gen stylist.Generator) Option {
	return func(s *Service) {
		if gen != nil {
			s.generator = gen
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig maps a loaded configuration onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.JobQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithDedupeTTL(cfg.DedupeTTL()),
		WithPlanStoreSize(cfg.PlanStoreSize),
		WithStylist(cfg.EnableStylist),
		WithWardrobe(cfg.EnableWardrobe),
		WithTagConcurrency(cfg.TagConcurrency),
		WithGeminiOptions(
			gemini.WithAPIKey(cfg.GeminiAPIKey),
			gemini.WithBaseURL(cfg.GeminiBaseURL),
			gemini.WithModel(cfg.GeminiModel),
			gemini.WithTimeout(cfg.GeminiTimeout()),
			gemini.WithRateLimit(cfg.GeminiRatePerSec, cfg.GeminiBurst),
		),
	}
}
