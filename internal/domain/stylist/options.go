package stylist

import (
	"time"

	"github.com/okian/glowplan/internal/domain/glow"
	"github.com/okian/glowplan/pkg/logger"
)

// Option applies a configuration option to the Stylist.
type Option func(*Stylist)

// WithEngine sets the deterministic generator used to fill sections the
// model schema does not carry.
func WithEngine(g glow.Generator) Option {
	return func(s *Stylist) {
		if g != nil {
			s.engine = g
		}
	}
}

// WithTagConcurrency bounds concurrent calls in ExtractGarmentTagsBatch.
func WithTagConcurrency(n int) Option {
	return func(s *Stylist) {
		if n > 0 {
			s.tagConcurrency = n
		}
	}
}

// WithClock overrides time.Now for stamping plans.
func WithClock(now func() time.Time) Option {
	return func(s *Stylist) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Stylist) {
		if l != nil {
			s.logger = l
		}
	}
}
