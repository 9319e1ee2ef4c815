// Package stylist produces Glow Plans with a generative model and tags
// wardrobe photos.
//
// Both operations send exactly one request per call, find the first JSON
// object in the model's free-form reply and parse it all-or-nothing. Any
// failure is ErrGenerationFailed; a missing API key is ErrCredentialMissing
// and is reported before any network traffic. Nothing is retried here:
// callers decide whether to retry or fall back to the deterministic plan.
package stylist

import (
	"context"
	"errors"
	"time"

	"github.com/okian/glowplan/internal/adapters/gemini"
	"github.com/okian/glowplan/internal/domain/glow"
	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/pkg/logger"
	"github.com/okian/glowplan/pkg/metrics"
)

const (
	defaultTagConcurrency = 4

	opAugment = "augment"
	opTag     = "tag"
)

// Generator is the generative endpoint the stylist talks to.
type Generator interface {
	Configured() bool
	GenerateContent(ctx context.Context, parts []gemini.Part) (string, error)
}

// MomentContext is everything known about the moment being styled.
type MomentContext struct {
	Moment   model.Moment
	Baseline model.Baseline
}

// Stylist is the generative augmentation adapter.
type Stylist struct {
	gen            Generator
	engine         glow.Generator
	tagConcurrency int
	now            func() time.Time
	logger         logger.Logger
}

// New builds a Stylist over gen.
func New(gen Generator, opts ...Option) *Stylist {
	s := &Stylist{
		gen:            gen,
		engine:         glow.NewEngine(),
		tagConcurrency: defaultTagConcurrency,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrGlobal(s.logger).Named("stylist")
	return s
}

// GenerateAugmentedPlan asks the model for a plan for mc, offering the
// reduced wardrobe projection and, when given, the reference image. The
// returned plan is fully populated: sections outside the model schema are
// taken from the deterministic plan for the same moment.
func (s *Stylist) GenerateAugmentedPlan(
	ctx context.Context,
	mc MomentContext,
	wardrobe []model.WardrobeItem,
	ref *model.Image,
) (model.Plan, error) {
	start := time.Now()
	metrics.RecordStylistRequest(opAugment)

	plan, err := s.augment(ctx, mc, wardrobe, ref)
	metrics.RecordStylistLatency(opAugment, float64(time.Since(start).Milliseconds()))
	if err != nil {
		reason := reasonOf(err)
		metrics.RecordStylistFailure(opAugment, reason)
		s.logger.Warn(ctx, "augmented plan failed",
			logger.String("moment_id", mc.Moment.ID),
			logger.String("moment_type", mc.Moment.MomentType),
			logger.String("reason", reason),
			logger.Error(err))
		return model.Plan{}, err
	}
	return plan, nil
}

func (s *Stylist) augment(
	ctx context.Context,
	mc MomentContext,
	wardrobe []model.WardrobeItem,
	ref *model.Image,
) (model.Plan, error) {
	if s.gen == nil || !s.gen.Configured() {
		return model.Plan{}, ErrCredentialMissing
	}

	prompt, err := buildLookPrompt(mc, wardrobe, ref != nil)
	if err != nil {
		return model.Plan{}, failed(reasonSchema, err)
	}
	parts := []gemini.Part{gemini.TextPart(prompt)}
	if ref != nil {
		mt, err := sniffImage(*ref)
		if err != nil {
			return model.Plan{}, failed(reasonImage, err)
		}
		parts = append(parts, gemini.ImagePart(mt, ref.Data))
	}

	text, err := s.call(ctx, parts)
	if err != nil {
		return model.Plan{}, err
	}

	var resp lookResponse
	if err := decodeFirstObject(text, &resp); err != nil {
		return model.Plan{}, err
	}
	if err := resp.validate(); err != nil {
		return model.Plan{}, err
	}

	ids := make(map[string]struct{}, len(wardrobe))
	for _, it := range wardrobe {
		ids[it.ID] = struct{}{}
	}
	plan := resp.merge(s.engine.Generate(mc.Baseline, mc.Moment), ids)
	plan.CreatedAt = s.now()
	if err := plan.Validate(); err != nil {
		return model.Plan{}, failed(reasonIncomplete, err)
	}
	return plan, nil
}

// call sends parts and maps client errors into the stylist taxonomy.
func (s *Stylist) call(ctx context.Context, parts []gemini.Part) (string, error) {
	text, err := s.gen.GenerateContent(ctx, parts)
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, gemini.ErrCredentialMissing):
		return "", ErrCredentialMissing
	default:
		return "", failed(reasonUpstream, err)
	}
}
