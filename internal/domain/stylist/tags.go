package stylist

import (
	"context"
	"strings"
	"time"

	"github.com/okian/glowplan/internal/adapters/gemini"
	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/pkg/logger"
	"github.com/okian/glowplan/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// TagResult is the outcome for one image of a batch.
type TagResult struct {
	Index int
	Tags  model.GarmentTags
	Err   error
}

// ExtractGarmentTags asks the model to tag one clothing photo. The category
// is lower-cased but not checked against model.GarmentCategories.
func (s *Stylist) ExtractGarmentTags(ctx context.Context, img model.Image) (model.GarmentTags, error) {
	start := time.Now()
	metrics.RecordStylistRequest(opTag)

	tags, err := s.tag(ctx, img)
	metrics.RecordStylistLatency(opTag, float64(time.Since(start).Milliseconds()))
	if err != nil {
		reason := reasonOf(err)
		metrics.RecordStylistFailure(opTag, reason)
		s.logger.Warn(ctx, "garment tagging failed", logger.String("reason", reason), logger.Error(err))
		return model.GarmentTags{}, err
	}
	metrics.RecordGarmentsTagged(1)
	return tags, nil
}

func (s *Stylist) tag(ctx context.Context, img model.Image) (model.GarmentTags, error) {
	if s.gen == nil || !s.gen.Configured() {
		return model.GarmentTags{}, ErrCredentialMissing
	}
	mt, err := sniffImage(img)
	if err != nil {
		return model.GarmentTags{}, failed(reasonImage, err)
	}

	text, err := s.call(ctx, []gemini.Part{gemini.TextPart(tagPrompt), gemini.ImagePart(mt, img.Data)})
	if err != nil {
		return model.GarmentTags{}, err
	}

	var tags model.GarmentTags
	if err := decodeFirstObject(text, &tags); err != nil {
		return model.GarmentTags{}, err
	}
	tags.Category = strings.ToLower(strings.TrimSpace(tags.Category))
	tags.ColorTags = nonBlank(tags.ColorTags)
	tags.StyleTags = nonBlank(tags.StyleTags)
	tags.SeasonTags = nonBlank(tags.SeasonTags)
	tags.Notes = strings.TrimSpace(tags.Notes)
	if tags.Category == "" && len(tags.ColorTags) == 0 && len(tags.StyleTags) == 0 && len(tags.SeasonTags) == 0 {
		return model.GarmentTags{}, failed(reasonSchema, errEmptyTags)
	}
	return tags, nil
}

// ExtractGarmentTagsBatch tags images concurrently, at most the configured
// tag concurrency at a time. Results are in input order; each image
// succeeds or fails on its own.
func (s *Stylist) ExtractGarmentTagsBatch(ctx context.Context, imgs []model.Image) []TagResult {
	results := make([]TagResult, len(imgs))

	var g errgroup.Group
	g.SetLimit(s.tagConcurrency)
	for i, img := range imgs {
		g.Go(func() error {
			tags, err := s.ExtractGarmentTags(ctx, img)
			results[i] = TagResult{Index: i, Tags: tags, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
