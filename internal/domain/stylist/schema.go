package stylist

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/okian/glowplan/internal/domain/glow"
	"github.com/okian/glowplan/internal/domain/jsonx"
	"github.com/okian/glowplan/internal/domain/model"
)

// lookResponse is the object the model is asked to return.
type lookResponse struct {
	RecommendedOutfits []outfit        `json:"recommended_outfits"`
	MakeupOrGrooming   *makeupResponse `json:"makeup_or_grooming"`
	CoveringOrHair     *hairResponse   `json:"covering_or_hair"`
	PosturePresence    []string        `json:"posture_presence"`
	Why                string          `json:"why"`
}

type outfit struct {
	Title      string   `json:"title"`
	Items      []string `json:"items"`
	Colors     []string `json:"colors"`
	Silhouette string   `json:"silhouette"`
	Avoid      []string `json:"avoid"`
}

// makeupResponse accepts steps or tips; models use both.
type makeupResponse struct {
	Focus     string   `json:"focus"`
	Intensity string   `json:"intensity"`
	Steps     []string `json:"steps"`
	Tips      []string `json:"tips"`
	Finish    string   `json:"finish"`
}

// hairResponse accepts title/direction and the older style/notes spelling.
type hairResponse struct {
	Title     string   `json:"title"`
	Style     string   `json:"style"`
	Direction string   `json:"direction"`
	Notes     string   `json:"notes"`
	Dos       []string `json:"dos"`
	Donts     []string `json:"donts"`
}

// decodeFirstObject extracts the first balanced object from text and
// decodes it into v. A single repair pass is attempted when strict decoding
// fails.
func decodeFirstObject(text string, v any) error {
	span, err := jsonx.ExtractFirstObject(text)
	if err != nil {
		return failed(reasonNoJSON, err)
	}
	strictErr := json.Unmarshal([]byte(span), v)
	if strictErr == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil {
		return failed(reasonBadJSON, errors.Join(strictErr, err))
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return failed(reasonBadJSON, errors.Join(strictErr, err))
	}
	return nil
}

func (r *lookResponse) validate() error {
	schema := func(format string, args ...any) error {
		return failed(reasonSchema, fmt.Errorf(format, args...))
	}

	if len(r.RecommendedOutfits) == 0 {
		return schema("recommended_outfits is empty")
	}
	for i, o := range r.RecommendedOutfits {
		if len(glow.MergePalette(nil, o.Colors)) == 0 {
			return schema("recommended_outfits[%d] has no colors", i)
		}
	}

	m := r.MakeupOrGrooming
	switch {
	case m == nil:
		return schema("makeup_or_grooming missing")
	case blank(m.Focus) || blank(m.Intensity):
		return schema("makeup_or_grooming needs focus and intensity")
	case len(nonBlank(m.Steps)) == 0 && len(nonBlank(m.Tips)) == 0:
		return schema("makeup_or_grooming has no steps")
	}

	h := r.CoveringOrHair
	switch {
	case h == nil:
		return schema("covering_or_hair missing")
	case blank(h.Direction) && blank(h.Notes):
		return schema("covering_or_hair has no direction")
	}

	if len(nonBlank(r.PosturePresence)) == 0 {
		return schema("posture_presence is empty")
	}
	if blank(r.Why) {
		return schema("why is empty")
	}
	return nil
}

// merge overlays the model's sections onto the deterministic plan for the
// same moment. Sections the schema does not carry stay as generated.
func (r *lookResponse) merge(base model.Plan, wardrobeIDs map[string]struct{}) model.Plan {
	p := base
	p.Source = model.SourceStylist

	fallback := model.StylingOption{}
	if len(base.Styling.Options) > 0 {
		fallback = base.Styling.Options[0]
	}
	options := make([]model.StylingOption, 0, len(r.RecommendedOutfits))
	for i, o := range r.RecommendedOutfits {
		opt := model.StylingOption{
			Title:      strings.TrimSpace(o.Title),
			Silhouette: strings.TrimSpace(o.Silhouette),
			Palette:    glow.MergePalette(nil, o.Colors),
			Avoid:      nonBlank(o.Avoid),
			Tag:        model.TagNewCombo,
		}
		if opt.Title == "" {
			opt.Title = fmt.Sprintf("Look %d", i+1)
		}
		if opt.Silhouette == "" {
			opt.Silhouette = fallback.Silhouette
		}
		if len(opt.Avoid) == 0 {
			opt.Avoid = slices.Clone(fallback.Avoid)
		}
		if usesWardrobe(o.Items, wardrobeIDs) {
			opt.Tag = model.TagWardrobeFavorite
		}
		options = append(options, opt)
	}
	p.Styling = model.Styling{Title: base.Styling.Title, Options: options}
	if first := strings.TrimSpace(r.RecommendedOutfits[0].Title); first != "" {
		p.LookDirection = first + ": " + base.LookDirection
	}

	m := r.MakeupOrGrooming
	steps := nonBlank(m.Steps)
	if len(steps) == 0 {
		steps = nonBlank(m.Tips)
	}
	p.MakeupGrooming = model.MakeupGrooming{
		Focus:     strings.TrimSpace(m.Focus),
		Intensity: strings.TrimSpace(m.Intensity),
		Steps:     steps,
		Finish:    firstNonBlank(m.Finish, base.MakeupGrooming.Finish),
	}

	h := r.CoveringOrHair
	p.HairCovering = model.HairCovering{
		Title:     firstNonBlank(h.Title, h.Style, base.HairCovering.Title),
		Direction: firstNonBlank(h.Direction, h.Notes),
		Dos:       nonBlank(h.Dos),
		Donts:     nonBlank(h.Donts),
	}
	if len(p.HairCovering.Dos) == 0 {
		p.HairCovering.Dos = slices.Clone(base.HairCovering.Dos)
	}
	if len(p.HairCovering.Donts) == 0 {
		p.HairCovering.Donts = slices.Clone(base.HairCovering.Donts)
	}

	p.Presence.Posture = nonBlank(r.PosturePresence)
	p.WhyItWorks.Psychology = strings.TrimSpace(r.Why)
	return p
}

func usesWardrobe(items []string, ids map[string]struct{}) bool {
	for _, it := range items {
		if _, ok := ids[strings.TrimSpace(it)]; ok {
			return true
		}
	}
	return false
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
