// Package glow builds Glow Plans from a baseline and a moment.
//
// Generation is a pure function of its inputs: no I/O, no clock, no
// randomness. Unknown moment types and malformed baseline fields are routed
// to default templates, so every call returns a fully populated plan.
package glow

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/glowplan/internal/domain/model"
)

const (
	stylingTitle   = "Curated Selection"
	defaultEnergy  = "Natural"
	hairTitle      = "Hair Direction"
	coveringTitle  = "Covering Harmony"
	occasionNoName = "moment"
)

// Generator produces a plan for a stored moment.
type Generator interface {
	Generate(b model.Baseline, m model.Moment) model.Plan
}

// Engine is the deterministic Generator.
type Engine struct{}

// NewEngine returns the deterministic generator.
func NewEngine() *Engine { return &Engine{} }

// Generate builds the plan for m and stamps the moment id on it.
func (Engine) Generate(b model.Baseline, m model.Moment) model.Plan {
	p := Build(b, m.MomentType, m.Modifiers)
	p.MomentID = m.ID
	return p
}

// GeneratePlan is the open-map entry point: modifiers are parsed into the
// variant for momentType before building.
func GeneratePlan(b model.Baseline, momentType string, modifiers map[string]string) model.Plan {
	return Build(b, momentType, model.ParseModifiers(momentType, modifiers))
}

// Build assembles every plan section.
func Build(b model.Baseline, momentType string, mods model.Modifiers) model.Plan {
	b = b.Normalized()
	cat := model.CategoryOf(momentType)
	if mods == nil || mods.Category() != cat {
		var raw map[string]string
		if mods != nil {
			raw = mods.Map()
		}
		mods = model.ParseModifiers(momentType, raw)
	}
	common := mods.Common()
	seed := Seed(momentType, b)

	p := model.Plan{
		MomentType:      momentType,
		Category:        cat,
		Source:          model.SourceEngine,
		LookDirection:   lookDirection(common.EnergyMode, occasion(momentType, mods)),
		GlowScore:       GlowScore(seed),
		FaceShape:       FaceShape(seed),
		WhyItWorks:      pick(whyItWorks, cat),
		Avoid:           slices.Clone(pick(avoidLists, cat)),
		MakeupGrooming:  makeupGrooming(b, cat, common),
		Styling:         styling(b, cat, common),
		HairCovering:    hairCovering(b, cat),
		Presence:        presence(cat),
		ConfidenceCoach: pick(confidenceCoaches, cat),
		Checklist:       checklist(cat, mods),
	}

	if c, ok := mods.(model.CreatorModifiers); ok {
		p.CameraPresence = cameraPresence(c)
		p.VoiceDelivery = voiceDelivery(c)
	}
	return p
}

func lookDirection(energy, occasion string) string {
	if energy == "" {
		energy = defaultEnergy
	}
	return fmt.Sprintf("%s energy tailored for your %s.", energy, occasion)
}

func occasion(momentType string, mods model.Modifiers) string {
	if d, ok := mods.(model.DatingModifiers); ok && d.DateType != "" {
		return d.DateType
	}
	t := strings.ToLower(strings.TrimSpace(momentType))
	t = strings.NewReplacer("_", " ", "-", " ").Replace(t)
	if t == "" {
		return occasionNoName
	}
	return t
}

func makeupGrooming(b model.Baseline, cat model.Category, common model.CommonModifiers) model.MakeupGrooming {
	var tpl makeupTemplate
	switch b.Identity {
	case model.IdentityWoman, model.IdentityNonBinary:
		tpl = pick(beautyTemplates, cat)
	case model.IdentityMan:
		tpl = pick(groomingTemplates, cat)
	default:
		tpl = neutralTemplate
	}
	return model.MakeupGrooming{
		Focus:     tpl.focus,
		Intensity: intensity(b, common.EnergyMode),
		Steps:     slices.Clone(tpl.steps),
		Finish:    finish(cat, common.Lighting),
	}
}

func intensity(b model.Baseline, energy string) string {
	if strings.EqualFold(energy, model.EnergyMagneticBold) {
		return "High"
	}
	switch b.BeautyComfort {
	case model.BeautyMinimal:
		return "Light"
	case model.BeautyFull:
		return "Full"
	default:
		return "Medium-Natural"
	}
}

func finish(cat model.Category, lighting string) string {
	switch {
	case cat == model.CategoryCreator:
		return "Soft-Matte"
	case strings.EqualFold(lighting, "dim"), strings.EqualFold(lighting, "candlelight"):
		return "Dewy-Glow"
	case cat == model.CategoryProfessional || cat == model.CategoryDefault:
		return "Natural-Matte"
	default:
		return "Satin-Dewy"
	}
}

func styling(b model.Baseline, cat model.Category, common model.CommonModifiers) model.Styling {
	var preferred, silhouettesPref []string
	if sp := b.StyleProfile; sp != nil {
		preferred = sp.PreferredColors
		silhouettesPref = sp.PreferredSilhouettes
	}

	energy := common.EnergyMode
	if energy == "" {
		energy = b.StyleEnergy
	}
	title := common.EnergyMode
	if title == "" {
		title = pick(categoryTitles, cat)
	}

	options := []model.StylingOption{{
		Title:      title,
		Silhouette: pick(silhouettes, cat),
		Palette:    MergePalette(preferred, basePalette(energy, cat)),
		Avoid:      slices.Clone(pick(optionAvoid, cat)),
		Tag:        model.TagNewCombo,
	}}

	if goal := b.PresentationGoal; goal != model.GoalUnspecified {
		options = append(options, model.StylingOption{
			Title:      titleCase(string(goal)) + " Edit",
			Silhouette: goalSilhouettes[goal],
			Palette:    MergePalette(preferred, goalPalettes[goal]),
			Avoid:      slices.Clone(pick(optionAvoid, cat)),
			Tag:        model.TagUnderused,
		})
	}

	if len(silhouettesPref) > 0 && strings.TrimSpace(silhouettesPref[0]) != "" {
		options = append(options, model.StylingOption{
			Title:      "Your Signature",
			Silhouette: strings.TrimSpace(silhouettesPref[0]),
			Palette:    MergePalette(preferred, basePalette(energy, cat)),
			Avoid:      slices.Clone(pick(optionAvoid, cat)),
			Tag:        model.TagWardrobeFavorite,
		})
	}

	return model.Styling{Title: stylingTitle, Options: options}
}

func hairCovering(b model.Baseline, cat model.Category) model.HairCovering {
	tpl, title := pick(hairDirections, cat), hairTitle
	if b.HairCoverage != model.HairVisible {
		tpl, title = pick(coveringDirections, cat), coveringTitle
	}
	return model.HairCovering{
		Title:     title,
		Direction: tpl.Direction,
		Dos:       slices.Clone(tpl.Dos),
		Donts:     slices.Clone(tpl.Donts),
	}
}

func presence(cat model.Category) model.Presence {
	p := pick(presenceTemplates, cat)
	p.Posture = slices.Clone(p.Posture)
	return p
}

func checklist(cat model.Category, mods model.Modifiers) []model.ChecklistItem {
	items := slices.Clone(pick(checklists, cat))
	common := mods.Common()

	if g, ok := mods.(model.GeneralModifiers); ok && g.Weather != "" {
		items = append(items, model.ChecklistItem{
			Task: "Dress for the weather",
			How:  fmt.Sprintf("Expect %s; choose shoes and a layer that can handle it.", strings.ToLower(g.Weather)),
		})
	}
	if strings.EqualFold(common.Location, "outdoor") {
		items = append(items, model.ChecklistItem{
			Task: "Bring a layer",
			How:  "Outdoor temperatures drop fast after sunset.",
		})
	}
	return items
}

func cameraPresence(c model.CreatorModifiers) *model.CameraPresence {
	framing := "Horizontal 16:9, mid-chest crop with a little space on the side you face."
	if isVertical(c) {
		framing = "Vertical 9:16, chest-up crop with your eyes on the upper third line."
	}
	return &model.CameraPresence{
		Framing:          framing,
		EyeLine:          "Lens at eye level; look into the lens, not at your own preview.",
		MicroExpressions: "Let the smile reach your eyes before the first word; relax the jaw between sentences.",
	}
}

func voiceDelivery(c model.CreatorModifiers) *model.VoiceDelivery {
	pacing := "Slightly slower than conversation, with a beat of silence after each key line."
	if isVertical(c) {
		pacing = "Open with the hook in the first two seconds, then settle into an even, energetic pace."
	}
	return &model.VoiceDelivery{
		Pacing: pacing,
		Warmups: []string{
			"Lip trills for 30 seconds",
			"Hum up and down your range",
			"Read your first line aloud three times",
		},
	}
}

func isVertical(c model.CreatorModifiers) bool {
	f := strings.ToLower(c.Format + " " + c.Platform)
	for _, v := range []string{"vertical", "short", "reel", "tiktok", "story"} {
		if strings.Contains(f, v) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
