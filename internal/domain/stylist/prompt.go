package stylist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/glowplan/internal/domain/model"
)

const lookSchema = `{
  "recommended_outfits": [
    {"title": "string", "items": ["wardrobe item id or garment"], "colors": ["#RRGGBB"], "silhouette": "string", "avoid": ["string"]}
  ],
  "makeup_or_grooming": {"focus": "string", "intensity": "string", "steps": ["string"], "finish": "string"},
  "covering_or_hair": {"title": "string", "direction": "string", "dos": ["string"], "donts": ["string"]},
  "posture_presence": ["string"],
  "why": "string"
}`

var tagPrompt = fmt.Sprintf(`Analyze this clothing item and return a JSON object with these fields:
- category: (one of: %s)
- color_tags: (array of main colors)
- style_tags: (array of styles like casual, corporate, date, night-out, minimal, chic)
- season_tags: (array of seasons like spring, summer, fall, winter)
- notes: (short description)
Return ONLY the JSON object.`, strings.Join(model.GarmentCategories, ", "))

// wardrobeEntry is the reduced projection sent to the model. Images and
// notes never leave the service.
type wardrobeEntry struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Colors   []string `json:"colors"`
	Styles   []string `json:"styles"`
}

type promptContext struct {
	MomentType       string                 `json:"moment_type"`
	Category         model.Category         `json:"category"`
	Modifiers        map[string]string      `json:"modifiers"`
	Identity         model.Identity         `json:"identity"`
	HairCoverage     model.HairCoverage     `json:"hair_coverage"`
	StyleEnergy      string                 `json:"style_energy,omitempty"`
	PresentationGoal model.PresentationGoal `json:"presentation_goal"`
	BeautyComfort    model.BeautyComfort    `json:"beauty_comfort"`
	PreferredColors  []string               `json:"preferred_colors,omitempty"`
}

func projectWardrobe(items []model.WardrobeItem) []wardrobeEntry {
	out := make([]wardrobeEntry, 0, len(items))
	for _, it := range items {
		out = append(out, wardrobeEntry{ID: it.ID, Category: it.Category, Colors: it.Colors, Styles: it.Styles})
	}
	return out
}

func buildLookPrompt(mc MomentContext, wardrobe []model.WardrobeItem, withImage bool) (string, error) {
	b := mc.Baseline.Normalized()
	pc := promptContext{
		MomentType:       mc.Moment.MomentType,
		Category:         model.CategoryOf(mc.Moment.MomentType),
		Modifiers:        map[string]string{},
		Identity:         b.Identity,
		HairCoverage:     b.HairCoverage,
		StyleEnergy:      b.StyleEnergy,
		PresentationGoal: b.PresentationGoal,
		BeautyComfort:    b.BeautyComfort,
	}
	if mc.Moment.Modifiers != nil {
		pc.Modifiers = mc.Moment.Modifiers.Map()
	}
	if b.StyleProfile != nil {
		pc.PreferredColors = b.StyleProfile.PreferredColors
	}

	ctxJSON, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}
	wardrobeJSON, err := json.MarshalIndent(projectWardrobe(wardrobe), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode wardrobe: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are a personal stylist and presence coach. Build a look plan for the moment below.\n\n")
	sb.WriteString("Moment and profile:\n")
	sb.Write(ctxJSON)
	sb.WriteString("\n\nWardrobe (prefer these items and reference them by id):\n")
	sb.Write(wardrobeJSON)
	if withImage {
		sb.WriteString("\n\nA reference photo of the user is attached. Use it for color harmony and proportions only.")
	}
	if b.HairCoverage != model.HairVisible {
		sb.WriteString("\n\nThe user covers their hair; covering_or_hair must give covering guidance, not hairstyles.")
	}
	sb.WriteString("\n\nReturn ONLY a JSON object with exactly this shape:\n")
	sb.WriteString(lookSchema)
	return sb.String(), nil
}
