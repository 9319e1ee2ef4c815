// Package model contains domain models passed between layers.
package model

import "strings"

// Identity is the self-described identity captured at onboarding.
type Identity string

// Identity values.
const (
	IdentityWoman       Identity = "woman"
	IdentityMan         Identity = "man"
	IdentityNonBinary   Identity = "non-binary"
	IdentityUnspecified Identity = "unspecified"
)

// ParseIdentity maps onboarding labels ("Woman", "Non-binary", "Prefer not to
// say", ...) onto Identity. Anything unrecognized is unspecified.
func ParseIdentity(s string) Identity {
	switch normalize(s) {
	case "woman", "female", "f":
		return IdentityWoman
	case "man", "male", "m":
		return IdentityMan
	case "non-binary", "nonbinary", "non binary", "nb":
		return IdentityNonBinary
	default:
		return IdentityUnspecified
	}
}

// HairCoverage describes how the user wears their hair in public.
type HairCoverage string

// HairCoverage values.
const (
	HairVisible     HairCoverage = "visible"
	HairPartial     HairCoverage = "partial"
	HairCovered     HairCoverage = "covered"
	HairUnspecified HairCoverage = "unspecified"
)

// ParseHairCoverage accepts both stored values and onboarding labels.
func ParseHairCoverage(s string) HairCoverage {
	switch normalize(s) {
	case "visible", "hair visible":
		return HairVisible
	case "partial", "covered sometimes":
		return HairPartial
	case "covered", "covered most of the time":
		return HairCovered
	default:
		return HairUnspecified
	}
}

// BeautyComfort is how much makeup or grooming effort the user is happy with.
type BeautyComfort string

// BeautyComfort values.
const (
	BeautyMinimal     BeautyComfort = "minimal"
	BeautyMedium      BeautyComfort = "medium"
	BeautyFull        BeautyComfort = "full"
	BeautyUnspecified BeautyComfort = "unspecified"
)

// ParseBeautyComfort normalizes s.
func ParseBeautyComfort(s string) BeautyComfort {
	switch normalize(s) {
	case "minimal":
		return BeautyMinimal
	case "medium":
		return BeautyMedium
	case "full":
		return BeautyFull
	default:
		return BeautyUnspecified
	}
}

// PresentationGoal is the overall direction the user wants to lean into.
type PresentationGoal string

// PresentationGoal values.
const (
	GoalSofter      PresentationGoal = "softer"
	GoalSharper     PresentationGoal = "sharper"
	GoalBalanced    PresentationGoal = "balanced"
	GoalTrendy      PresentationGoal = "trendy"
	GoalElegant     PresentationGoal = "elegant"
	GoalUnspecified PresentationGoal = "unspecified"
)

// ParsePresentationGoal normalizes s.
func ParsePresentationGoal(s string) PresentationGoal {
	switch g := PresentationGoal(normalize(s)); g {
	case GoalSofter, GoalSharper, GoalBalanced, GoalTrendy, GoalElegant:
		return g
	default:
		return GoalUnspecified
	}
}

// Baseline is the user's semi-static self-described profile.
type Baseline struct {
	UserID           string           `json:"user_id,omitempty"`
	Identity         Identity         `json:"identity"`
	HairCoverage     HairCoverage     `json:"hair_coverage"`
	StyleEnergy      string           `json:"style_energy"`
	PresentationGoal PresentationGoal `json:"presentation_goal"`
	BeautyComfort    BeautyComfort    `json:"beauty_comfort"`
	// StyleProfile is optional learned preference data.
	StyleProfile *StyleProfile `json:"style_profile,omitempty"`
}

// Normalized returns a copy with every enumerated field mapped onto its
// canonical value; malformed or missing values become "unspecified".
func (b Baseline) Normalized() Baseline {
	out := b
	out.Identity = ParseIdentity(string(b.Identity))
	out.HairCoverage = ParseHairCoverage(string(b.HairCoverage))
	out.PresentationGoal = ParsePresentationGoal(string(b.PresentationGoal))
	out.BeautyComfort = ParseBeautyComfort(string(b.BeautyComfort))
	out.StyleEnergy = strings.TrimSpace(b.StyleEnergy)
	return out
}

// StyleProfile carries preferences learned from the user's history.
type StyleProfile struct {
	PreferredSilhouettes []string `json:"preferred_silhouettes,omitempty"`
	PreferredColors      []string `json:"preferred_colors,omitempty"`
	// FormalityLevel is 1 (casual) to 5 (black tie); 0 means unknown.
	FormalityLevel  int    `json:"formality_level,omitempty"`
	MakeupIntensity string `json:"makeup_intensity,omitempty"`
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", " ")
}
