package model

import (
	"fmt"
	"time"
)

// Glow score bounds every plan must respect.
const (
	MinGlowScore = 82
	MaxGlowScore = 100
	// MaxPaletteSize caps every styling palette.
	MaxPaletteSize = 5
)

// PlanSource records which producer built a plan.
type PlanSource string

// Plan sources.
const (
	SourceEngine  PlanSource = "engine"
	SourceStylist PlanSource = "stylist"
)

// Styling option tags.
const (
	TagUnderused        = "Underused"
	TagNewCombo         = "New Combo"
	TagWardrobeFavorite = "Wardrobe Favorite"
)

// Plan is the structured recommendation for one moment. It is treated as
// immutable history once stored.
type Plan struct {
	ID         string     `json:"id,omitempty"`
	MomentID   string     `json:"moment_id,omitempty"`
	MomentType string     `json:"moment_type"`
	Category   Category   `json:"category"`
	Source     PlanSource `json:"source"`

	LookDirection   string          `json:"look_direction"`
	GlowScore       int             `json:"glow_score"`
	FaceShape       string          `json:"face_shape"`
	WhyItWorks      WhyItWorks      `json:"why_it_works"`
	Avoid           []string        `json:"avoid"`
	MakeupGrooming  MakeupGrooming  `json:"makeup_grooming"`
	Styling         Styling         `json:"styling"`
	HairCovering    HairCovering    `json:"hair_covering"`
	Presence        Presence        `json:"presence"`
	ConfidenceCoach ConfidenceCoach `json:"confidence_coach"`
	Checklist       []ChecklistItem `json:"checklist"`

	// Present only for creator moments.
	CameraPresence *CameraPresence `json:"camera_presence,omitempty"`
	VoiceDelivery  *VoiceDelivery  `json:"voice_delivery,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// WhyItWorks explains the recommendation.
type WhyItWorks struct {
	Harmony    string `json:"harmony"`
	Psychology string `json:"psychology"`
}

// MakeupGrooming is the beauty or grooming block.
type MakeupGrooming struct {
	Focus     string   `json:"focus"`
	Intensity string   `json:"intensity"`
	Steps     []string `json:"steps"`
	Finish    string   `json:"finish"`
}

// Styling holds one or more outfit options.
type Styling struct {
	Title   string          `json:"title"`
	Options []StylingOption `json:"options"`
}

// StylingOption is a single outfit direction.
type StylingOption struct {
	Title      string   `json:"title"`
	Silhouette string   `json:"silhouette"`
	Palette    []string `json:"palette"`
	Avoid      []string `json:"avoid"`
	Tag        string   `json:"tag,omitempty"`
}

// HairCovering is either hair direction or covering guidance.
type HairCovering struct {
	Title     string   `json:"title"`
	Direction string   `json:"direction"`
	Dos       []string `json:"dos"`
	Donts     []string `json:"donts"`
}

// Presence is body-language coaching for the moment.
type Presence struct {
	Entrance      string   `json:"entrance"`
	Posture       []string `json:"posture"`
	EyeContact    string   `json:"eye_contact"`
	CalmTechnique string   `json:"calm_technique"`
}

// ConfidenceCoach is a short mindset block.
type ConfidenceCoach struct {
	Posture   string `json:"posture"`
	Breathing string `json:"breathing"`
	Mindset   string `json:"mindset"`
}

// ChecklistItem is one ordered preparation step.
type ChecklistItem struct {
	Task string `json:"task"`
	How  string `json:"how"`
}

// CameraPresence is on-camera guidance for creator moments.
type CameraPresence struct {
	Framing          string `json:"framing"`
	EyeLine          string `json:"eye_line"`
	MicroExpressions string `json:"micro_expressions"`
}

// VoiceDelivery is vocal guidance for creator moments.
type VoiceDelivery struct {
	Pacing  string   `json:"pacing"`
	Warmups []string `json:"warmups"`
}

// Validate reports the first missing section. A plan that passes is safe to
// hand to the presentation layer.
func (p *Plan) Validate() error {
	missing := func(section string) error {
		return fmt.Errorf("%w: %s", ErrIncompletePlan, section)
	}

	switch {
	case p.LookDirection == "":
		return missing("look_direction")
	case p.GlowScore < MinGlowScore || p.GlowScore > MaxGlowScore:
		return fmt.Errorf("%w: glow_score %d outside [%d,%d]", ErrIncompletePlan, p.GlowScore, MinGlowScore, MaxGlowScore)
	case p.MakeupGrooming.Focus == "" || p.MakeupGrooming.Intensity == "" ||
		len(p.MakeupGrooming.Steps) == 0 || p.MakeupGrooming.Finish == "":
		return missing("makeup_grooming")
	case len(p.Styling.Options) == 0:
		return missing("styling.options")
	case p.HairCovering.Title == "" || p.HairCovering.Direction == "" ||
		len(p.HairCovering.Dos) == 0 || len(p.HairCovering.Donts) == 0:
		return missing("hair_covering")
	case p.Presence.Entrance == "" || len(p.Presence.Posture) == 0 ||
		p.Presence.EyeContact == "" || p.Presence.CalmTechnique == "":
		return missing("presence")
	case len(p.Checklist) == 0:
		return missing("checklist")
	}

	for i, opt := range p.Styling.Options {
		if opt.Title == "" || opt.Silhouette == "" {
			return missing(fmt.Sprintf("styling.options[%d]", i))
		}
		if len(opt.Palette) == 0 || len(opt.Palette) > MaxPaletteSize {
			return fmt.Errorf("%w: styling.options[%d].palette has %d colors", ErrIncompletePlan, i, len(opt.Palette))
		}
	}
	for i, item := range p.Checklist {
		if item.Task == "" || item.How == "" {
			return missing(fmt.Sprintf("checklist[%d]", i))
		}
	}

	creator := p.Category == CategoryCreator
	hasCamera := p.CameraPresence != nil && p.VoiceDelivery != nil
	switch {
	case creator && !hasCamera:
		return missing("camera_presence/voice_delivery")
	case !creator && (p.CameraPresence != nil || p.VoiceDelivery != nil):
		return fmt.Errorf("%w: camera sections on a %s moment", ErrIncompletePlan, p.Category)
	case creator && (p.CameraPresence.Framing == "" || len(p.VoiceDelivery.Warmups) == 0):
		return missing("camera_presence/voice_delivery")
	}
	return nil
}
