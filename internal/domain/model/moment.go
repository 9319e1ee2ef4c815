package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Category groups moment types that share templates and modifiers.
type Category string

// Moment categories.
const (
	CategoryDating       Category = "dating"
	CategoryCreator      Category = "creator"
	CategoryProfessional Category = "professional"
	CategorySocial       Category = "social"
	CategoryDefault      Category = "default"
)

var professionalMoments = map[string]struct{}{
	"job_interview": {},
	"power_meeting": {},
	"presentation":  {},
	"networking":    {},
}

var socialMoments = map[string]struct{}{
	"wedding_guest": {},
	"party":         {},
	"dinner":        {},
	"brunch":        {},
}

// CategoryOf classifies a moment type tag. Creator wins over dating so that
// camera sections are never dropped for a mixed tag. Unknown tags land in
// CategoryDefault rather than failing.
func CategoryOf(momentType string) Category {
	t := canonicalMomentType(momentType)
	switch {
	case strings.Contains(t, "creator"):
		return CategoryCreator
	case strings.Contains(t, "date"):
		return CategoryDating
	}
	if _, ok := professionalMoments[t]; ok {
		return CategoryProfessional
	}
	if _, ok := socialMoments[t]; ok {
		return CategorySocial
	}
	return CategoryDefault
}

// IsDating reports whether momentType is a dating moment.
func IsDating(momentType string) bool { return CategoryOf(momentType) == CategoryDating }

// IsCreator reports whether momentType is a camera/creator moment.
func IsCreator(momentType string) bool { return CategoryOf(momentType) == CategoryCreator }

func canonicalMomentType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// Moment is one user-declared occasion. It is immutable once handed to the
// generator and produces exactly one Plan.
type Moment struct {
	ID         string
	UserID     string
	MomentType string
	Modifiers  Modifiers
	CreatedAt  time.Time
}

// NewMoment builds a Moment whose modifiers are parsed for momentType.
func NewMoment(id, userID, momentType string, raw map[string]string, now time.Time) Moment {
	return Moment{
		ID:         id,
		UserID:     userID,
		MomentType: momentType,
		Modifiers:  ParseModifiers(momentType, raw),
		CreatedAt:  now,
	}
}

type momentJSON struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id,omitempty"`
	MomentType string            `json:"moment_type"`
	Category   Category          `json:"category"`
	Modifiers  map[string]string `json:"modifiers"`
	CreatedAt  time.Time         `json:"created_at"`
}

// MarshalJSON flattens the modifier variant back into its key/value form.
func (m Moment) MarshalJSON() ([]byte, error) {
	mods := m.Modifiers
	if mods == nil {
		mods = ParseModifiers(m.MomentType, nil)
	}
	return json.Marshal(momentJSON{
		ID:         m.ID,
		UserID:     m.UserID,
		MomentType: m.MomentType,
		Category:   mods.Category(),
		Modifiers:  mods.Map(),
		CreatedAt:  m.CreatedAt,
	})
}

// UnmarshalJSON parses the modifier map into the variant for the moment type.
func (m *Moment) UnmarshalJSON(data []byte) error {
	var raw momentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = NewMoment(raw.ID, raw.UserID, raw.MomentType, raw.Modifiers, raw.CreatedAt)
	return nil
}
