package model

import "strings"

// Modifier keys as submitted by the intake form.
const (
	KeyLocation   = "location"
	KeyLighting   = "lighting"
	KeyEnergyMode = "energy_mode"
	KeyDateType   = "date_type"
	KeyPlatform   = "platform"
	KeyFormat     = "format"
	KeyTime       = "time"
	KeyFormality  = "formality"
	KeyWeather    = "weather"
)

// Intake defaults.
const (
	DefaultLocation = "Indoor"
	DefaultLighting = "Bright"
)

// Energy modes offered for dating moments.
const (
	EnergySoftRomantic = "Soft Romantic"
	EnergyCleanGirl    = "Clean Girl"
	EnergyElevatedMin  = "Elevated Minimalist"
	EnergyMagneticBold = "Magnetic Bold"
)

// Modifiers is the closed set of per-category modifier shapes. Only types in
// this package implement it.
type Modifiers interface {
	Category() Category
	Common() CommonModifiers
	// Map renders the modifiers as the flat key/value form.
	Map() map[string]string
	sealed()
}

// CommonModifiers apply to every moment category.
type CommonModifiers struct {
	Location   string `json:"location"`
	Lighting   string `json:"lighting"`
	EnergyMode string `json:"energy_mode,omitempty"`
}

func (c CommonModifiers) fill(m map[string]string) {
	m[KeyLocation] = c.Location
	m[KeyLighting] = c.Lighting
	if c.EnergyMode != "" {
		m[KeyEnergyMode] = c.EnergyMode
	}
}

// DatingModifiers belong to moment types containing "date".
type DatingModifiers struct {
	CommonModifiers
	DateType string `json:"date_type,omitempty"`
}

func (DatingModifiers) Category() Category { return CategoryDating }
func (d DatingModifiers) Common() CommonModifiers { return d.CommonModifiers }
func (DatingModifiers) sealed() {}
func (d DatingModifiers) Map() map[string]string {
	m := make(map[string]string, 4)
	d.fill(m)
	setIf(m, KeyDateType, d.DateType)
	return m
}

// CreatorModifiers belong to camera/creator moment types.
type CreatorModifiers struct {
	CommonModifiers
	Platform string `json:"platform,omitempty"`
	Format   string `json:"format,omitempty"`
}

func (CreatorModifiers) Category() Category { return CategoryCreator }
func (c CreatorModifiers) Common() CommonModifiers { return c.CommonModifiers }
func (CreatorModifiers) sealed() {}
func (c CreatorModifiers) Map() map[string]string {
	m := make(map[string]string, 5)
	c.fill(m)
	setIf(m, KeyPlatform, c.Platform)
	setIf(m, KeyFormat, c.Format)
	return m
}

// GeneralModifiers cover professional, social and unknown moment types.
type GeneralModifiers struct {
	CommonModifiers
	Time      string `json:"time,omitempty"`
	Formality string `json:"formality,omitempty"`
	Weather   string `json:"weather,omitempty"`

	kind Category
}

func (g GeneralModifiers) Category() Category {
	if g.kind == "" {
		return CategoryDefault
	}
	return g.kind
}
func (g GeneralModifiers) Common() CommonModifiers { return g.CommonModifiers }
func (GeneralModifiers) sealed() {}
func (g GeneralModifiers) Map() map[string]string {
	m := make(map[string]string, 6)
	g.fill(m)
	setIf(m, KeyTime, g.Time)
	setIf(m, KeyFormality, g.Formality)
	setIf(m, KeyWeather, g.Weather)
	return m
}

// ParseModifiers builds the variant for momentType from the open key/value
// map. Unknown keys are dropped; location and lighting get intake defaults.
func ParseModifiers(momentType string, raw map[string]string) Modifiers {
	get := func(k string) string { return strings.TrimSpace(raw[k]) }
	common := CommonModifiers{
		Location:   orDefault(get(KeyLocation), DefaultLocation),
		Lighting:   orDefault(get(KeyLighting), DefaultLighting),
		EnergyMode: get(KeyEnergyMode),
	}

	switch cat := CategoryOf(momentType); cat {
	case CategoryDating:
		return DatingModifiers{CommonModifiers: common, DateType: get(KeyDateType)}
	case CategoryCreator:
		return CreatorModifiers{CommonModifiers: common, Platform: get(KeyPlatform), Format: get(KeyFormat)}
	default:
		return GeneralModifiers{
			CommonModifiers: common,
			kind:            cat,
			Time:            get(KeyTime),
			Formality:       get(KeyFormality),
			Weather:         get(KeyWeather),
		}
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func setIf(m map[string]string, k, v string) {
	if v != "" {
		m[k] = v
	}
}
