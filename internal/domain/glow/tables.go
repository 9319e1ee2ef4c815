package glow

import "github.com/okian/glowplan/internal/domain/model"

// pick returns the entry for cat. The default category and any category
// without its own entry use the professional-neutral template.
func pick[T any](table map[model.Category]T, cat model.Category) T {
	if v, ok := table[cat]; ok {
		return v
	}
	return table[model.CategoryProfessional]
}

var energyPalettes = map[string][]string{
	"soft romantic":       {"#E8D5D8", "#F4C2C2", "#F5F0E1", "#C9A9A6", "#FFFFFF"},
	"clean girl":          {"#F5F0E1", "#FFFFFF", "#E6D5C3", "#C8B6A6", "#8A7F74"},
	"elevated minimalist": {"#1C1C1C", "#FFFFFF", "#BFB8AF", "#6E6259", "#D9D4CE"},
	"magnetic bold":       {"#8B0000", "#1C1C1C", "#D4AF37", "#FFFFFF", "#4A3F3F"},
	"soft":                {"#E8D5D8", "#F5F0E1", "#D8C3D6", "#FFFFFF", "#4A3F3F"},
	"bold":                {"#B3001B", "#111111", "#F2C14E", "#FFFFFF", "#2E4057"},
	"elegant":             {"#2B2D42", "#F5F0E1", "#C0A080", "#FFFFFF", "#6D6875"},
	"natural":             {"#A68A64", "#F5F0E1", "#7F8C6D", "#FFFFFF", "#4A3F3F"},
	"trendy":              {"#FF6F91", "#2EC4B6", "#FFFFFF", "#1C1C1C", "#FFD166"},
}

var categoryPalettes = map[model.Category][]string{
	model.CategoryDating:       {"#E8D5D8", "#F5F0E1", "#4A3F3F", "#FFFFFF", "#C9A9A6"},
	model.CategoryCreator:      {"#2EC4B6", "#FFFFFF", "#1C1C1C", "#F4A261", "#E9ECEF"},
	model.CategoryProfessional: {"#1F2A44", "#FFFFFF", "#8A8D91", "#D9CBB8", "#4A3F3F"},
	model.CategorySocial:       {"#6D597A", "#F5F0E1", "#D4AF37", "#FFFFFF", "#355070"},
}

var goalPalettes = map[model.PresentationGoal][]string{
	model.GoalSofter:   {"#F4C2C2", "#F5F0E1", "#D8C3D6", "#FFFFFF", "#BCAEAE"},
	model.GoalSharper:  {"#111111", "#FFFFFF", "#1F2A44", "#8A8D91", "#B3001B"},
	model.GoalBalanced: {"#4A3F3F", "#F5F0E1", "#7F8C6D", "#FFFFFF", "#C0A080"},
	model.GoalTrendy:   {"#FF6F91", "#1C1C1C", "#2EC4B6", "#FFFFFF", "#FFD166"},
	model.GoalElegant:  {"#2B2D42", "#F5F0E1", "#C0A080", "#FFFFFF", "#6D6875"},
}

var goalSilhouettes = map[model.PresentationGoal]string{
	model.GoalSofter:   "Draped knit or wrap shape with fluid trousers or a midi skirt.",
	model.GoalSharper:  "Strong shoulder, defined waist, straight-leg bottom.",
	model.GoalBalanced: "Clean top tucked into a mid-rise bottom with one structured layer.",
	model.GoalTrendy:   "Relaxed oversized top balanced with a slim or cropped bottom.",
	model.GoalElegant:  "Long, uninterrupted column line in tonal fabrics.",
}

var categoryTitles = map[model.Category]string{
	model.CategoryDating:       "Date Night Edit",
	model.CategoryCreator:      "On-Camera Edit",
	model.CategoryProfessional: "Polished Professional",
	model.CategorySocial:       "Social Standout",
}

var silhouettes = map[model.Category]string{
	model.CategoryDating:       "Structured top with flowing bottom for balanced movement.",
	model.CategoryCreator:      "Solid, fitted top with a clean neckline that frames the face on camera.",
	model.CategoryProfessional: "Tailored blazer over a simple base layer with a straight or wide-leg trouser.",
	model.CategorySocial:       "One statement piece anchored by simple, well-fitted basics.",
}

var optionAvoid = map[model.Category][]string{
	model.CategoryDating:       {"Neon", "Harsh Grey"},
	model.CategoryCreator:      {"Tight stripes", "Pure white blocks", "Busy micro-prints"},
	model.CategoryProfessional: {"Loud logos", "Wrinkled fabrics"},
	model.CategorySocial:       {"Matching the host", "Head-to-toe sequins"},
}

var avoidLists = map[model.Category][]string{
	model.CategoryDating: {
		"Over-accessorizing: Keep it to one statement piece.",
		"Heavy matte base: Opt for a natural glow in this lighting.",
		"Oversized layers: Maintain a clean silhouette for this venue.",
	},
	model.CategoryCreator: {
		"Reflective jewelry: It catches ring lights and flares.",
		"Heavy powder: It reads flat on sensors.",
		"Fussy hair pieces: They distract from your face in frame.",
	},
	model.CategoryProfessional: {
		"Untested shoes: Break them in before the day.",
		"Strong fragrance: Keep it close to the skin.",
		"Noisy accessories: Nothing that clinks when you gesture.",
	},
	model.CategorySocial: {
		"Outshining the occasion: Read the dress code twice.",
		"Brand-new heels: Comfort keeps you present.",
		"Last-minute experiments: Wear what you have tested.",
	},
}

var whyItWorks = map[model.Category]model.WhyItWorks{
	model.CategoryDating: {
		Harmony:    "The palette complements your skin's natural undertones while the silhouette balances your frame.",
		Psychology: "This specific color combination signals confidence and approachability in social settings.",
	},
	model.CategoryCreator: {
		Harmony:    "Solid mid-tones keep exposure stable and let the camera focus on your face.",
		Psychology: "A consistent visual signature makes you recognizable from the first frame.",
	},
	model.CategoryProfessional: {
		Harmony:    "Deep neutrals with one soft accent read as organized without feeling severe.",
		Psychology: "Structured lines signal competence, while the soft accent keeps you approachable.",
	},
	model.CategorySocial: {
		Harmony:    "A single focal piece gives the eye somewhere to land against calm basics.",
		Psychology: "A clear point of interest invites conversation without demanding attention.",
	},
}

type makeupTemplate struct {
	focus string
	steps []string
}

var beautyTemplates = map[model.Category]makeupTemplate{
	model.CategoryDating: {
		focus: "Radiant Skin & Defined Eyes",
		steps: []string{"Prep with hydrating primer", "Soft wing liner", "Nude satin lip"},
	},
	model.CategoryCreator: {
		focus: "Camera-Ready Skin & Defined Features",
		steps: []string{"Color-correct under the eyes", "Light layer of long-wear base", "Define brows and lash line", "Blot the T-zone before recording"},
	},
	model.CategoryProfessional: {
		focus: "Even Skin & Groomed Brows",
		steps: []string{"Lightweight moisturizer and SPF", "Spot-conceal only", "Brush up brows", "Tinted balm or muted lip"},
	},
	model.CategorySocial: {
		focus: "Luminous Skin & Statement Lip",
		steps: []string{"Glow primer on high points", "Cream blush", "Statement lip, balanced eyes"},
	},
}

var groomingTemplates = map[model.Category]makeupTemplate{
	model.CategoryDating: {
		focus: "Clean Grooming & Scent",
		steps: []string{"Exfoliate", "Lightweight moisturizer", "Clean beard lines"},
	},
	model.CategoryCreator: {
		focus: "Matte Skin & Sharp Lines",
		steps: []string{"Oil-control moisturizer", "Trim and line facial hair", "Blotting paper on standby"},
	},
	model.CategoryProfessional: {
		focus: "Sharp Grooming & Fresh Skin",
		steps: []string{"Close shave or neat trim", "Matte moisturizer", "Tidy brows and nails"},
	},
	model.CategorySocial: {
		focus: "Fresh Skin & Signature Scent",
		steps: []string{"Cleanse and moisturize", "Shape facial hair", "Two sprays of fragrance"},
	},
}

var neutralTemplate = makeupTemplate{
	focus: "Clear Skin & Neat Grooming",
	steps: []string{"Cleanse and moisturize", "Even out any redness", "Tidy brows", "Balm on lips"},
}

var hairDirections = map[model.Category]model.HairCovering{
	model.CategoryDating: {
		Direction: "Soft volume with face-framing layers.",
		Dos:       []string{"Natural part", "Soft waves"},
		Donts:     []string{"Tight styles", "Excessive product"},
	},
	model.CategoryCreator: {
		Direction: "Smooth, controlled shape that stays put under lights.",
		Dos:       []string{"Anti-frizz finish", "Keep hair off the lens side of the face"},
		Donts:     []string{"Flyaways", "High-shine serum"},
	},
	model.CategoryProfessional: {
		Direction: "Polished and off the face; a sleek low bun or a structured cut.",
		Dos:       []string{"Clean part", "Light hold"},
		Donts:     []string{"Wet-look gel", "Loose strands in the eyes"},
	},
	model.CategorySocial: {
		Direction: "Lifted at the root with movement through the lengths.",
		Dos:       []string{"Root volume", "One accent clip"},
		Donts:     []string{"Over-teasing", "Heavy spray"},
	},
}

var coveringDirections = map[model.Category]model.HairCovering{
	model.CategoryDating: {
		Direction: "Soft drape in a tone pulled from your palette.",
		Dos:       []string{"Breathable fabric", "Soft frame around the face"},
		Donts:     []string{"Clashing prints", "Pins that show"},
	},
	model.CategoryCreator: {
		Direction: "Matte, solid-colored covering with a crisp front edge for camera.",
		Dos:       []string{"Under-scarf for grip", "Check the frame from both sides"},
		Donts:     []string{"Sheer layers under strong light", "Shiny satin"},
	},
	model.CategoryProfessional: {
		Direction: "Neat, structured wrap in a neutral that repeats your outfit.",
		Dos:       []string{"Secure, symmetrical wrap", "Neutral tone"},
		Donts:     []string{"Loose tails", "Busy patterns"},
	},
	model.CategorySocial: {
		Direction: "Elevated fabric with a subtle sheen to match the occasion.",
		Dos:       []string{"Pick one accent color", "Elegant pin placement"},
		Donts:     []string{"Competing with a statement outfit", "Heavy embellishment"},
	},
}

var presenceTemplates = map[model.Category]model.Presence{
	model.CategoryDating: {
		Entrance:      "3-second pause, soft smile, lead with your heart center.",
		Posture:       []string{"Shoulders down", "Chin neutral", "Open stance"},
		EyeContact:    "Warm 3-second hold.",
		CalmTechnique: "4-7-8 breathing.",
	},
	model.CategoryCreator: {
		Entrance:      "Start recording two beats before you speak and begin with a smile.",
		Posture:       []string{"Sit tall at the front of the chair", "Shoulders angled slightly to the lens", "Hands visible in frame"},
		EyeContact:    "Talk to the lens as if to one friend.",
		CalmTechnique: "Box breathing: 4 in, 4 hold, 4 out, 4 hold.",
	},
	model.CategoryProfessional: {
		Entrance:      "Walk in at an even pace, pause, then offer a firm handshake.",
		Posture:       []string{"Feet grounded", "Back supported", "Hands resting on the table"},
		EyeContact:    "Hold for a full sentence, then break to think.",
		CalmTechnique: "Physiological sigh: two inhales through the nose, one long exhale.",
	},
	model.CategorySocial: {
		Entrance:      "Pause at the threshold, find the host, and move toward them.",
		Posture:       []string{"Relaxed shoulders", "Weight even on both feet", "Drink in the non-dominant hand"},
		EyeContact:    "Include everyone in a group with brief glances.",
		CalmTechnique: "Slow exhale twice as long as the inhale.",
	},
}

var confidenceCoaches = map[model.Category]model.ConfidenceCoach{
	model.CategoryDating: {
		Posture:   "Imagine a string pulling you up from the crown of your head.",
		Breathing: "Deep belly breaths to lower cortisol.",
		Mindset:   "You are the energy you want to attract.",
	},
	model.CategoryCreator: {
		Posture:   "Lengthen the back of your neck before you hit record.",
		Breathing: "One slow breath between takes.",
		Mindset:   "You are talking to the one person who needs this.",
	},
	model.CategoryProfessional: {
		Posture:   "Take up the width of your chair.",
		Breathing: "Exhale fully before your first answer.",
		Mindset:   "They invited you because you already belong here.",
	},
	model.CategorySocial: {
		Posture:   "Keep your chest open and your hands out of your pockets.",
		Breathing: "Breathe out before you walk into a new group.",
		Mindset:   "Curiosity beats performance.",
	},
}

var checklists = map[model.Category][]model.ChecklistItem{
	model.CategoryDating: {
		{Task: "Steam the outfit", How: "Hang it in the bathroom while you shower."},
		{Task: "Prep skin", How: "Hydrate 20 minutes before makeup or grooming."},
		{Task: "Pack the touch-up kit", How: "Lip color, blotting papers, mints."},
		{Task: "Set your intention", How: "Pick one thing you want to learn about them."},
	},
	model.CategoryCreator: {
		{Task: "Test the light", How: "Face the key light and check for shadows under the eyes."},
		{Task: "Check framing", How: "Eyes on the upper third line, headroom of one hand."},
		{Task: "Warm up the voice", How: "Run through the warm-ups below."},
		{Task: "Do a 10-second test recording", How: "Play it back with sound before the real take."},
	},
	model.CategoryProfessional: {
		{Task: "Lay out the outfit the night before", How: "Include shoes, belt and bag."},
		{Task: "Review your three key points", How: "Say them out loud once."},
		{Task: "Plan the route", How: "Arrive ten minutes early."},
		{Task: "Final mirror check", How: "Collar, teeth, shoulders for lint."},
	},
	model.CategorySocial: {
		{Task: "Confirm the dress code", How: "Check the invite or ask the host."},
		{Task: "Choose the statement piece", How: "Build the rest of the look around it."},
		{Task: "Charge your phone", How: "Photos happen."},
		{Task: "Plan your exit", How: "Know how you are getting home."},
	},
}
