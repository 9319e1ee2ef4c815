package smoke

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

var (
	identities    = []string{"Woman", "Man", "Non-binary", "Prefer not to say"}
	hairCoverages = []string{"Covered most of the time", "Visible", "Partially covered", ""}
	styleEnergies = []string{"Soft", "Bold", "Classic", "Playful"}

	momentTypes = []string{
		"first_date", "dinner_date", "creator_camera", "creator_live",
		"job_interview", "power_meeting", "presentation",
		"wedding_guest", "party", "brunch", "graduation",
	}

	energyModes = []string{"Soft Romantic", "Bold Magnetic", "Calm Confident", "Playful Bright"}
	lightings   = []string{"Daylight", "Candlelight", "Ring light", "Office fluorescent"}
	platforms   = []string{"TikTok", "Instagram", "YouTube"}
)

// baselineRequest is the PUT /baselines/{user_id} body.
type baselineRequest struct {
	Identity     string `json:"identity"`
	HairCoverage string `json:"hair_coverage"`
	StyleEnergy  string `json:"style_energy"`
}

// momentRequest is the POST /moments body plus the key it is sent with.
type momentRequest struct {
	UserID     string            `json:"user_id"`
	MomentType string            `json:"moment_type"`
	Modifiers  map[string]string `json:"modifiers,omitempty"`

	key string
}

// user is a synthetic user and the moments it will submit.
type user struct {
	ID       string
	Baseline baselineRequest
	Moments  []momentRequest
}

// generateUsers builds a deterministic population for cfg.Seed. Idempotency
// keys are fresh per run so reruns against one server do not replay.
func generateUsers(cfg *Config) []user {
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15))
	run := uuid.NewString()[:8]

	users := make([]user, cfg.Users)
	for i := range users {
		u := user{
			ID: fmt.Sprintf("smoke-%s-%04d", run, i),
			Baseline: baselineRequest{
				Identity:     pick(rng, identities),
				HairCoverage: pick(rng, hairCoverages),
				StyleEnergy:  pick(rng, styleEnergies),
			},
		}
		for j := 0; j < cfg.MomentsPerUser; j++ {
			u.Moments = append(u.Moments, momentRequest{
				UserID:     u.ID,
				MomentType: pick(rng, momentTypes),
				Modifiers: map[string]string{
					"energy_mode": pick(rng, energyModes),
					"lighting":    pick(rng, lightings),
					"platform":    pick(rng, platforms),
				},
				key: uuid.NewString(),
			})
		}
		users[i] = u
	}
	return users
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}
