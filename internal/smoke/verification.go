package smoke

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Glow scores always fall in this band.
const (
	minGlowScore = 88
	maxGlowScore = 97
)

// verifyPlans checks each created plan on its own, then checks that equal
// inputs produced equal content.
func verifyPlans(results []created) error {
	type input struct{ user, momentType string }
	seen := make(map[input]created, len(results))

	for _, r := range results {
		switch {
		case r.momentID == "" || r.planID == "":
			return fmt.Errorf("%w: moment for %s missing ids", ErrVerification, r.user.ID)
		case r.source != "engine":
			return fmt.Errorf("%w: plan %s has source %q", ErrVerification, r.planID, r.source)
		case r.glowScore < minGlowScore || r.glowScore > maxGlowScore:
			return fmt.Errorf("%w: plan %s glow score %d outside [%d, %d]",
				ErrVerification, r.planID, r.glowScore, minGlowScore, maxGlowScore)
		case !r.sections:
			return fmt.Errorf("%w: plan %s is missing sections", ErrVerification, r.planID)
		}

		// Baselines are per user, so user and moment type fix the seed.
		key := input{r.user.ID, r.req.MomentType}
		if prev, ok := seen[key]; ok {
			if prev.glowScore != r.glowScore || prev.faceShape != r.faceShape {
				return fmt.Errorf("%w: plans %s and %s differ for the same input",
					ErrVerification, prev.planID, r.planID)
			}
			continue
		}
		seen[key] = r
	}
	return nil
}

// checkHistory expects the history to hold min(len(want), limit) distinct
// plans, each for one of the wanted moments.
func checkHistory(userID string, want map[string]struct{}, limit int, plans gjson.Result) error {
	list := plans.Array()
	if n := min(len(want), limit); len(list) != n {
		return fmt.Errorf("%w: history for %s has %d plans, want %d", ErrVerification, userID, len(list), n)
	}
	seen := make(map[string]struct{}, len(list))
	for _, p := range list {
		id := p.Get("moment_id").String()
		if _, ok := want[id]; !ok {
			return fmt.Errorf("%w: history for %s lists unknown moment %s", ErrVerification, userID, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: history for %s lists moment %s twice", ErrVerification, userID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
