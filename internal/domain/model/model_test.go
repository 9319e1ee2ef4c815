package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/glowplan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBaselineParsing(t *testing.T) {
	Convey("Given onboarding labels", t, func() {
		Convey("Then identities are normalized case-insensitively", func() {
			So(model.ParseIdentity("Woman"), ShouldEqual, model.IdentityWoman)
			So(model.ParseIdentity(" MAN "), ShouldEqual, model.IdentityMan)
			So(model.ParseIdentity("Non-binary"), ShouldEqual, model.IdentityNonBinary)
			So(model.ParseIdentity("non_binary"), ShouldEqual, model.IdentityNonBinary)
			So(model.ParseIdentity("Prefer not to say"), ShouldEqual, model.IdentityUnspecified)
			So(model.ParseIdentity(""), ShouldEqual, model.IdentityUnspecified)
		})

		Convey("Then hair coverage accepts stored values and form labels", func() {
			So(model.ParseHairCoverage("visible"), ShouldEqual, model.HairVisible)
			So(model.ParseHairCoverage("Covered sometimes"), ShouldEqual, model.HairPartial)
			So(model.ParseHairCoverage("Covered most of the time"), ShouldEqual, model.HairCovered)
			So(model.ParseHairCoverage("???"), ShouldEqual, model.HairUnspecified)
		})

		Convey("Then Normalized maps every malformed field to unspecified", func() {
			b := model.Baseline{Identity: "robot", HairCoverage: "", PresentationGoal: "Sharper", BeautyComfort: "lots"}.Normalized()
			So(b.Identity, ShouldEqual, model.IdentityUnspecified)
			So(b.HairCoverage, ShouldEqual, model.HairUnspecified)
			So(b.PresentationGoal, ShouldEqual, model.GoalSharper)
			So(b.BeautyComfort, ShouldEqual, model.BeautyUnspecified)
		})
	})
}

func TestCategoryOf(t *testing.T) {
	Convey("Given moment type tags", t, func() {
		So(model.CategoryOf("first_date"), ShouldEqual, model.CategoryDating)
		So(model.CategoryOf("Second Date"), ShouldEqual, model.CategoryDating)
		So(model.CategoryOf("creator_camera"), ShouldEqual, model.CategoryCreator)
		So(model.CategoryOf("creator_date_vlog"), ShouldEqual, model.CategoryCreator)
		So(model.CategoryOf("job_interview"), ShouldEqual, model.CategoryProfessional)
		So(model.CategoryOf("Power Meeting"), ShouldEqual, model.CategoryProfessional)
		So(model.CategoryOf("wedding-guest"), ShouldEqual, model.CategorySocial)
		So(model.CategoryOf(""), ShouldEqual, model.CategoryDefault)
		So(model.CategoryOf("moon_landing"), ShouldEqual, model.CategoryDefault)
		So(model.IsCreator("creator_camera"), ShouldBeTrue)
		So(model.IsDating("power_meeting"), ShouldBeFalse)
	})
}

func TestParseModifiers(t *testing.T) {
	Convey("Given an open modifier map", t, func() {
		raw := map[string]string{
			"energy_mode": "Soft Romantic",
			"date_type":   "First Date",
			"platform":    "TikTok",
			"weather":     "Rainy",
			"unknown":     "dropped",
		}

		Convey("When the moment is a date", func() {
			mods := model.ParseModifiers("first_date", raw)

			Convey("Then only dating fields survive and defaults are applied", func() {
				d, ok := mods.(model.DatingModifiers)
				So(ok, ShouldBeTrue)
				So(d.DateType, ShouldEqual, "First Date")
				So(d.EnergyMode, ShouldEqual, "Soft Romantic")
				So(d.Location, ShouldEqual, model.DefaultLocation)
				So(d.Lighting, ShouldEqual, model.DefaultLighting)
				So(mods.Map(), ShouldNotContainKey, "platform")
				So(mods.Map(), ShouldNotContainKey, "unknown")
			})
		})

		Convey("When the moment is a creator moment", func() {
			mods := model.ParseModifiers("creator_camera", raw)

			Convey("Then the creator variant is returned", func() {
				c, ok := mods.(model.CreatorModifiers)
				So(ok, ShouldBeTrue)
				So(c.Platform, ShouldEqual, "TikTok")
				So(mods.Map(), ShouldNotContainKey, "date_type")
			})
		})

		Convey("When the moment is unknown", func() {
			mods := model.ParseModifiers("", nil)

			Convey("Then the general variant reports the default category", func() {
				_, ok := mods.(model.GeneralModifiers)
				So(ok, ShouldBeTrue)
				So(mods.Category(), ShouldEqual, model.CategoryDefault)
				So(mods.Common().Location, ShouldEqual, "Indoor")
			})
		})
	})
}

func TestMomentJSON(t *testing.T) {
	Convey("Given a moment", t, func() {
		m := model.NewMoment("m-1", "u-1", "power_meeting",
			map[string]string{"weather": "Rainy", "location": "Outdoor"},
			time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

		Convey("When it is encoded", func() {
			data, err := json.Marshal(m)
			So(err, ShouldBeNil)

			Convey("Then modifiers are flattened and the category is exposed", func() {
				var out map[string]any
				So(json.Unmarshal(data, &out), ShouldBeNil)
				So(out["category"], ShouldEqual, "professional")
				So(out["modifiers"].(map[string]any)["weather"], ShouldEqual, "Rainy")
			})

			Convey("Then decoding restores the typed variant", func() {
				var back model.Moment
				So(json.Unmarshal(data, &back), ShouldBeNil)
				g, ok := back.Modifiers.(model.GeneralModifiers)
				So(ok, ShouldBeTrue)
				So(g.Weather, ShouldEqual, "Rainy")
				So(g.Location, ShouldEqual, "Outdoor")
			})
		})
	})
}

func TestPlanValidate(t *testing.T) {
	Convey("Given a minimal complete plan", t, func() {
		p := completePlan()

		Convey("Then it validates", func() {
			So(p.Validate(), ShouldBeNil)
		})

		Convey("When the score is out of bounds", func() {
			p.GlowScore = 101
			So(errors.Is(p.Validate(), model.ErrIncompletePlan), ShouldBeTrue)
		})

		Convey("When a palette is too long", func() {
			p.Styling.Options[0].Palette = []string{"a", "b", "c", "d", "e", "f"}
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When a creator plan lacks camera sections", func() {
			p.Category = model.CategoryCreator
			So(p.Validate().Error(), ShouldContainSubstring, "camera_presence")
		})

		Convey("When a non-creator plan carries camera sections", func() {
			p.CameraPresence = &model.CameraPresence{Framing: "x"}
			So(p.Validate(), ShouldNotBeNil)
		})
	})
}

func completePlan() model.Plan {
	return model.Plan{
		Category:       model.CategoryProfessional,
		LookDirection:  "Polished",
		GlowScore:      90,
		MakeupGrooming: model.MakeupGrooming{Focus: "f", Intensity: "i", Steps: []string{"s"}, Finish: "matte"},
		Styling: model.Styling{Options: []model.StylingOption{
			{Title: "t", Silhouette: "s", Palette: []string{"#FFFFFF"}},
		}},
		HairCovering: model.HairCovering{Title: "Hair Direction", Direction: "d", Dos: []string{"a"}, Donts: []string{"b"}},
		Presence:     model.Presence{Entrance: "e", Posture: []string{"p"}, EyeContact: "e", CalmTechnique: "c"},
		Checklist:    []model.ChecklistItem{{Task: "t", How: "h"}},
	}
}
