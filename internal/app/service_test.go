package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/glowplan/internal/adapters/gemini"
	"github.com/okian/glowplan/internal/adapters/http/api"
	service "github.com/okian/glowplan/internal/app"
	"github.com/okian/glowplan/internal/config"
	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const lookJSON = `{
  "recommended_outfits": [{"title": "Candlelit Silk", "items": [], "colors": ["#8B0000", "#FFFFFF"], "silhouette": "Bias-cut slip"}],
  "makeup_or_grooming": {"focus": "Glass skin", "intensity": "Medium", "steps": ["Hydrate"]},
  "covering_or_hair": {"title": "Loose Waves", "direction": "Soft bend"},
  "posture_presence": ["Shoulders back"],
  "why": "Warm reds flatter candlelight."
}`

const tagJSON = `{"category":"top","color_tags":["white"],"style_tags":["minimal"],"season_tags":["summer"],"notes":"linen shirt"}`

// pngHeader is enough for MIME sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

var pngB64 = base64.StdEncoding.EncodeToString(pngHeader)

// fakeGen answers look prompts and tag prompts with canned JSON.
type fakeGen struct {
	configured bool
	fail       bool
	tags       string
	calls      atomic.Int64
}

func (f *fakeGen) Configured() bool { return f.configured }

func (f *fakeGen) GenerateContent(_ context.Context, parts []gemini.Part) (string, error) {
	f.calls.Add(1)
	if f.fail {
		return "", errors.New("upstream exploded")
	}
	if strings.Contains(parts[0].Text, "recommended_outfits") {
		return "Here you go:\n" + lookJSON, nil
	}
	if f.tags != "" {
		return f.tags, nil
	}
	return tagJSON, nil
}

func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	base := []service.Option{service.WithWorkerCount(2), service.WithQueueSize(8)}
	svc := service.New(append(base, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	t.Cleanup(svc.Stop)
	return svc
}

func waitForJob(ctx context.Context, svc *service.Service, id string) model.LookJob {
	deadline := time.Now().Add(3 * time.Second)
	for {
		j, err := svc.GetJob(ctx, id)
		So(err, ShouldBeNil)
		if j.Status != model.JobPending || time.Now().After(deadline) {
			return j
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(svc.Size(), ShouldEqual, 0)
		})

		Convey("When starting and stopping", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.GetStats()["generativeConfigured"], ShouldEqual, false)

			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given options built from config", t, func() {
		cfg := config.New()
		cfg.WorkerCount = 3
		cfg.EnableStylist = true
		svc := service.New(service.FromConfig(cfg)...)

		Convey("Then they are reflected in stats", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 3)
			So(stats["stylistEnabled"], ShouldEqual, true)
			So(stats["queueSize"], ShouldEqual, cfg.JobQueueSize)
		})
	})
}

func TestService_Moments(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := startService(t)

		Convey("When a moment is created without a baseline", func() {
			m, p, err := svc.CreateMoment(ctx, "user-1", "first_date", map[string]string{model.KeyLighting: "Dim"})

			Convey("Then a deterministic plan is stored for it", func() {
				So(err, ShouldBeNil)
				So(p.MomentID, ShouldEqual, m.ID)
				So(p.Source, ShouldEqual, model.SourceEngine)
				So(p.Validate(), ShouldBeNil)

				got, err := svc.PlanForMoment(ctx, m.ID)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, p.ID)
			})
		})

		Convey("When the user's baseline has covered hair", func() {
			_, err := svc.PutBaseline(ctx, model.Baseline{UserID: "user-2", HairCoverage: "covered"})
			So(err, ShouldBeNil)
			_, p, err := svc.CreateMoment(ctx, "user-2", "power_meeting", nil)

			Convey("Then the plan uses covering guidance", func() {
				So(err, ShouldBeNil)
				So(p.HairCovering.Title, ShouldEqual, "Covering Harmony")
			})
		})

		Convey("When the same moment is created twice", func() {
			_, p1, _ := svc.CreateMoment(ctx, "user-1", "party", nil)
			_, p2, _ := svc.CreateMoment(ctx, "user-1", "party", nil)

			Convey("Then both plans share content but not identity", func() {
				So(p1.ID, ShouldNotEqual, p2.ID)
				So(p1.GlowScore, ShouldEqual, p2.GlowScore)
				So(p1.Styling, ShouldResemble, p2.Styling)
			})
		})

		Convey("When reading history", func() {
			for _, mt := range []string{"brunch", "party", "first_date"} {
				_, _, err := svc.CreateMoment(ctx, "user-3", mt, nil)
				So(err, ShouldBeNil)
			}
			plans, err := svc.History(ctx, "user-3", 2)

			Convey("Then the newest plans come first", func() {
				So(err, ShouldBeNil)
				So(plans, ShouldHaveLength, 2)
				So(plans[0].MomentType, ShouldEqual, "first_date")
				So(plans[1].MomentType, ShouldEqual, "party")
			})
		})

		Convey("When store errors surface", func() {
			_, err := svc.GetPlan(ctx, "ghost")
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			_, err = svc.History(ctx, "user-1", 0)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			_, _, err = svc.CreateMoment(ctx, "", "party", nil)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
		})

		Convey("When idempotency keys are used", func() {
			So(svc.SeenAndRecord(ctx, "u:k"), ShouldBeFalse)
			_, ok := svc.Lookup(ctx, "u:k")
			So(ok, ShouldBeFalse)
			svc.Bind(ctx, "u:k", "moment-1")
			id, ok := svc.Lookup(ctx, "u:k")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "moment-1")
			So(svc.SeenAndRecord(ctx, "u:k"), ShouldBeTrue)
			svc.Unrecord(ctx, "u:k")
			So(svc.Size(), ShouldEqual, 0)
		})
	})
}

func TestService_Looks(t *testing.T) {
	ctx := context.Background()

	Convey("Given the stylist is disabled", t, func() {
		svc := startService(t, service.WithGenerator(&fakeGen{configured: true}))
		m, _, _ := svc.CreateMoment(ctx, "user-1", "first_date", nil)

		Convey("Then look requests are unavailable", func() {
			_, err := svc.RequestLook(ctx, m.ID, nil)
			So(errors.Is(err, api.ErrUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a working stylist", t, func() {
		gen := &fakeGen{configured: true}
		svc := startService(t, service.WithStylist(true), service.WithGenerator(gen))
		m, engine, _ := svc.CreateMoment(ctx, "user-1", "first_date", nil)

		Convey("When a look is requested", func() {
			j, err := svc.RequestLook(ctx, m.ID, nil)
			So(err, ShouldBeNil)
			So(j.Status, ShouldEqual, model.JobPending)
			done := waitForJob(ctx, svc, j.ID)

			Convey("Then the stylist plan becomes current", func() {
				So(done.Status, ShouldEqual, model.JobDone)
				p, err := svc.PlanForMoment(ctx, m.ID)
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, done.PlanID)
				So(p.Source, ShouldEqual, model.SourceStylist)
				So(p.Styling.Options[0].Title, ShouldEqual, "Candlelit Silk")

				old, err := svc.GetPlan(ctx, engine.ID)
				So(err, ShouldBeNil)
				So(old.Source, ShouldEqual, model.SourceEngine)
			})
		})

		Convey("When the moment is unknown", func() {
			_, err := svc.RequestLook(ctx, "ghost", nil)
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a failing stylist", t, func() {
		svc := startService(t, service.WithStylist(true), service.WithGenerator(&fakeGen{configured: true, fail: true}))
		m, engine, _ := svc.CreateMoment(ctx, "user-1", "creator_camera", nil)

		Convey("When a look is requested", func() {
			j, err := svc.RequestLook(ctx, m.ID, nil)
			So(err, ShouldBeNil)
			done := waitForJob(ctx, svc, j.ID)

			Convey("Then the job falls back to the deterministic plan", func() {
				So(done.Status, ShouldEqual, model.JobFallback)
				So(done.PlanID, ShouldEqual, engine.ID)
				So(done.Error, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given an unconfigured generator", t, func() {
		svc := startService(t, service.WithStylist(true))
		m, engine, _ := svc.CreateMoment(ctx, "user-1", "first_date", nil)

		Convey("Then looks fall back with the credential error", func() {
			j, err := svc.RequestLook(ctx, m.ID, nil)
			So(err, ShouldBeNil)
			done := waitForJob(ctx, svc, j.ID)
			So(done.Status, ShouldEqual, model.JobFallback)
			So(done.PlanID, ShouldEqual, engine.ID)
			So(done.Error, ShouldContainSubstring, "credential")
		})
	})
}

func TestService_Wardrobe(t *testing.T) {
	ctx := context.Background()

	Convey("Given wardrobe tagging with a working model", t, func() {
		gen := &fakeGen{configured: true}
		svc := startService(t, service.WithGenerator(gen))

		Convey("When a mix of valid and invalid images is tagged", func() {
			res, err := svc.TagWardrobe(ctx, "user-1", []string{pngB64, "not base64!", base64.StdEncoding.EncodeToString([]byte("plain text"))})

			Convey("Then only the valid image is sent and stored", func() {
				So(err, ShouldBeNil)
				So(res, ShouldHaveLength, 3)
				So(res[0].Item, ShouldNotBeNil)
				So(res[0].Item.Category, ShouldEqual, "top")
				So(res[0].Item.Colors, ShouldResemble, []string{"white"})
				So(res[1].Error, ShouldNotBeEmpty)
				So(res[2].Error, ShouldNotBeEmpty)
				So(gen.calls.Load(), ShouldEqual, 1)

				items, err := svc.Wardrobe(ctx, "user-1")
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 1)
				So(res[2].Index, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a model that replies with an empty object", t, func() {
		svc := startService(t, service.WithGenerator(&fakeGen{configured: true, tags: "{}"}))
		res, err := svc.TagWardrobe(ctx, "user-2", []string{pngB64})

		Convey("Then the image fails and nothing is stored", func() {
			So(err, ShouldBeNil)
			So(res, ShouldHaveLength, 1)
			So(res[0].Item, ShouldBeNil)
			So(res[0].Error, ShouldNotBeEmpty)

			items, err := svc.Wardrobe(ctx, "user-2")
			So(err, ShouldBeNil)
			So(items, ShouldBeEmpty)
		})
	})

	Convey("Given wardrobe tagging is disabled", t, func() {
		svc := startService(t, service.WithWardrobe(false), service.WithGenerator(&fakeGen{configured: true}))
		_, err := svc.TagWardrobe(ctx, "user-1", []string{pngB64})
		So(errors.Is(err, api.ErrUnavailable), ShouldBeTrue)
	})

	Convey("Given no API key", t, func() {
		svc := startService(t)
		_, err := svc.TagWardrobe(ctx, "user-1", []string{pngB64})
		So(errors.Is(err, api.ErrUnavailable), ShouldBeTrue)
	})
}
