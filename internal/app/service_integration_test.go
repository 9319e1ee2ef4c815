package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/glowplan/internal/adapters/gemini"
	"github.com/okian/glowplan/internal/adapters/http/api"
	service "github.com/okian/glowplan/internal/app"
	"github.com/okian/glowplan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tidwall/gjson"
)

// fakeUpstream mimics the generateContent endpoint. It answers look and tag
// prompts from the first text part, or fails with status when set.
type fakeUpstream struct {
	status atomic.Int64
	calls  atomic.Int64
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	raw, _ := io.ReadAll(r.Body)
	if code := int(f.status.Load()); code != 0 {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
		return
	}

	answer := tagJSON
	if strings.Contains(gjson.GetBytes(raw, "contents.0.parts.0.text").String(), "recommended_outfits") {
		answer = "```json\n" + lookJSON + "\n```"
	}
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": answer}}},
		}},
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

type harness struct {
	svc      *service.Service
	api      *httptest.Server
	upstream *fakeUpstream
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	up := &fakeUpstream{}
	gen := httptest.NewServer(up)
	t.Cleanup(gen.Close)

	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(16),
		service.WithStylist(true),
		service.WithGeminiOptions(
			gemini.WithAPIKey("test-key"),
			gemini.WithBaseURL(gen.URL),
			gemini.WithTimeout(2*time.Second),
		),
	)
	So(svc.Start(context.Background()), ShouldBeNil)
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 100).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &harness{svc: svc, api: srv, upstream: up}
}

func (h *harness) do(method, path, body string, headers ...string) (int, []byte) {
	req, err := http.NewRequest(method, h.api.URL+path, bytes.NewBufferString(body))
	So(err, ShouldBeNil)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	So(err, ShouldBeNil)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	So(err, ShouldBeNil)
	return resp.StatusCode, raw
}

func (h *harness) pollJob(id string) model.LookJob {
	deadline := time.Now().Add(5 * time.Second)
	for {
		code, raw := h.do(http.MethodGet, "/jobs/"+id, "")
		So(code, ShouldEqual, http.StatusOK)
		var j model.LookJob
		So(json.Unmarshal(raw, &j), ShouldBeNil)
		if j.Status != model.JobPending || time.Now().After(deadline) {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given the full HTTP surface over a fake generative endpoint", t, func() {
		h := newHarness(t)

		code, _ := h.do(http.MethodPut, "/baselines/user-1", `{"identity":"woman","hair_coverage":"Covered most of the time"}`)
		So(code, ShouldEqual, http.StatusOK)

		code, raw := h.do(http.MethodPost, "/moments",
			`{"user_id":"user-1","moment_type":"first_date","modifiers":{"lighting":"Candlelight"}}`,
			api.IdempotencyHeader, "date-1")
		So(code, ShouldEqual, http.StatusCreated)
		momentID := gjson.GetBytes(raw, "moment.id").String()
		enginePlanID := gjson.GetBytes(raw, "plan.id").String()
		So(momentID, ShouldNotBeEmpty)
		So(gjson.GetBytes(raw, "plan.source").String(), ShouldEqual, "engine")
		So(gjson.GetBytes(raw, "plan.hair_covering.title").String(), ShouldEqual, "Covering Harmony")

		Convey("When the same request is replayed", func() {
			code, raw := h.do(http.MethodPost, "/moments",
				`{"user_id":"user-1","moment_type":"first_date"}`,
				api.IdempotencyHeader, "date-1")

			Convey("Then the original moment comes back", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(gjson.GetBytes(raw, "duplicate").Bool(), ShouldBeTrue)
				So(gjson.GetBytes(raw, "moment.id").String(), ShouldEqual, momentID)
			})
		})

		Convey("When a look is requested and the model answers", func() {
			code, raw := h.do(http.MethodPost, "/moments/"+momentID+"/look", "")
			So(code, ShouldEqual, http.StatusAccepted)
			job := h.pollJob(gjson.GetBytes(raw, "job_id").String())

			Convey("Then the stylist plan becomes the moment's plan", func() {
				So(job.Status, ShouldEqual, model.JobDone)
				code, raw := h.do(http.MethodGet, "/moments/"+momentID+"/plan", "")
				So(code, ShouldEqual, http.StatusOK)
				So(gjson.GetBytes(raw, "source").String(), ShouldEqual, "stylist")
				So(gjson.GetBytes(raw, "id").String(), ShouldEqual, job.PlanID)
				So(gjson.GetBytes(raw, "styling.options.0.title").String(), ShouldEqual, "Candlelit Silk")

				code, raw = h.do(http.MethodGet, "/history/user-1", "")
				So(code, ShouldEqual, http.StatusOK)
				So(gjson.GetBytes(raw, "plans.#").Int(), ShouldEqual, 1)
				So(gjson.GetBytes(raw, "plans.0.source").String(), ShouldEqual, "stylist")
			})
		})

		Convey("When the model endpoint fails", func() {
			h.upstream.status.Store(http.StatusInternalServerError)
			code, raw := h.do(http.MethodPost, "/moments/"+momentID+"/look", "")
			So(code, ShouldEqual, http.StatusAccepted)
			job := h.pollJob(gjson.GetBytes(raw, "job_id").String())

			Convey("Then the job falls back and the engine plan stays current", func() {
				So(job.Status, ShouldEqual, model.JobFallback)
				So(job.PlanID, ShouldEqual, enginePlanID)
				So(job.Error, ShouldContainSubstring, "model overloaded")

				code, raw := h.do(http.MethodGet, "/moments/"+momentID+"/plan", "")
				So(code, ShouldEqual, http.StatusOK)
				So(gjson.GetBytes(raw, "source").String(), ShouldEqual, "engine")
			})
		})

		Convey("When wardrobe photos are tagged", func() {
			code, raw := h.do(http.MethodPost, "/wardrobe/user-1/tag", `{"images":["`+pngB64+`","###"]}`)

			Convey("Then good photos are stored and bad ones reported", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(gjson.GetBytes(raw, "results.0.item.category").String(), ShouldEqual, "top")
				So(gjson.GetBytes(raw, "results.1.error").String(), ShouldNotBeEmpty)
				So(h.upstream.calls.Load(), ShouldEqual, 1)

				code, raw = h.do(http.MethodGet, "/wardrobe/user-1", "")
				So(code, ShouldEqual, http.StatusOK)
				So(gjson.GetBytes(raw, "items.#").Int(), ShouldEqual, 1)
			})
		})

		Convey("When stats are read", func() {
			code, raw := h.do(http.MethodGet, "/stats", "")
			So(code, ShouldEqual, http.StatusOK)
			So(gjson.GetBytes(raw, "generativeConfigured").Bool(), ShouldBeTrue)
			So(gjson.GetBytes(raw, "idempotencyKeys").Int(), ShouldEqual, 1)
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given many users creating moments at once", t, func() {
		h := newHarness(t)
		ctx := context.Background()

		const users, perUser = 10, 20
		done := make(chan error, users)
		for u := 0; u < users; u++ {
			go func(u int) {
				userID := "user-" + string(rune('a'+u))
				for i := 0; i < perUser; i++ {
					if _, _, err := h.svc.CreateMoment(ctx, userID, "party", nil); err != nil {
						done <- err
						return
					}
				}
				done <- nil
			}(u)
		}
		for u := 0; u < users; u++ {
			So(<-done, ShouldBeNil)
		}

		Convey("Then every user has a full history", func() {
			for u := 0; u < users; u++ {
				plans, err := h.svc.History(ctx, "user-"+string(rune('a'+u)), 100)
				So(err, ShouldBeNil)
				So(plans, ShouldHaveLength, perUser)
			}
		})
	})
}
