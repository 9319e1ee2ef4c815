package smoke_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/glowplan/internal/adapters/http/api"
	service "github.com/okian/glowplan/internal/app"
	"github.com/okian/glowplan/internal/smoke"
	"github.com/okian/glowplan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T, opts ...service.Option) *httptest.Server {
	t.Helper()
	svc := service.New(append([]service.Option{service.WithWorkerCount(2), service.WithQueueSize(64)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 100).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func baseConfig(url string) *smoke.Config {
	return &smoke.Config{
		BaseURL:        url,
		Users:          5,
		MomentsPerUser: 6,
		Workers:        4,
		Timeout:        5 * time.Second,
		LookWait:       2 * time.Second,
		Seed:           7,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a healthy service", t, func() {
		srv := newServer(t)

		Convey("When a smoke run completes", func() {
			stats, err := smoke.Run(context.Background(), baseConfig(srv.URL))

			Convey("Then every step is accounted for", func() {
				So(err, ShouldBeNil)
				So(stats.BaselinesStored, ShouldEqual, 5)
				So(stats.MomentsSubmitted, ShouldEqual, 30)
				So(stats.MomentsCreated, ShouldEqual, 30)
				So(stats.MomentsFailed, ShouldEqual, 0)
				So(stats.PlansVerified, ShouldEqual, 30)
				So(stats.MomentsDuplicate, ShouldEqual, 5)
				So(stats.HistoriesVerified, ShouldEqual, 5)
				So(stats.Duration, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When looks are requested without an API key", func() {
			cfg := baseConfig(srv.URL)
			cfg.Looks = true
			stats, err := smoke.Run(context.Background(), cfg)

			Convey("Then the disabled stylist is skipped", func() {
				So(err, ShouldBeNil)
				So(stats.LooksRequested, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a service with the stylist enabled but no credential", t, func() {
		srv := newServer(t, service.WithStylist(true))
		cfg := baseConfig(srv.URL)
		cfg.Looks = true

		Convey("Then every look falls back", func() {
			stats, err := smoke.Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(stats.LooksRequested, ShouldEqual, 5)
			So(stats.LooksFallback, ShouldEqual, 5)
		})
	})

	Convey("Given nothing is listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := smoke.Run(context.Background(), baseConfig(srv.URL))
			So(errors.Is(err, smoke.ErrUnhealthy), ShouldBeTrue)
		})
	})

	Convey("Given a server whose health endpoint is missing", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		Convey("Then the run stops before sending moments", func() {
			stats, err := smoke.Run(context.Background(), baseConfig(srv.URL))
			So(errors.Is(err, smoke.ErrUnhealthy), ShouldBeTrue)
			So(stats.MomentsSubmitted, ShouldEqual, 0)
		})
	})
}
