package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/glowplan/internal/adapters/mq/queue"
	"github.com/okian/glowplan/internal/adapters/mq/worker"
	"github.com/okian/glowplan/internal/adapters/repository"
	"github.com/okian/glowplan/internal/domain/glow"
	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/internal/domain/stylist"
	logging "github.com/okian/glowplan/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockStylist struct {
	err   error
	calls atomic.Int64
	delay time.Duration
	seen  atomic.Pointer[stylist.MomentContext]
}

func (m *mockStylist) GenerateAugmentedPlan(ctx context.Context, mc stylist.MomentContext, _ []model.WardrobeItem, _ *model.Image) (model.Plan, error) {
	m.calls.Add(1)
	m.seen.Store(&mc)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return model.Plan{}, ctx.Err()
		}
	}
	if m.err != nil {
		return model.Plan{}, m.err
	}
	p := glow.NewEngine().Generate(mc.Baseline, mc.Moment)
	p.Source = model.SourceStylist
	return p, nil
}

type fixture struct {
	store   *repository.MemoryStore
	moment  model.Moment
	engine  model.Plan
	job     model.LookJob
	stylist *mockStylist
}

func newFixture(t *testing.T, st *mockStylist) fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore(ctx)
	t.Cleanup(func() { _ = store.Close() })

	m, err := store.SaveMoment(ctx, model.NewMoment("", "user-1", "first_date", map[string]string{model.KeyEnergyMode: model.EnergySoftRomantic}, time.Time{}))
	if err != nil {
		t.Fatal(err)
	}
	p, err := store.SavePlan(ctx, glow.NewEngine().Generate(model.Baseline{}, m))
	if err != nil {
		t.Fatal(err)
	}
	j, err := store.SaveJob(ctx, model.LookJob{MomentID: m.ID, UserID: m.UserID})
	if err != nil {
		t.Fatal(err)
	}
	return fixture{store: store, moment: m, engine: p, job: j, stylist: st}
}

func TestWorkerProcess(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a stored moment with its deterministic plan", t, func() {
		convey.Convey("When the stylist succeeds", func() {
			f := newFixture(t, &mockStylist{})
			w := worker.NewInMemoryWorker(nil, f.stylist, f.store, worker.WithLogger(logging.Nop()))
			convey.So(w.Process(ctx, f.job), convey.ShouldBeNil)

			convey.Convey("Then the job is done and points at the stylist plan", func() {
				j, err := f.store.GetJob(ctx, f.job.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(j.Status, convey.ShouldEqual, model.JobDone)
				convey.So(j.PlanID, convey.ShouldNotEqual, f.engine.ID)
				convey.So(j.Error, convey.ShouldBeEmpty)

				current, err := f.store.PlanForMoment(ctx, f.moment.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(current.ID, convey.ShouldEqual, j.PlanID)
				convey.So(current.Source, convey.ShouldEqual, model.SourceStylist)
				convey.So(current.MomentID, convey.ShouldEqual, f.moment.ID)
			})

			convey.Convey("Then a missing baseline is styled as unspecified", func() {
				mc := f.stylist.seen.Load()
				convey.So(mc, convey.ShouldNotBeNil)
				convey.So(mc.Baseline.Identity, convey.ShouldEqual, model.IdentityUnspecified)
				convey.So(mc.Baseline.UserID, convey.ShouldEqual, "user-1")
			})
		})

		convey.Convey("When the user has a baseline", func() {
			f := newFixture(t, &mockStylist{})
			_, err := f.store.PutBaseline(ctx, model.Baseline{UserID: "user-1", Identity: "woman", HairCoverage: "covered"})
			convey.So(err, convey.ShouldBeNil)
			w := worker.NewInMemoryWorker(nil, f.stylist, f.store, worker.WithLogger(logging.Nop()))
			convey.So(w.Process(ctx, f.job), convey.ShouldBeNil)

			convey.Convey("Then it is passed to the stylist", func() {
				mc := f.stylist.seen.Load()
				convey.So(mc.Baseline.HairCoverage, convey.ShouldEqual, model.HairCovered)
			})
		})

		convey.Convey("When the stylist fails", func() {
			f := newFixture(t, &mockStylist{err: stylist.ErrCredentialMissing})
			w := worker.NewInMemoryWorker(nil, f.stylist, f.store, worker.WithLogger(logging.Nop()))
			convey.So(w.Process(ctx, f.job), convey.ShouldBeNil)

			convey.Convey("Then the job falls back to the deterministic plan", func() {
				j, err := f.store.GetJob(ctx, f.job.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(j.Status, convey.ShouldEqual, model.JobFallback)
				convey.So(j.PlanID, convey.ShouldEqual, f.engine.ID)
				convey.So(j.Error, convey.ShouldContainSubstring, stylist.ErrCredentialMissing.Error())

				current, _ := f.store.PlanForMoment(ctx, f.moment.ID)
				convey.So(current.Source, convey.ShouldEqual, model.SourceEngine)
			})
		})

		convey.Convey("When the stylist exceeds the job timeout", func() {
			f := newFixture(t, &mockStylist{delay: time.Second})
			w := worker.NewInMemoryWorker(nil, f.stylist, f.store,
				worker.WithLogger(logging.Nop()), worker.WithJobTimeout(20*time.Millisecond))
			convey.So(w.Process(ctx, f.job), convey.ShouldBeNil)

			convey.Convey("Then the job falls back", func() {
				j, _ := f.store.GetJob(ctx, f.job.ID)
				convey.So(j.Status, convey.ShouldEqual, model.JobFallback)
				convey.So(j.Error, convey.ShouldContainSubstring, context.DeadlineExceeded.Error())
			})
		})

		convey.Convey("When the moment does not exist", func() {
			f := newFixture(t, &mockStylist{})
			j, _ := f.store.SaveJob(ctx, model.LookJob{MomentID: "ghost", UserID: "user-1"})
			w := worker.NewInMemoryWorker(nil, f.stylist, f.store, worker.WithLogger(logging.Nop()))
			convey.So(w.Process(ctx, j), convey.ShouldBeNil)

			convey.Convey("Then the job fails without calling the stylist", func() {
				got, _ := f.store.GetJob(ctx, j.ID)
				convey.So(got.Status, convey.ShouldEqual, model.JobFailed)
				convey.So(got.Error, convey.ShouldNotBeEmpty)
				convey.So(f.stylist.calls.Load(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the job record is unknown", func() {
			f := newFixture(t, &mockStylist{})
			w := worker.NewInMemoryWorker(nil, f.stylist, f.store, worker.WithLogger(logging.Nop()))
			err := w.Process(ctx, model.LookJob{ID: "ghost", MomentID: f.moment.ID})

			convey.Convey("Then the update error is returned", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool consuming a queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		f := newFixture(t, &mockStylist{})
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		pool := worker.NewPool(3, q, f.stylist, f.store, worker.WithLogger(logging.Nop()))
		convey.So(pool.Size(), convey.ShouldEqual, 3)
		pool.Start(ctx)

		var ids []string
		for i := 0; i < 5; i++ {
			j, err := f.store.SaveJob(ctx, model.LookJob{MomentID: f.moment.ID, UserID: "user-1"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, j), convey.ShouldBeNil)
			ids = append(ids, j.ID)
		}

		convey.Convey("Then every job reaches a terminal status", func() {
			deadline := time.Now().Add(2 * time.Second)
			pending := len(ids)
			for pending > 0 && time.Now().Before(deadline) {
				pending = 0
				for _, id := range ids {
					j, _ := f.store.GetJob(ctx, id)
					if j.Status == model.JobPending {
						pending++
					}
				}
				time.Sleep(5 * time.Millisecond)
			}
			convey.So(pending, convey.ShouldEqual, 0)
			convey.So(f.stylist.calls.Load(), convey.ShouldEqual, 5)

			convey.Convey("And shutdown closes the queue", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				convey.So(pool.Busy(), convey.ShouldEqual, 0)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), &mockStylist{}, nil)

		convey.Convey("Then the pool is sized from the CPU count", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}

func TestConstructWithoutGlobalLogger(t *testing.T) {
	convey.Convey("Given no process-wide logger", t, func() {
		convey.Convey("When a worker and a pool are built without a logger option", func() {
			convey.So(func() { worker.NewInMemoryWorker(nil, &mockStylist{}, nil) }, convey.ShouldNotPanic)
			convey.So(func() { worker.NewPool(2, queue.NewInMemoryQueue(), &mockStylist{}, nil) }, convey.ShouldNotPanic)
		})

		convey.Convey("When a worker processes a job with an injected logger", func() {
			f := newFixture(t, &mockStylist{})
			w := worker.NewInMemoryWorker(nil, f.stylist, f.store, worker.WithName("solo"), worker.WithLogger(logging.Nop()))
			convey.So(w.Process(context.Background(), f.job), convey.ShouldBeNil)

			convey.Convey("Then the job completes", func() {
				got, err := f.store.GetJob(context.Background(), f.job.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Status, convey.ShouldEqual, model.JobDone)
			})
		})
	})
}
