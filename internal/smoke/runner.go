// Package smoke drives a running Glow Plan service end to end: it stores
// baselines, creates moments concurrently, then checks plans, history,
// idempotent replay and, optionally, stylist looks.
package smoke

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/glowplan/pkg/logger"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	percentageMultiplier = 100
	lookPollInterval     = 250 * time.Millisecond
	// maxHistoryLimit matches the service's default cap on ?limit.
	maxHistoryLimit = 100
)

// created is one moment the service accepted.
type created struct {
	user       *user
	req        momentRequest
	momentID   string
	planID     string
	glowScore  int64
	faceShape  string
	source     string
	sections   bool
	duplicated bool
}

// counters are updated from many goroutines and folded into Stats.
type counters struct {
	submitted, created, duplicate, failed atomic.Int64
	looksDone, looksFallback, looksFailed atomic.Int64
	looksRequested                        atomic.Int64
}

// Run executes the complete smoke run and returns its statistics. The first
// verification failure aborts the run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("smoke")
	stats := &Stats{StartTime: time.Now()}
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting glow plan smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("users", cfg.Users),
		logger.Int("momentsPerUser", cfg.MomentsPerUser),
		logger.Int("workers", cfg.Workers),
		logger.Bool("looks", cfg.Looks))

	if err := checkHealth(ctx, c); err != nil {
		return stats, err
	}

	users := generateUsers(cfg)

	if err := storeBaselines(ctx, cfg, c, users); err != nil {
		return stats, fmt.Errorf("store baselines: %w", err)
	}
	stats.BaselinesStored = len(users)

	var cnt counters
	results, err := submitMoments(ctx, cfg, c, users, &cnt)
	if err != nil {
		return stats, fmt.Errorf("submit moments: %w", err)
	}
	stats.MomentsSubmitted = int(cnt.submitted.Load())
	stats.MomentsCreated = int(cnt.created.Load())
	stats.MomentsFailed = int(cnt.failed.Load())

	if err := verifyPlans(results); err != nil {
		return stats, err
	}
	stats.PlansVerified = len(results)

	if err := replayMoments(ctx, cfg, c, users, results, &cnt); err != nil {
		return stats, err
	}
	stats.MomentsDuplicate = int(cnt.duplicate.Load())

	if err := verifyHistories(ctx, cfg, c, users, results); err != nil {
		return stats, err
	}
	stats.HistoriesVerified = len(users)

	if cfg.Looks {
		if err := requestLooks(ctx, cfg, c, users, results, &cnt); err != nil {
			return stats, err
		}
		stats.LooksRequested = int(cnt.looksRequested.Load())
		stats.LooksDone = int(cnt.looksDone.Load())
		stats.LooksFallback = int(cnt.looksFallback.Load())
		stats.LooksFailed = int(cnt.looksFailed.Load())
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, log, stats)
	return stats, nil
}

// checkHealth verifies the service is running. /healthz serves Prometheus
// text, so any 200 is healthy.
func checkHealth(ctx context.Context, c *client) error {
	resp, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.Status)
	}
	return nil
}

func storeBaselines(ctx context.Context, cfg *Config, c *client, users []user) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range users {
		u := &users[i]
		g.Go(func() error {
			resp, err := c.put(ctx, "/baselines/"+u.ID, u.Baseline)
			if err != nil {
				return err
			}
			return expectStatus(resp, http.StatusOK)
		})
	}
	return g.Wait()
}

// submitMoments posts every moment. Individual failures are counted, not
// fatal; transport errors on a cancelled context are.
func submitMoments(ctx context.Context, cfg *Config, c *client, users []user, cnt *counters) ([]created, error) {
	log := logger.Named("smoke")

	var (
		mu  sync.Mutex
		out []created
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range users {
		u := &users[i]
		for _, m := range u.Moments {
			g.Go(func() error {
				cnt.submitted.Add(1)
				resp, err := c.post(gctx, "/moments", m, map[string]string{idempotencyHeader: m.key})
				if err != nil {
					if gctx.Err() != nil {
						return err
					}
					cnt.failed.Add(1)
					return nil
				}
				if err := expectStatus(resp, http.StatusCreated); err != nil {
					cnt.failed.Add(1)
					if cfg.Verbose {
						log.Warn(gctx, "moment rejected", logger.String("user", u.ID), logger.Error(err))
					}
					return nil
				}
				cnt.created.Add(1)

				r := parseCreated(resp.Body)
				r.user, r.req = u, m
				mu.Lock()
				out = append(out, r)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseCreated(body []byte) created {
	res := gjson.ParseBytes(body)
	plan := res.Get("plan")
	return created{
		momentID:   res.Get("moment.id").String(),
		planID:     plan.Get("id").String(),
		glowScore:  plan.Get("glow_score").Int(),
		faceShape:  plan.Get("face_shape").String(),
		source:     plan.Get("source").String(),
		duplicated: res.Get("duplicate").Bool(),
		sections: plan.Get("styling.options.#").Int() > 0 &&
			plan.Get("hair_covering.title").String() != "" &&
			plan.Get("makeup_grooming.steps.#").Int() > 0,
	}
}

// replayMoments resends each user's first moment with its original key and
// expects the stored moment back.
func replayMoments(ctx context.Context, cfg *Config, c *client, users []user, results []created, cnt *counters) error {
	first := make(map[string]created, len(users))
	for _, r := range results {
		if r.req.key == r.user.Moments[0].key {
			first[r.user.ID] = r
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, r := range first {
		g.Go(func() error {
			resp, err := c.post(ctx, "/moments", r.req, map[string]string{idempotencyHeader: r.req.key})
			if err != nil {
				return err
			}
			if err := expectStatus(resp, http.StatusOK); err != nil {
				return fmt.Errorf("%w: replay for %s: %w", ErrVerification, r.user.ID, err)
			}
			again := parseCreated(resp.Body)
			if !again.duplicated || again.momentID != r.momentID {
				return fmt.Errorf("%w: replay for %s returned moment %s, want %s",
					ErrVerification, r.user.ID, again.momentID, r.momentID)
			}
			cnt.duplicate.Add(1)
			return nil
		})
	}
	return g.Wait()
}

// verifyHistories reads each user's history and checks it lists exactly the
// moments that were created. Moments of one user are posted concurrently, so
// order is not checked.
func verifyHistories(ctx context.Context, cfg *Config, c *client, users []user, results []created) error {
	byUser := make(map[string]map[string]struct{}, len(users))
	for _, r := range results {
		if byUser[r.user.ID] == nil {
			byUser[r.user.ID] = make(map[string]struct{})
		}
		byUser[r.user.ID][r.momentID] = struct{}{}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range users {
		u := &users[i]
		want := byUser[u.ID]
		g.Go(func() error {
			limit := min(max(len(want), 1), maxHistoryLimit)
			resp, err := c.get(ctx, fmt.Sprintf("/history/%s?limit=%d", u.ID, limit))
			if err != nil {
				return err
			}
			if err := expectStatus(resp, http.StatusOK); err != nil {
				return err
			}
			return checkHistory(u.ID, want, limit, gjson.GetBytes(resp.Body, "plans"))
		})
	}
	return g.Wait()
}

// requestLooks asks for one look per user and polls each job to a terminal
// state. A disabled stylist skips the step.
func requestLooks(ctx context.Context, cfg *Config, c *client, users []user, results []created, cnt *counters) error {
	log := logger.Named("smoke")

	byUser := make(map[string]created, len(users))
	for _, r := range results {
		byUser[r.user.ID] = r
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, r := range byUser {
		g.Go(func() error {
			resp, err := c.post(gctx, "/moments/"+r.momentID+"/look", nil, nil)
			if err != nil {
				return err
			}
			if resp.Status == http.StatusServiceUnavailable {
				log.Warn(gctx, "stylist unavailable; skipping looks")
				return nil
			}
			if err := expectStatus(resp, http.StatusAccepted); err != nil {
				cnt.looksFailed.Add(1)
				return nil
			}
			cnt.looksRequested.Add(1)
			status, err := pollJob(gctx, cfg, c, gjson.GetBytes(resp.Body, "job_id").String())
			if err != nil {
				return err
			}
			switch status {
			case "done":
				cnt.looksDone.Add(1)
			case "fallback":
				cnt.looksFallback.Add(1)
			default:
				cnt.looksFailed.Add(1)
			}
			return nil
		})
	}
	return g.Wait()
}

func pollJob(ctx context.Context, cfg *Config, c *client, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.LookWait)
	defer cancel()

	ticker := time.NewTicker(lookPollInterval)
	defer ticker.Stop()
	for {
		resp, err := c.get(ctx, "/jobs/"+id)
		if err != nil {
			return "", err
		}
		if err := expectStatus(resp, http.StatusOK); err != nil {
			return "", err
		}
		if status := gjson.GetBytes(resp.Body, "status").String(); status != "pending" {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return "pending", nil
		case <-ticker.C:
		}
	}
}

func logFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, perSecond float64
	if stats.MomentsSubmitted > 0 {
		successRate = float64(stats.MomentsCreated) / float64(stats.MomentsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.MomentsSubmitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("baselinesStored", stats.BaselinesStored),
		logger.Int("momentsSubmitted", stats.MomentsSubmitted),
		logger.Int("momentsCreated", stats.MomentsCreated),
		logger.Int("momentsDuplicate", stats.MomentsDuplicate),
		logger.Int("momentsFailed", stats.MomentsFailed),
		logger.Int("plansVerified", stats.PlansVerified),
		logger.Int("historiesVerified", stats.HistoriesVerified),
		logger.Int("looksRequested", stats.LooksRequested),
		logger.Int("looksDone", stats.LooksDone),
		logger.Int("looksFallback", stats.LooksFallback),
		logger.Int("looksFailed", stats.LooksFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("momentsPerSecond", perSecond))
}
