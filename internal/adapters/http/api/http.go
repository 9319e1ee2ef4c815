// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/glowplan/internal/domain/dedupe"
	"github.com/okian/glowplan/internal/domain/model"
)

// Dependencies required by HTTP handlers. Implementations wrap their
// errors with the kinds in errors.go.
type Dependencies interface {
	dedupe.Deduper
	BaselineDependencies
	MomentDependencies
	PlanDependencies
	LookDependencies
	WardrobeDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	baselineHandler *BaselineHandler
	momentsHandler  *MomentsHandler
	plansHandler    *PlansHandler
	historyHandler  *HistoryHandler
	lookHandler     *LookHandler
	wardrobeHandler *WardrobeHandler
}

// NewServer creates a new API server with all handlers. maxHistory bounds
// GET /history limits.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxHistory int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		baselineHandler: NewBaselineHandler(deps),
		momentsHandler:  NewMomentsHandler(deps),
		plansHandler:    NewPlansHandler(deps),
		historyHandler:  NewHistoryHandler(deps, maxHistory),
		lookHandler:     NewLookHandler(deps),
		wardrobeHandler: NewWardrobeHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("PUT /baselines/{user_id}", MetricsMiddleware(s.baselineHandler.HandlePutBaseline, "baselines"))
	mux.HandleFunc("GET /baselines/{user_id}", MetricsMiddleware(s.baselineHandler.HandleGetBaseline, "baselines"))

	mux.HandleFunc("POST /moments", MetricsMiddleware(s.momentsHandler.HandlePostMoment, "moments"))
	mux.HandleFunc("GET /moments/{id}/plan", MetricsMiddleware(s.plansHandler.HandleGetMomentPlan, "moment_plan"))
	mux.HandleFunc("POST /moments/{id}/look", MetricsMiddleware(s.lookHandler.HandlePostLook, "look"))
	mux.HandleFunc("GET /plans/{id}", MetricsMiddleware(s.plansHandler.HandleGetPlan, "plans"))
	mux.HandleFunc("GET /history/{user_id}", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("GET /jobs/{id}", MetricsMiddleware(s.lookHandler.HandleGetJob, "jobs"))

	mux.HandleFunc("POST /wardrobe/{user_id}/tag", MetricsMiddleware(s.wardrobeHandler.HandleTag, "wardrobe_tag"))
	mux.HandleFunc("GET /wardrobe/{user_id}", MetricsMiddleware(s.wardrobeHandler.HandleList, "wardrobe"))
}

// momentResponse is returned by POST /moments.
type momentResponse struct {
	Moment    model.Moment `json:"moment"`
	Plan      model.Plan   `json:"plan"`
	Duplicate bool         `json:"duplicate"`
}
