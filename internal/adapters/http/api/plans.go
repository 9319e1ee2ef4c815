package api

import (
	"context"
	"net/http"

	"github.com/okian/glowplan/internal/domain/model"
)

// PlanDependencies reads stored plans.
type PlanDependencies interface {
	GetPlan(ctx context.Context, id string) (model.Plan, error)
	PlanForMoment(ctx context.Context, momentID string) (model.Plan, error)
	History(ctx context.Context, userID string, limit int) ([]model.Plan, error)
}

// PlansHandler handles plan reads.
type PlansHandler struct {
	deps PlanDependencies
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps PlanDependencies) *PlansHandler {
	return &PlansHandler{deps: deps}
}

// HandleGetPlan handles GET /plans/{id}.
func (h *PlansHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_plan"
	id, err := pathParam(r, "id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.GetPlan(r.Context(), id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleGetMomentPlan handles GET /moments/{id}/plan.
func (h *PlansHandler) HandleGetMomentPlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_moment_plan"
	id, err := pathParam(r, "id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.PlanForMoment(r.Context(), id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
