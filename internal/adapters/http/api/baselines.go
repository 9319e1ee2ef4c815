package api

import (
	"context"
	"net/http"

	"github.com/okian/glowplan/internal/domain/model"
)

// BaselineDependencies stores per-user baselines.
type BaselineDependencies interface {
	PutBaseline(ctx context.Context, b model.Baseline) (model.Baseline, error)
	GetBaseline(ctx context.Context, userID string) (model.Baseline, error)
}

// BaselineHandler handles baseline requests.
type BaselineHandler struct {
	deps BaselineDependencies
}

// NewBaselineHandler creates a new baseline handler.
func NewBaselineHandler(deps BaselineDependencies) *BaselineHandler {
	return &BaselineHandler{deps: deps}
}

// HandlePutBaseline handles PUT /baselines/{user_id}. Unknown enum labels
// are stored as unspecified rather than rejected.
func (h *BaselineHandler) HandlePutBaseline(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_baseline"
	userID, err := pathParam(r, "user_id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	var b model.Baseline
	if err := decodeBody(w, r, &b, false); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	b.UserID = userID

	stored, err := h.deps.PutBaseline(r.Context(), b)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleGetBaseline handles GET /baselines/{user_id}.
func (h *BaselineHandler) HandleGetBaseline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_baseline"
	userID, err := pathParam(r, "user_id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	b, err := h.deps.GetBaseline(r.Context(), userID)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}
