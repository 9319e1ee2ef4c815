package api

import (
	"net/http"

	"github.com/okian/glowplan/internal/domain/model"
)

const defaultHistoryLimit = 20

// HistoryHandler handles history requests.
type HistoryHandler struct {
	deps     PlanDependencies
	maxLimit int
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps PlanDependencies, maxLimit int) *HistoryHandler {
	if maxLimit < 1 {
		maxLimit = defaultHistoryLimit
	}
	return &HistoryHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type historyResponse struct {
	UserID string       `json:"user_id"`
	Plans  []model.Plan `json:"plans"`
}

// HandleGetHistory handles GET /history/{user_id}?limit=N. Plans are newest
// first.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	userID, err := pathParam(r, "user_id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	n, err := parseLimit(r, defaultHistoryLimit, h.maxLimit)
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	plans, err := h.deps.History(r.Context(), userID, n)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{UserID: userID, Plans: plans})
}
