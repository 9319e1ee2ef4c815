package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/glowplan/internal/domain/dedupe"
	"github.com/okian/glowplan/internal/domain/model"
)

// IdempotencyHeader names the optional replay key for POST /moments.
const IdempotencyHeader = "Idempotency-Key"

// MomentDependencies creates moments together with their deterministic plan.
type MomentDependencies interface {
	CreateMoment(ctx context.Context, userID, momentType string, modifiers map[string]string) (model.Moment, model.Plan, error)
	GetMoment(ctx context.Context, id string) (model.Moment, error)
	PlanForMoment(ctx context.Context, momentID string) (model.Plan, error)
}

type momentDeps interface {
	dedupe.Deduper
	MomentDependencies
}

// MomentsHandler handles moment requests.
type MomentsHandler struct {
	deps momentDeps
}

// NewMomentsHandler creates a new moments handler.
func NewMomentsHandler(deps momentDeps) *MomentsHandler {
	return &MomentsHandler{deps: deps}
}

// momentRequest mirrors the OpenAPI schema for POST /moments.
type momentRequest struct {
	UserID     string            `json:"user_id"`
	MomentType string            `json:"moment_type"`
	Modifiers  map[string]string `json:"modifiers"`
}

func (m momentRequest) validate() error {
	if strings.TrimSpace(m.UserID) == "" {
		return errors.New("missing user_id")
	}
	return nil
}

// HandlePostMoment handles POST /moments. With an Idempotency-Key header a
// replay returns the moment created by the first request; a replay that
// arrives while the first is still running gets 409.
func (h *MomentsHandler) HandlePostMoment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_moment"
	var req momentRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if key != "" {
		key = req.UserID + ":" + key
		if h.deps.SeenAndRecord(ctx, key) {
			h.replay(w, r, key)
			return
		}
	}

	m, p, err := h.deps.CreateMoment(ctx, req.UserID, req.MomentType, req.Modifiers)
	if err != nil {
		if key != "" {
			h.deps.Unrecord(ctx, key)
		}
		writeKindError(w, Wrap(op, err))
		return
	}
	if key != "" {
		h.deps.Bind(ctx, key, m.ID)
	}
	writeJSON(w, http.StatusCreated, momentResponse{Moment: m, Plan: p})
}

func (h *MomentsHandler) replay(w http.ResponseWriter, r *http.Request, key string) {
	const op = "api.replay_moment"
	ctx := r.Context()
	id, ok := h.deps.Lookup(ctx, key)
	if !ok {
		writeKindError(w, NewKind(op, ErrConflict))
		return
	}
	m, err := h.deps.GetMoment(ctx, id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	p, err := h.deps.PlanForMoment(ctx, id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, momentResponse{Moment: m, Plan: p, Duplicate: true})
}
