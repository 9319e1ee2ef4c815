package api

import (
	"context"
	"net/http"

	"github.com/okian/glowplan/internal/domain/model"
	"github.com/okian/glowplan/internal/domain/stylist"
)

// LookDependencies queues stylist jobs and reports their status.
type LookDependencies interface {
	// RequestLook queues a job for momentID. It returns ErrBackpressure
	// when the queue is full and ErrUnavailable when the stylist is off.
	RequestLook(ctx context.Context, momentID string, ref *model.Image) (model.LookJob, error)
	GetJob(ctx context.Context, id string) (model.LookJob, error)
}

// LookHandler handles look and job requests.
type LookHandler struct {
	deps LookDependencies
}

// NewLookHandler creates a new look handler.
func NewLookHandler(deps LookDependencies) *LookHandler {
	return &LookHandler{deps: deps}
}

type lookRequest struct {
	// ReferenceImage is base64 or a data URL.
	ReferenceImage string `json:"reference_image,omitempty"`
}

type lookResponse struct {
	JobID  string          `json:"job_id"`
	Status model.JobStatus `json:"status"`
}

// HandlePostLook handles POST /moments/{id}/look.
func (h *LookHandler) HandlePostLook(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_look"
	momentID, err := pathParam(r, "id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	var req lookRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	var ref *model.Image
	if req.ReferenceImage != "" {
		img, err := stylist.DecodeImage(req.ReferenceImage)
		if err != nil {
			writeKindError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		ref = &img
	}

	job, err := h.deps.RequestLook(r.Context(), momentID, ref)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, lookResponse{JobID: job.ID, Status: job.Status})
}

// HandleGetJob handles GET /jobs/{id}.
func (h *LookHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	id, err := pathParam(r, "id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	j, err := h.deps.GetJob(r.Context(), id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, j)
}
