package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/glowplan/internal/domain/model"
)

// maxTagImages bounds a single tagging request.
const maxTagImages = 20

// TagOutcome reports one image of a tagging request.
type TagOutcome struct {
	Index int                 `json:"index"`
	Item  *model.WardrobeItem `json:"item,omitempty"`
	Error string              `json:"error,omitempty"`
}

// WardrobeDependencies tags garment photos and lists stored items.
type WardrobeDependencies interface {
	// TagWardrobe tags each encoded image and stores the successes. Per-image
	// failures are reported in the outcomes, not as an error.
	TagWardrobe(ctx context.Context, userID string, images []string) ([]TagOutcome, error)
	Wardrobe(ctx context.Context, userID string) ([]model.WardrobeItem, error)
}

// WardrobeHandler handles wardrobe requests.
type WardrobeHandler struct {
	deps WardrobeDependencies
}

// NewWardrobeHandler creates a new wardrobe handler.
func NewWardrobeHandler(deps WardrobeDependencies) *WardrobeHandler {
	return &WardrobeHandler{deps: deps}
}

type tagRequest struct {
	Images []string `json:"images"`
}

type tagResponse struct {
	UserID  string       `json:"user_id"`
	Results []TagOutcome `json:"results"`
}

type wardrobeResponse struct {
	UserID string               `json:"user_id"`
	Items  []model.WardrobeItem `json:"items"`
}

// HandleTag handles POST /wardrobe/{user_id}/tag.
func (h *WardrobeHandler) HandleTag(w http.ResponseWriter, r *http.Request) {
	const op = "api.tag_wardrobe"
	userID, err := pathParam(r, "user_id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	var req tagRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	switch {
	case len(req.Images) == 0:
		writeKindError(w, WrapKind(op, ErrBadRequest, errors.New("no images")))
		return
	case len(req.Images) > maxTagImages:
		writeKindError(w, WrapKind(op, ErrBadRequest, errors.New("too many images")))
		return
	}

	results, err := h.deps.TagWardrobe(r.Context(), userID, req.Images)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tagResponse{UserID: userID, Results: results})
}

// HandleList handles GET /wardrobe/{user_id}.
func (h *WardrobeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_wardrobe"
	userID, err := pathParam(r, "user_id")
	if err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	items, err := h.deps.Wardrobe(r.Context(), userID)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	if items == nil {
		items = []model.WardrobeItem{}
	}
	writeJSON(w, http.StatusOK, wardrobeResponse{UserID: userID, Items: items})
}
