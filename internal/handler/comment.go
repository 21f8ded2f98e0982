package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/store"
)

const (
	maxCommentPage   = 100
	minCommentLength = 2
)

type CommentHandler struct {
	places   *store.PlaceStore
	comments *store.CommentStore
	logger   *slog.Logger
}

func NewCommentHandler(places *store.PlaceStore, comments *store.CommentStore, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{places: places, comments: comments, logger: logger}
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// List handles GET /api/places/{id}/comments. An unknown place has no
// comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	placeID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	limit := min(max(queryInt(r, "limit", 50), 1), maxCommentPage)
	offset := max(queryInt(r, "offset", 0), 0)

	comments, err := h.comments.ListByPlace(r.Context(), placeID, limit, offset)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if comments == nil {
		comments = []model.PlaceComment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Create handles POST /api/places/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	placeID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req createCommentRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if utf8.RuneCountInString(content) < minCommentLength {
		writeError(w, h.logger, r, apperr.Invalid("content must be at least 2 characters"))
		return
	}

	p, err := h.places.Get(r.Context(), placeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if p == nil {
		writeError(w, h.logger, r, apperr.ErrPlaceNotFound)
		return
	}

	c, err := h.comments.Create(r.Context(), placeID, auth.UserID(r.Context()), content)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Delete handles DELETE /api/places/{id}/comments/{comment_id}. Only the
// author can delete; anyone else sees 404.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	placeID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	commentID, err := parseIDParam(r, "comment_id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ok, err := h.comments.Delete(r.Context(), placeID, commentID, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if !ok {
		writeError(w, h.logger, r, apperr.ErrCommentNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
