package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/social"
)

type FollowHandler struct {
	social *social.Service
	logger *slog.Logger
}

func NewFollowHandler(svc *social.Service, logger *slog.Logger) *FollowHandler {
	return &FollowHandler{social: svc, logger: logger}
}

// Follow handles POST /api/follows/{id}
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	targetID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	f, err := h.social.Follow(r.Context(), auth.UserID(r.Context()), targetID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// Unfollow handles DELETE /api/follows/{id}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.social.Unfollow(r.Context(), auth.UserID(r.Context()), targetID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Following handles GET /api/follows/following
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	entries, err := h.social.ListFollowing(r.Context(), auth.UserID(r.Context()))
	h.writeEntries(w, r, entries, err)
}

// Followers handles GET /api/follows/followers
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.social.ListFollowers(r.Context(), auth.UserID(r.Context()))
	h.writeEntries(w, r, entries, err)
}

func (h *FollowHandler) writeEntries(w http.ResponseWriter, r *http.Request, entries []model.FollowEntry, err error) {
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if entries == nil {
		entries = []model.FollowEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Mutual handles GET /api/follows/mutual/{id}
func (h *FollowHandler) Mutual(w http.ResponseWriter, r *http.Request) {
	otherID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	mutual, err := h.social.IsMutual(r.Context(), auth.UserID(r.Context()), otherID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"mutual": mutual})
}

type userSummary struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Region   string `json:"region"`
}

// Search handles GET /api/users/search?q=
func (h *FollowHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.social.SearchByNickname(r.Context(), auth.UserID(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{ID: u.ID, Nickname: u.Nickname, Region: u.Region})
	}
	writeJSON(w, http.StatusOK, out)
}
