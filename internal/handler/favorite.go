package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/store"
)

type FavoriteHandler struct {
	places    *store.PlaceStore
	favorites *store.FavoriteStore
	logger    *slog.Logger
}

func NewFavoriteHandler(places *store.PlaceStore, favorites *store.FavoriteStore, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{places: places, favorites: favorites, logger: logger}
}

// Toggle handles POST /api/favorites/places/{id}
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.places.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if p == nil {
		writeError(w, h.logger, r, apperr.ErrPlaceNotFound)
		return
	}
	liked, err := h.favorites.Toggle(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// List handles GET /api/favorites/places
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.favorites.ListPlaces(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if places == nil {
		places = []model.Place{}
	}
	writeJSON(w, http.StatusOK, places)
}

// IDs handles GET /api/favorites/places/ids
func (h *FavoriteHandler) IDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favorites.PlaceIDs(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, ids)
}
