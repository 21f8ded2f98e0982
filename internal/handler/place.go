package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/recommend"
	"github.com/dukerupert/tourmate/internal/store"
)

const maxPlacePage = 100

type PlaceHandler struct {
	places *store.PlaceStore
	engine *recommend.Engine
	logger *slog.Logger
}

func NewPlaceHandler(places *store.PlaceStore, engine *recommend.Engine, logger *slog.Logger) *PlaceHandler {
	return &PlaceHandler{places: places, engine: engine, logger: logger}
}

type placeListResponse struct {
	Places            []recommend.RankedPlace `json:"places"`
	PreferenceSummary *recommend.Summary      `json:"preference_summary"`
}

// List handles GET /api/places. The page is ranked for the caller when they
// have saved preferences.
func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.PlaceFilter{
		TypeCode:      q.Get("type"),
		AddressPrefix: strings.TrimSpace(q.Get("region")),
		Search:        strings.TrimSpace(q.Get("q")),
		Tag:           strings.TrimSpace(q.Get("tag")),
		Sort:          q.Get("sort"),
		Limit:         min(max(queryInt(r, "limit", 10), 1), maxPlacePage),
		Offset:        max(queryInt(r, "offset", 0), 0),
	}

	places, err := h.places.List(r.Context(), f)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ranked, summary, err := h.engine.Rank(r.Context(), auth.UserID(r.Context()), places)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, placeListResponse{Places: ranked, PreferenceSummary: summary})
}

// Get handles GET /api/places/{id}
func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, p)
}

// Scores handles GET /api/places/{id}/scores
func (h *PlaceHandler) Scores(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	exp, err := h.engine.Explain(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}
