package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/store"
)

type PreferenceHandler struct {
	prefs  *store.PreferenceStore
	logger *slog.Logger
}

func NewPreferenceHandler(prefs *store.PreferenceStore, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, logger: logger}
}

// Get handles GET /api/preferences. A user with nothing saved gets an empty
// object.
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.prefs.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if p == nil {
		writeJSON(w, http.StatusOK, map[string]any{"preferences": map[string]any{}})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Put handles PUT /api/preferences. The body is the attribute bag itself.
func (h *PreferenceHandler) Put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, h.logger, r, apperr.Invalid("request body too large"))
		return
	}
	var bag map[string]any
	if err := json.Unmarshal(body, &bag); err != nil || bag == nil {
		writeError(w, h.logger, r, apperr.Invalid("preferences must be a JSON object"))
		return
	}
	normalized, err := json.Marshal(bag)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	p, err := h.prefs.Upsert(r.Context(), auth.UserID(r.Context()), normalized)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/preferences
func (h *PreferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.prefs.Delete(r.Context(), auth.UserID(r.Context())); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
