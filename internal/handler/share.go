package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/calendar"
	"github.com/dukerupert/tourmate/internal/model"
)

type ShareHandler struct {
	calendar *calendar.Service
	logger   *slog.Logger
}

func NewShareHandler(svc *calendar.Service, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{calendar: svc, logger: logger}
}

type createShareRequest struct {
	ToUserID int64 `json:"to_user_id" validate:"required,gt=0"`
	EventID  int64 `json:"event_id" validate:"required,gt=0"`
}

type respondShareRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// Create handles POST /api/shares
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	sr, err := h.calendar.CreateShareRequest(r.Context(), auth.UserID(r.Context()), req.ToUserID, req.EventID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

// Incoming handles GET /api/shares/incoming
func (h *ShareHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.calendar.ListIncoming(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if reqs == nil {
		reqs = []model.IncomingShare{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

// Respond handles POST /api/shares/{id}/respond
func (h *ShareHandler) Respond(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req respondShareRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	res, err := h.calendar.RespondShareRequest(r.Context(), auth.UserID(r.Context()), requestID, *req.Accept)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
