package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/calendar"
	"github.com/dukerupert/tourmate/internal/model"
)

type CalendarHandler struct {
	calendar *calendar.Service
	logger   *slog.Logger
}

func NewCalendarHandler(svc *calendar.Service, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{calendar: svc, logger: logger}
}

type createCalendarRequest struct {
	Name string `json:"name" validate:"max=100"`
}

// eventRequest is shared by create and update. Update treats absent fields
// as unchanged.
type eventRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=200"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Location      *string    `json:"location" validate:"omitempty,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	RemindMinutes *int       `json:"remind_minutes" validate:"omitempty,min=0,max=10080"`
}

func (req eventRequest) fields() (model.EventFields, error) {
	if req.StartTime != nil && req.EndTime != nil && req.EndTime.Before(*req.StartTime) {
		return model.EventFields{}, apperr.Invalid("end_time must not be before start_time")
	}
	return model.EventFields{
		Title:         req.Title,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		Description:   req.Description,
		RemindMinutes: req.RemindMinutes,
	}, nil
}

// ListCalendars handles GET /api/calendars
func (h *CalendarHandler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	cals, err := h.calendar.ListCalendars(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if cals == nil {
		cals = []model.Calendar{}
	}
	writeJSON(w, http.StatusOK, cals)
}

// CreateCalendar handles POST /api/calendars
func (h *CalendarHandler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var req createCalendarRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	cal, err := h.calendar.CreateCalendar(r.Context(), auth.UserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cal)
}

// ListEvents handles GET /api/calendars/{id}/events
func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	calID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ctx := r.Context()
	if _, err := h.calendar.AuthorizeCalendar(ctx, auth.UserID(ctx), calID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	events, err := h.calendar.GetEvents(ctx, calID, r.URL.Query().Get("sort") == "start")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if events == nil {
		events = []model.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/calendars/{id}/events
func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	calID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req eventRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	f, err := req.fields()
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	ctx := r.Context()
	if _, err := h.calendar.AuthorizeCalendar(ctx, auth.UserID(ctx), calID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ev, err := h.calendar.CreateEvent(ctx, calID, f)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// UpdateEvent handles PUT /api/events/{id}
func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req eventRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	f, err := req.fields()
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	ctx := r.Context()
	if err := h.calendar.AuthorizeEvent(ctx, auth.UserID(ctx), eventID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ev, err := h.calendar.UpdateEvent(ctx, eventID, f)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ctx := r.Context()
	if err := h.calendar.AuthorizeEvent(ctx, auth.UserID(ctx), eventID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.calendar.DeleteEvent(ctx, eventID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
