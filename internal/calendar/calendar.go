// Package calendar owns calendars, their events, and the share request
// workflow that copies an event between mutually following users.
package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/notify"
	"github.com/dukerupert/tourmate/internal/store"
)

// TargetPolicy picks which of a user's calendars receives an accepted share.
type TargetPolicy string

const (
	PolicyLowestID  TargetPolicy = "lowest_id"
	PolicyHighestID TargetPolicy = "highest_id"
)

// ParseTargetPolicy returns the policy named by s. Empty means lowest id.
func ParseTargetPolicy(s string) (TargetPolicy, error) {
	switch TargetPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLowestID:
		return PolicyLowestID, nil
	case PolicyHighestID:
		return PolicyHighestID, nil
	default:
		return "", fmt.Errorf("unknown calendar target policy %q", s)
	}
}

const defaultCalendarName = "My calendar"

type Service struct {
	db        *sql.DB
	calendars *store.CalendarStore
	follows   *store.FollowStore
	users     *store.UserStore
	shares    *store.ShareRequestStore
	policy    TargetPolicy
	sink      notify.Sink
	logger    *slog.Logger
}

func NewService(db *sql.DB, policy TargetPolicy, sink notify.Sink, logger *slog.Logger) *Service {
	if policy == "" {
		policy = PolicyLowestID
	}
	return &Service{
		db:        db,
		calendars: store.NewCalendarStore(db),
		follows:   store.NewFollowStore(db),
		users:     store.NewUserStore(db),
		shares:    store.NewShareRequestStore(db),
		policy:    policy,
		sink:      sink,
		logger:    logger,
	}
}

func (s *Service) CreateCalendar(ctx context.Context, userID int64, name string) (*model.Calendar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultCalendarName
	}
	return s.calendars.Create(ctx, userID, name)
}

func (s *Service) ListCalendars(ctx context.Context, userID int64) ([]model.Calendar, error) {
	return s.calendars.ListByUser(ctx, userID)
}

// AuthorizeCalendar returns the calendar if userID owns it.
func (s *Service) AuthorizeCalendar(ctx context.Context, userID, calendarID int64) (*model.Calendar, error) {
	cal, err := s.calendars.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, apperr.ErrCalendarNotFound
	}
	if cal.UserID != userID {
		return nil, apperr.ErrNotOwner
	}
	return cal, nil
}

// AuthorizeEvent checks that the event's calendar belongs to userID.
func (s *Service) AuthorizeEvent(ctx context.Context, userID, eventID int64) error {
	owner, err := s.calendars.EventOwner(ctx, eventID)
	if err != nil {
		return err
	}
	if owner == 0 {
		return apperr.ErrEventNotFound
	}
	if owner != userID {
		return apperr.ErrNotOwner
	}
	return nil
}

// CreateEvent adds an event to calendarID. Overlapping events are allowed.
func (s *Service) CreateEvent(ctx context.Context, calendarID int64, f model.EventFields) (*model.CalendarEvent, error) {
	if f.Title == nil || strings.TrimSpace(*f.Title) == "" {
		return nil, apperr.Invalid("title is required")
	}
	if f.StartTime == nil {
		return nil, apperr.Invalid("start_time is required")
	}
	cal, err := s.calendars.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, apperr.ErrCalendarNotFound
	}

	return s.calendars.CreateEvent(ctx, model.CalendarEvent{
		CalendarID:    calendarID,
		Title:         strings.TrimSpace(*f.Title),
		StartTime:     *f.StartTime,
		EndTime:       f.EndTime,
		Location:      f.Location,
		Description:   f.Description,
		RemindMinutes: f.RemindMinutes,
	})
}

// UpdateEvent applies only the fields set in f.
func (s *Service) UpdateEvent(ctx context.Context, eventID int64, f model.EventFields) (*model.CalendarEvent, error) {
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return nil, apperr.Invalid("title cannot be empty")
	}
	existing, err := s.calendars.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.ErrEventNotFound
	}
	return s.calendars.UpdateEvent(ctx, eventID, f)
}

func (s *Service) DeleteEvent(ctx context.Context, eventID int64) error {
	existing, err := s.calendars.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrEventNotFound
	}
	return s.calendars.DeleteEvent(ctx, eventID)
}

// GetEvents lists a calendar's events in insertion order, or by start time
// when byStart is set.
func (s *Service) GetEvents(ctx context.Context, calendarID int64, byStart bool) ([]model.CalendarEvent, error) {
	cal, err := s.calendars.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, apperr.ErrCalendarNotFound
	}
	return s.calendars.ListEvents(ctx, calendarID, byStart)
}
