package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/tourmate/internal/model"
)

type CalendarStore struct {
	db DBTX
}

func NewCalendarStore(db DBTX) *CalendarStore {
	return &CalendarStore{db: db}
}

const calendarCols = `id, user_id, name, created_at`

func scanCalendar(s scanner) (*model.Calendar, error) {
	var c model.Calendar
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CalendarStore) Create(ctx context.Context, userID int64, name string) (*model.Calendar, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO calendars (user_id, name) VALUES (?, ?)`, userID, name)
	if err != nil {
		return nil, fmt.Errorf("insert calendar: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *CalendarStore) GetByID(ctx context.Context, id int64) (*model.Calendar, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+calendarCols+` FROM calendars WHERE id = ?`, id)
	c, err := scanCalendar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}
	return c, nil
}

func (s *CalendarStore) ListByUser(ctx context.Context, userID int64) ([]model.Calendar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+calendarCols+` FROM calendars WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	defer rows.Close()

	var cals []model.Calendar
	for rows.Next() {
		c, err := scanCalendar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		cals = append(cals, *c)
	}
	return cals, rows.Err()
}

// FirstByUser returns the user's lowest-id calendar, or the highest-id one
// when newest is set.
func (s *CalendarStore) FirstByUser(ctx context.Context, userID int64, newest bool) (*model.Calendar, error) {
	order := "ASC"
	if newest {
		order = "DESC"
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+calendarCols+` FROM calendars WHERE user_id = ? ORDER BY id `+order+` LIMIT 1`, userID)
	c, err := scanCalendar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first calendar: %w", err)
	}
	return c, nil
}

// --- Event methods ---

const eventCols = `id, calendar_id, title, start_time, end_time, location, description, remind_minutes,
	is_shared, shared_from_user_id, shared_from_event_id, created_at, updated_at`

func scanEvent(s scanner) (*model.CalendarEvent, error) {
	var e model.CalendarEvent
	var endTime sql.NullTime
	var location, description sql.NullString
	var remind, fromUser, fromEvent sql.NullInt64
	var shared int

	err := s.Scan(&e.ID, &e.CalendarID, &e.Title, &e.StartTime, &endTime, &location, &description, &remind,
		&shared, &fromUser, &fromEvent, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.StartTime = e.StartTime.UTC()
	if endTime.Valid {
		t := endTime.Time.UTC()
		e.EndTime = &t
	}
	if location.Valid {
		e.Location = &location.String
	}
	if description.Valid {
		e.Description = &description.String
	}
	if remind.Valid {
		m := int(remind.Int64)
		e.RemindMinutes = &m
	}
	e.IsShared = shared != 0
	if fromUser.Valid {
		e.SharedFromUserID = &fromUser.Int64
	}
	if fromEvent.Valid {
		e.SharedFromEventID = &fromEvent.Int64
	}
	return &e, nil
}

// CreateEvent inserts ev into its calendar. ID and timestamps are ignored.
func (s *CalendarStore) CreateEvent(ctx context.Context, ev model.CalendarEvent) (*model.CalendarEvent, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_events
		 (calendar_id, title, start_time, end_time, location, description, remind_minutes,
		  is_shared, shared_from_user_id, shared_from_event_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.CalendarID, ev.Title, ev.StartTime.UTC(), nullTime(ev.EndTime), nullString(ev.Location),
		nullString(ev.Description), nullInt(ev.RemindMinutes), boolInt(ev.IsShared),
		nullInt64(ev.SharedFromUserID), nullInt64(ev.SharedFromEventID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert calendar event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEvent(ctx, id)
}

func (s *CalendarStore) GetEvent(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get calendar event: %w", err)
	}
	return e, nil
}

// ListEvents returns a calendar's events in insertion order, or by start
// time when byStart is set.
func (s *CalendarStore) ListEvents(ctx context.Context, calendarID int64, byStart bool) ([]model.CalendarEvent, error) {
	order := "id ASC"
	if byStart {
		order = "start_time ASC, id ASC"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM calendar_events WHERE calendar_id = ? ORDER BY `+order, calendarID)
	if err != nil {
		return nil, fmt.Errorf("query calendar events: %w", err)
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpdateEvent applies the non-nil fields of f.
func (s *CalendarStore) UpdateEvent(ctx context.Context, id int64, f model.EventFields) (*model.CalendarEvent, error) {
	set := ""
	var args []any
	add := func(col string, v any) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, v)
	}
	if f.Title != nil {
		add("title", *f.Title)
	}
	if f.StartTime != nil {
		add("start_time", f.StartTime.UTC())
	}
	if f.EndTime != nil {
		add("end_time", f.EndTime.UTC())
	}
	if f.Location != nil {
		add("location", *f.Location)
	}
	if f.Description != nil {
		add("description", *f.Description)
	}
	if f.RemindMinutes != nil {
		add("remind_minutes", *f.RemindMinutes)
	}

	if set != "" {
		args = append(args, id)
		if _, err := s.db.ExecContext(ctx, `UPDATE calendar_events SET `+set+` WHERE id = ?`, args...); err != nil {
			return nil, fmt.Errorf("update calendar event: %w", err)
		}
	}
	return s.GetEvent(ctx, id)
}

func (s *CalendarStore) DeleteEvent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM calendar_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

// FindDuplicate returns an event in calendarID whose title, location, start,
// end, description and reminder all equal ev's. NULL matches NULL.
func (s *CalendarStore) FindDuplicate(ctx context.Context, calendarID int64, ev model.CalendarEvent) (*model.CalendarEvent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM calendar_events
		 WHERE calendar_id = ?
		   AND title = ?
		   AND location IS ?
		   AND start_time = ?
		   AND end_time IS ?
		   AND description IS ?
		   AND remind_minutes IS ?
		 ORDER BY id ASC LIMIT 1`,
		calendarID, ev.Title, nullString(ev.Location), ev.StartTime.UTC(), nullTime(ev.EndTime),
		nullString(ev.Description), nullInt(ev.RemindMinutes),
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find duplicate event: %w", err)
	}
	return e, nil
}

// EventOwner returns the user owning the event's calendar, or 0 when the
// event does not exist.
func (s *CalendarStore) EventOwner(ctx context.Context, eventID int64) (int64, error) {
	var owner int64
	err := s.db.QueryRowContext(ctx,
		`SELECT c.user_id FROM calendar_events e JOIN calendars c ON c.id = e.calendar_id WHERE e.id = ?`,
		eventID,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("event owner: %w", err)
	}
	return owner, nil
}
