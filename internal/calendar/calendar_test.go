package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/database"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/notify"
	"github.com/dukerupert/tourmate/internal/store"
)

type recordingSink struct {
	events []notify.Event
}

func (r *recordingSink) Emit(_ context.Context, ev notify.Event) {
	r.events = append(r.events, ev)
}

func (r *recordingSink) ofType(typ string) []notify.Event {
	var out []notify.Event
	for _, ev := range r.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	db       *sql.DB
	svc      *Service
	sink     *recordingSink
	alice    *model.User
	bob      *model.User
	aliceCal *model.Calendar
	bobCal   *model.Calendar
}

func newFixture(t *testing.T, dbPath string) *fixture {
	t.Helper()
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sink := &recordingSink{}
	f := &fixture{db: db, sink: sink, svc: NewService(db, PolicyLowestID, sink, slog.Default())}
	f.alice = mustUser(t, db, "alice")
	f.bob = mustUser(t, db, "bob")
	f.aliceCal = f.mustCalendar(t, f.alice.ID)
	f.bobCal = f.mustCalendar(t, f.bob.ID)
	return f
}

func setup(t *testing.T) *fixture {
	t.Helper()
	return newFixture(t, ":memory:")
}

func mustUser(t *testing.T, db *sql.DB, nickname string) *model.User {
	t.Helper()
	u, err := store.NewUserStore(db).Create(context.Background(), fmt.Sprintf("%s@example.com", nickname), nickname, "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) mustCalendar(t *testing.T, userID int64) *model.Calendar {
	t.Helper()
	c, err := f.svc.CreateCalendar(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}
	return c
}

func (f *fixture) follow(t *testing.T, from, to int64) {
	t.Helper()
	if _, err := store.NewFollowStore(f.db).Create(context.Background(), from, to); err != nil {
		t.Fatalf("follow: %v", err)
	}
}

func (f *fixture) mutual(t *testing.T) {
	t.Helper()
	f.follow(t, f.alice.ID, f.bob.ID)
	f.follow(t, f.bob.ID, f.alice.ID)
}

func (f *fixture) mustEvent(t *testing.T, calendarID int64, title string) *model.CalendarEvent {
	t.Helper()
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	ev, err := f.svc.CreateEvent(context.Background(), calendarID, model.EventFields{
		Title:         &title,
		StartTime:     &start,
		EndTime:       &end,
		Location:      strPtr("Gwangalli Beach"),
		RemindMinutes: intPtr(30),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return ev
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateCalendarDefaultName(t *testing.T) {
	f := setup(t)
	if f.aliceCal.Name != defaultCalendarName {
		t.Errorf("name = %q, want %q", f.aliceCal.Name, defaultCalendarName)
	}
	cals, err := f.svc.ListCalendars(context.Background(), f.alice.ID)
	if err != nil {
		t.Fatalf("list calendars: %v", err)
	}
	if len(cals) != 1 {
		t.Errorf("expected 1 calendar, got %d", len(cals))
	}
}

func TestCreateEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ev := f.mustEvent(t, f.aliceCal.ID, "Fireworks")
	if ev.CalendarID != f.aliceCal.ID || ev.Title != "Fireworks" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Description != nil {
		t.Errorf("description = %v, want nil", *ev.Description)
	}

	title := "Ghost"
	start := time.Now()
	_, err := f.svc.CreateEvent(ctx, 9999, model.EventFields{Title: &title, StartTime: &start})
	if !errors.Is(err, apperr.ErrCalendarNotFound) {
		t.Errorf("missing calendar err = %v", err)
	}

	_, err = f.svc.CreateEvent(ctx, f.aliceCal.ID, model.EventFields{StartTime: &start})
	if apperr.KindOf(err) != apperr.KindInvalid {
		t.Errorf("missing title err = %v", err)
	}
}

func TestOverlappingEventsAllowed(t *testing.T) {
	f := setup(t)
	f.mustEvent(t, f.aliceCal.ID, "Dinner")
	f.mustEvent(t, f.aliceCal.ID, "Concert")

	events, err := f.svc.GetEvents(context.Background(), f.aliceCal.ID, false)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
}

func TestUpdateEventPartial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ev := f.mustEvent(t, f.aliceCal.ID, "Fireworks")

	updated, err := f.svc.UpdateEvent(ctx, ev.ID, model.EventFields{Description: strPtr("bring a mat")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Fireworks" {
		t.Errorf("title = %q, should be untouched", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "bring a mat" {
		t.Errorf("description = %v", updated.Description)
	}
	if updated.Location == nil || *updated.Location != "Gwangalli Beach" {
		t.Errorf("location = %v, should be untouched", updated.Location)
	}

	_, err = f.svc.UpdateEvent(ctx, 9999, model.EventFields{Title: strPtr("x")})
	if !errors.Is(err, apperr.ErrEventNotFound) {
		t.Errorf("missing event err = %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ev := f.mustEvent(t, f.aliceCal.ID, "Fireworks")

	if err := f.svc.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.DeleteEvent(ctx, ev.ID); !errors.Is(err, apperr.ErrEventNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestGetEventsOrdering(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	late := time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)
	early := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	f.svc.CreateEvent(ctx, f.aliceCal.ID, model.EventFields{Title: strPtr("late"), StartTime: &late})
	f.svc.CreateEvent(ctx, f.aliceCal.ID, model.EventFields{Title: strPtr("early"), StartTime: &early})

	byInsert, err := f.svc.GetEvents(ctx, f.aliceCal.ID, false)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if byInsert[0].Title != "late" || byInsert[1].Title != "early" {
		t.Errorf("insertion order = %q, %q", byInsert[0].Title, byInsert[1].Title)
	}

	byStart, _ := f.svc.GetEvents(ctx, f.aliceCal.ID, true)
	if byStart[0].Title != "early" {
		t.Errorf("start order first = %q", byStart[0].Title)
	}

	if _, err := f.svc.GetEvents(ctx, 9999, false); !errors.Is(err, apperr.ErrCalendarNotFound) {
		t.Errorf("missing calendar err = %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ev := f.mustEvent(t, f.aliceCal.ID, "Fireworks")

	if err := f.svc.AuthorizeEvent(ctx, f.alice.ID, ev.ID); err != nil {
		t.Errorf("owner rejected: %v", err)
	}
	if err := f.svc.AuthorizeEvent(ctx, f.bob.ID, ev.ID); !errors.Is(err, apperr.ErrNotOwner) {
		t.Errorf("cross-user event err = %v", err)
	}
	if err := f.svc.AuthorizeEvent(ctx, f.alice.ID, 9999); !errors.Is(err, apperr.ErrEventNotFound) {
		t.Errorf("missing event err = %v", err)
	}
	if _, err := f.svc.AuthorizeCalendar(ctx, f.bob.ID, f.aliceCal.ID); !errors.Is(err, apperr.ErrNotOwner) {
		t.Errorf("cross-user calendar err = %v", err)
	}
	if _, err := f.svc.AuthorizeCalendar(ctx, f.alice.ID, f.aliceCal.ID); err != nil {
		t.Errorf("owner calendar rejected: %v", err)
	}
}

func TestParseTargetPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    TargetPolicy
		wantErr bool
	}{
		{"", PolicyLowestID, false},
		{"lowest_id", PolicyLowestID, false},
		{"HIGHEST_ID", PolicyHighestID, false},
		{"newest", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTargetPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTargetPolicy(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseTargetPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
