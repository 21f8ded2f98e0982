package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/dukerupert/tourmate/internal/database"
	"github.com/dukerupert/tourmate/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUser(t *testing.T, db *sql.DB, nickname string) *model.User {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), fmt.Sprintf("%s@example.com", nickname), nickname, "")
	if err != nil {
		t.Fatalf("create user %s: %v", nickname, err)
	}
	return u
}

func mustCalendar(t *testing.T, db *sql.DB, userID int64) *model.Calendar {
	t.Helper()
	c, err := NewCalendarStore(db).Create(context.Background(), userID, "default")
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}
	return c
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
