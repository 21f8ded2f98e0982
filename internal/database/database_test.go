package database

import (
	"path/filepath"
	"testing"
)

func TestOpenMemoryRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for _, name := range []string{
		"users", "follows", "calendars", "calendar_events", "share_requests",
		"places", "place_tags", "user_preferences", "notifications", "push_subscriptions",
		"favorites", "place_comments",
	} {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", name)
		}
	}
}

func TestOpenCreatesTriggers(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for _, name := range []string{"users_updated_at", "calendar_events_updated_at"} {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'trigger' AND name = ?`, name).Scan(&n)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if n != 1 {
			t.Errorf("trigger %s missing", name)
		}
	}

	// The trigger body must have been applied whole for an update to succeed.
	if _, err := db.Exec(`INSERT INTO users (email, nickname) VALUES ('a@example.com', 'a')`); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.Exec(`UPDATE users SET region = 'Busan' WHERE nickname = 'a'`); err != nil {
		t.Fatalf("update user: %v", err)
	}
}

func TestOpenFileTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tourmate.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (email, nickname) VALUES ('a@example.com', 'a')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("users = %d, want 1 after reopen", n)
	}
}

func TestDSN(t *testing.T) {
	if got := dsn("file.db"); got != "file.db?"+pragmas {
		t.Errorf("dsn = %q", got)
	}
	if got := dsn("file:x?mode=memory"); got != "file:x?mode=memory&"+pragmas {
		t.Errorf("dsn = %q", got)
	}
	if !isMemory(":memory:") || isMemory("tourmate.db") {
		t.Error("isMemory misclassified")
	}
}
