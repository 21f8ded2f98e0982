package store

import (
	"context"
	"testing"
)

func TestUserCreate(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	u, err := us.Create(context.Background(), "alice@example.com", "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Nickname != "alice" {
		t.Errorf("nickname = %q, want %q", u.Nickname, "alice")
	}
	if u.PasswordHash != "hash" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "hash")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserCreateDuplicateNickname(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)
	ctx := context.Background()

	if _, err := us.Create(ctx, "a@example.com", "alice", ""); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, "b@example.com", "alice", ""); err == nil {
		t.Fatal("expected error for duplicate nickname, got nil")
	}
	taken, err := us.EmailOrNicknameTaken(ctx, "new@example.com", "alice")
	if err != nil {
		t.Fatalf("taken: %v", err)
	}
	if !taken {
		t.Error("expected nickname to be reported taken")
	}
}

func TestUserGetMissing(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	u, err := us.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u != nil {
		t.Error("expected nil for missing user")
	}
	u, err = us.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u != nil {
		t.Error("expected nil for missing email")
	}
}

func TestUserSearchByNickname(t *testing.T) {
	db := openTestDB(t)
	mustUser(t, db, "traveler")
	mustUser(t, db, "travis")
	mustUser(t, db, "bob")

	users, err := NewUserStore(db).SearchByNickname(context.Background(), "trav", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].Nickname != "traveler" || users[1].Nickname != "travis" {
		t.Errorf("order = %q, %q", users[0].Nickname, users[1].Nickname)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	db := openTestDB(t)
	u := mustUser(t, db, "alice")

	got, err := NewUserStore(db).UpdateProfile(context.Background(), u.ID, "alice2", "Busan")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Nickname != "alice2" || got.Region != "Busan" {
		t.Errorf("got %q/%q", got.Nickname, got.Region)
	}
}
