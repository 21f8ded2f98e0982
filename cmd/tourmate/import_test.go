package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukerupert/tourmate/internal/database"
	"github.com/dukerupert/tourmate/internal/store"
)

func TestImportPlaces(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tourmate.db")
	input := filepath.Join(dir, "places.json")
	body := `[
		{"content_id": 30, "title": "Jagalchi", "address": "부산광역시 중구", "type_code": "39", "overview": "바다 시장 회"},
		{"content_id": 31}
	]`
	if err := os.WriteFile(input, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	res, err := importPlaces(context.Background(), dbPath, input, logger)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 imported 1 skipped", res)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	p, err := store.NewPlaceStore(db).Get(context.Background(), 30)
	if err != nil || p == nil {
		t.Fatalf("get imported place: %v %v", p, err)
	}
	want := map[string]bool{"맛집": true, "음식": true, "바다": true, "시장": true}
	for _, tag := range p.Tags {
		delete(want, tag)
	}
	if len(want) != 0 {
		t.Errorf("tags %v missing %v", p.Tags, want)
	}
}

func TestImportPlacesMissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := importPlaces(context.Background(), filepath.Join(t.TempDir(), "db"), "does-not-exist.json", logger)
	if err == nil {
		t.Error("expected error for missing input file")
	}
}
