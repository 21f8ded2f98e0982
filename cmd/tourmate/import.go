package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dukerupert/tourmate/internal/catalog"
	"github.com/dukerupert/tourmate/internal/database"
	"github.com/dukerupert/tourmate/internal/store"
)

// importPlaces loads a JSON array of places from path into the database at
// dbPath, tagging each with generated hashtags.
func importPlaces(ctx context.Context, dbPath, path string, logger *slog.Logger) (catalog.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return catalog.ImportResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	db, err := database.Open(dbPath)
	if err != nil {
		return catalog.ImportResult{}, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	im := catalog.NewImporter(store.NewPlaceStore(db), logger.With("component", "catalog"))
	return im.Import(ctx, f)
}
