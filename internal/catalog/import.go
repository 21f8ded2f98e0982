package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/dukerupert/tourmate/internal/metrics"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/validation"
)

// PlaceWriter persists a place and replaces its tag set.
type PlaceWriter interface {
	Upsert(ctx context.Context, p model.Place) error
}

// Record is one place in an import file.
type Record struct {
	ContentID int64    `json:"content_id" validate:"required,gt=0"`
	Title     string   `json:"title" validate:"required,max=200"`
	Address   string   `json:"address"`
	TypeCode  string   `json:"type_code"`
	Overview  string   `json:"overview"`
	ImageURL  string   `json:"image_url"`
	Tags      []string `json:"tags"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	places PlaceWriter
	logger *slog.Logger
}

func NewImporter(places PlaceWriter, logger *slog.Logger) *Importer {
	return &Importer{places: places, logger: logger}
}

// Import reads a JSON array of records from r and upserts each valid one
// with its given tags merged with generated hashtags. Invalid records are
// logged and skipped; a store failure stops the import.
func (im *Importer) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return res, fmt.Errorf("decode places: %w", err)
	}

	for i, rec := range records {
		if err := validation.Struct(rec); err != nil {
			im.logger.Warn("skipping place record", "index", i, "content_id", rec.ContentID, "error", err)
			metrics.RecordPlaceImport(false)
			res.Skipped++
			continue
		}
		p := model.Place{
			ContentID: rec.ContentID,
			Title:     rec.Title,
			Address:   rec.Address,
			TypeCode:  rec.TypeCode,
			Overview:  rec.Overview,
			ImageURL:  rec.ImageURL,
		}
		p.Tags = MergeTags(rec.Tags, GenerateTags(p))
		if err := im.places.Upsert(ctx, p); err != nil {
			return res, fmt.Errorf("import place %d: %w", rec.ContentID, err)
		}
		metrics.RecordPlaceImport(true)
		res.Imported++
	}

	im.logger.Info("places imported", "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}
