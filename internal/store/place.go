package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/tourmate/internal/model"
)

// PlaceStore is the read side of the tourism catalog plus the upsert used by
// imports.
type PlaceStore struct {
	db *sql.DB
}

func NewPlaceStore(db *sql.DB) *PlaceStore {
	return &PlaceStore{db: db}
}

const placeCols = `p.content_id, p.title, p.address, p.type_code, p.overview, p.image_url, p.created_at, p.updated_at`

func scanPlace(s scanner) (*model.Place, error) {
	var p model.Place
	err := s.Scan(&p.ContentID, &p.Title, &p.Address, &p.TypeCode, &p.Overview, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts or replaces a place and its tag set.
func (s *PlaceStore) Upsert(ctx context.Context, p model.Place) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO places (content_id, title, address, type_code, overview, image_url)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(content_id) DO UPDATE SET title = excluded.title, address = excluded.address,
		   type_code = excluded.type_code, overview = excluded.overview, image_url = excluded.image_url,
		   updated_at = CURRENT_TIMESTAMP`,
		p.ContentID, p.Title, p.Address, p.TypeCode, p.Overview, p.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("upsert place: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM place_tags WHERE place_id = ?`, p.ContentID); err != nil {
		return fmt.Errorf("clear place tags: %w", err)
	}
	for _, tag := range p.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO place_tags (place_id, tag) VALUES (?, ?)`, p.ContentID, tag); err != nil {
			return fmt.Errorf("insert place tag: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PlaceStore) Get(ctx context.Context, contentID int64) (*model.Place, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+placeCols+` FROM places p WHERE p.content_id = ?`, contentID)
	p, err := scanPlace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}
	tags, err := s.tags(ctx, []int64{p.ContentID})
	if err != nil {
		return nil, err
	}
	p.Tags = tags[p.ContentID]
	return p, nil
}

// List applies f and returns the matching page of places with tags loaded.
func (s *PlaceStore) List(ctx context.Context, f model.PlaceFilter) ([]model.Place, error) {
	var where []string
	var args []any
	if f.TypeCode != "" {
		where = append(where, "p.type_code = ?")
		args = append(args, f.TypeCode)
	}
	if f.AddressPrefix != "" {
		where = append(where, "p.address LIKE ? || '%'")
		args = append(args, f.AddressPrefix)
	}
	if f.Search != "" {
		where = append(where, "(p.title LIKE '%' || ? || '%' OR p.overview LIKE '%' || ? || '%')")
		args = append(args, f.Search, f.Search)
	}
	if f.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM place_tags t WHERE t.place_id = p.content_id AND t.tag LIKE '%' || ? || '%')")
		args = append(args, f.Tag)
	}

	query := `SELECT ` + placeCols + ` FROM places p`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	// Places with an image first, like the catalog pages.
	switch f.Sort {
	case "updated":
		query += ` ORDER BY (p.image_url <> '') DESC, p.updated_at DESC, p.content_id DESC`
	case "created":
		query += ` ORDER BY (p.image_url <> '') DESC, p.created_at ASC, p.content_id ASC`
	default:
		query += ` ORDER BY (p.image_url <> '') DESC, p.content_id DESC`
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	var places []model.Place
	var ids []int64
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, *p)
		ids = append(ids, p.ContentID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags, err := s.tags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range places {
		places[i].Tags = tags[places[i].ContentID]
	}
	return places, nil
}

func (s *PlaceStore) tags(ctx context.Context, ids []int64) (map[int64][]string, error) {
	return placeTags(ctx, s.db, ids)
}

// placeTags loads the tag sets for ids, keyed by place.
func placeTags(ctx context.Context, db DBTX, ids []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := db.QueryContext(ctx,
		`SELECT place_id, tag FROM place_tags WHERE place_id IN (`+placeholders+`) ORDER BY place_id, tag`, args...)
	if err != nil {
		return nil, fmt.Errorf("query place tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scan place tag: %w", err)
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}
