package store

import (
	"context"
	"fmt"

	"github.com/dukerupert/tourmate/internal/model"
)

type FavoriteStore struct {
	db DBTX
}

func NewFavoriteStore(db DBTX) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Toggle flips the favorite mark on a place and reports whether the place
// is now liked.
func (s *FavoriteStore) Toggle(ctx context.Context, userID, placeID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND place_id = ?`, userID, placeID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, place_id) VALUES (?, ?)`, userID, placeID)
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}
	return true, nil
}

// ListPlaces returns the user's favorite places, most recently liked first.
func (s *FavoriteStore) ListPlaces(ctx context.Context, userID int64) ([]model.Place, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+placeCols+` FROM favorites f
		 JOIN places p ON p.content_id = f.place_id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, f.rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var places []model.Place
	var ids []int64
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		places = append(places, *p)
		ids = append(ids, p.ContentID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags, err := placeTags(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range places {
		places[i].Tags = tags[places[i].ContentID]
	}
	return places, nil
}

// PlaceIDs returns the ids of every place the user has liked.
func (s *FavoriteStore) PlaceIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT place_id FROM favorites WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
