package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/tourmate/internal/model"
)

type PreferenceStore struct {
	db DBTX
}

func NewPreferenceStore(db DBTX) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Upsert creates or replaces the user's preference bag.
func (s *PreferenceStore) Upsert(ctx context.Context, userID int64, prefs json.RawMessage) (*model.UserPreference, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, preferences) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET preferences = excluded.preferences, updated_at = CURRENT_TIMESTAMP`,
		userID, string(prefs),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *PreferenceStore) Get(ctx context.Context, userID int64) (*model.UserPreference, error) {
	var p model.UserPreference
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, preferences, updated_at FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &raw, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	p.Preferences = json.RawMessage(raw)
	return &p, nil
}

func (s *PreferenceStore) Delete(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}
