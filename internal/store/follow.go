package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/tourmate/internal/model"
)

type FollowStore struct {
	db DBTX
}

func NewFollowStore(db DBTX) *FollowStore {
	return &FollowStore{db: db}
}

func (s *FollowStore) Create(ctx context.Context, followerID, followingID int64) (*model.Follow, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id) VALUES (?, ?)`,
		followerID, followingID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert follow: %w", err)
	}
	return s.Get(ctx, followerID, followingID)
}

func (s *FollowStore) Get(ctx context.Context, followerID, followingID int64) (*model.Follow, error) {
	var f model.Follow
	err := s.db.QueryRowContext(ctx,
		`SELECT follower_id, following_id, created_at FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID,
	).Scan(&f.FollowerID, &f.FollowingID, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get follow: %w", err)
	}
	return &f, nil
}

// Delete removes the edge and reports whether one existed.
func (s *FollowStore) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID,
	)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// IsMutual reports whether a follows b and b follows a.
func (s *FollowStore) IsMutual(ctx context.Context, a, b int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows
		 WHERE (follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)`,
		a, b, b, a,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check mutual follow: %w", err)
	}
	return n == 2, nil
}

// ListFollowing returns the users userID follows, with their nicknames.
func (s *FollowStore) ListFollowing(ctx context.Context, userID int64) ([]model.FollowEntry, error) {
	return s.list(ctx,
		`SELECT f.follower_id, f.following_id, f.created_at, u.id, u.nickname
		 FROM follows f JOIN users u ON u.id = f.following_id
		 WHERE f.follower_id = ?
		 ORDER BY f.created_at ASC, u.id ASC`,
		userID,
	)
}

// ListFollowers returns the users following userID, with their nicknames.
func (s *FollowStore) ListFollowers(ctx context.Context, userID int64) ([]model.FollowEntry, error) {
	return s.list(ctx,
		`SELECT f.follower_id, f.following_id, f.created_at, u.id, u.nickname
		 FROM follows f JOIN users u ON u.id = f.follower_id
		 WHERE f.following_id = ?
		 ORDER BY f.created_at ASC, u.id ASC`,
		userID,
	)
}

func (s *FollowStore) list(ctx context.Context, query string, userID int64) ([]model.FollowEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	defer rows.Close()

	var entries []model.FollowEntry
	for rows.Next() {
		var e model.FollowEntry
		if err := rows.Scan(&e.FollowerID, &e.FollowingID, &e.CreatedAt, &e.UserID, &e.Nickname); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
