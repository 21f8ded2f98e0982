package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/tourmate/internal/model"
)

type ShareRequestStore struct {
	db DBTX
}

func NewShareRequestStore(db DBTX) *ShareRequestStore {
	return &ShareRequestStore{db: db}
}

const shareCols = `id, from_user_id, to_user_id, event_id, status, created_at, responded_at`

func scanShareRequest(s scanner) (*model.ShareRequest, error) {
	var r model.ShareRequest
	var responded sql.NullTime
	if err := s.Scan(&r.ID, &r.FromUserID, &r.ToUserID, &r.EventID, &r.Status, &r.CreatedAt, &responded); err != nil {
		return nil, err
	}
	if responded.Valid {
		r.RespondedAt = &responded.Time
	}
	return &r, nil
}

func (s *ShareRequestStore) Create(ctx context.Context, fromUserID, toUserID, eventID int64) (*model.ShareRequest, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO share_requests (from_user_id, to_user_id, event_id, status) VALUES (?, ?, ?, ?)`,
		fromUserID, toUserID, eventID, model.SharePending,
	)
	if err != nil {
		return nil, fmt.Errorf("insert share request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ShareRequestStore) GetByID(ctx context.Context, id int64) (*model.ShareRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shareCols+` FROM share_requests WHERE id = ?`, id)
	r, err := scanShareRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get share request: %w", err)
	}
	return r, nil
}

// HasPending reports whether an unanswered request for the same
// (from, to, event) triple exists.
func (s *ShareRequestStore) HasPending(ctx context.Context, fromUserID, toUserID, eventID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM share_requests
		 WHERE from_user_id = ? AND to_user_id = ? AND event_id = ? AND status = ?`,
		fromUserID, toUserID, eventID, model.SharePending,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check pending share: %w", err)
	}
	return n > 0, nil
}

// Resolve moves a pending request addressed to toUserID into status. It is a
// compare-and-set on status: when the request is missing, addressed to
// someone else, or already answered, it returns (nil, nil) and changes nothing.
func (s *ShareRequestStore) Resolve(ctx context.Context, id, toUserID int64, status string, at time.Time) (*model.ShareRequest, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE share_requests SET status = ?, responded_at = ?
		 WHERE id = ? AND to_user_id = ? AND status = ?`,
		status, at.UTC(), id, toUserID, model.SharePending,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve share request: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

// ListIncoming returns pending requests addressed to userID, oldest first.
// Requests whose event was deleted come back with an empty title and no start.
func (s *ShareRequestStore) ListIncoming(ctx context.Context, userID int64) ([]model.IncomingShare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.from_user_id, r.to_user_id, r.event_id, r.status, r.created_at, r.responded_at,
		        u.nickname, COALESCE(e.title, ''), e.start_time
		 FROM share_requests r
		 JOIN users u ON u.id = r.from_user_id
		 LEFT JOIN calendar_events e ON e.id = r.event_id
		 WHERE r.to_user_id = ? AND r.status = ?
		 ORDER BY r.id ASC`,
		userID, model.SharePending,
	)
	if err != nil {
		return nil, fmt.Errorf("list incoming shares: %w", err)
	}
	defer rows.Close()

	var out []model.IncomingShare
	for rows.Next() {
		var in model.IncomingShare
		var responded, start sql.NullTime
		if err := rows.Scan(&in.ID, &in.FromUserID, &in.ToUserID, &in.EventID, &in.Status, &in.CreatedAt, &responded,
			&in.FromNickname, &in.EventTitle, &start); err != nil {
			return nil, fmt.Errorf("scan incoming share: %w", err)
		}
		if responded.Valid {
			in.RespondedAt = &responded.Time
		}
		if start.Valid {
			in.EventStart = &start.Time
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
