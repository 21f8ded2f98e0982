package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/tourmate/internal/model"
)

type CommentStore struct {
	db DBTX
}

func NewCommentStore(db DBTX) *CommentStore {
	return &CommentStore{db: db}
}

const commentCols = `c.id, c.place_id, c.user_id, u.nickname, c.content, c.created_at`

func scanComment(s scanner) (*model.PlaceComment, error) {
	var c model.PlaceComment
	if err := s.Scan(&c.ID, &c.PlaceID, &c.UserID, &c.Nickname, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommentStore) Create(ctx context.Context, placeID, userID int64, content string) (*model.PlaceComment, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO place_comments (place_id, user_id, content) VALUES (?, ?, ?)`,
		placeID, userID, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *CommentStore) Get(ctx context.Context, id int64) (*model.PlaceComment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentCols+` FROM place_comments c JOIN users u ON u.id = c.user_id WHERE c.id = ?`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// ListByPlace returns a page of a place's comments, newest first.
func (s *CommentStore) ListByPlace(ctx context.Context, placeID int64, limit, offset int) ([]model.PlaceComment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentCols+` FROM place_comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.place_id = ?
		 ORDER BY c.created_at DESC, c.id DESC
		 LIMIT ? OFFSET ?`,
		placeID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.PlaceComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// Delete removes the comment only when userID wrote it on placeID, and
// reports whether a row went away.
func (s *CommentStore) Delete(ctx context.Context, placeID, id, userID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM place_comments WHERE id = ? AND place_id = ? AND user_id = ?`,
		id, placeID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
