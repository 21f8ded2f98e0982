// Package social implements the follow graph between users.
package social

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/notify"
	"github.com/dukerupert/tourmate/internal/store"
)

const defaultSearchLimit = 20

type Service struct {
	users   *store.UserStore
	follows *store.FollowStore
	sink    notify.Sink
	logger  *slog.Logger
}

func NewService(db *sql.DB, sink notify.Sink, logger *slog.Logger) *Service {
	return &Service{
		users:   store.NewUserStore(db),
		follows: store.NewFollowStore(db),
		sink:    sink,
		logger:  logger,
	}
}

// Follow creates the edge followerID -> followingID and notifies the
// followed user.
func (s *Service) Follow(ctx context.Context, followerID, followingID int64) (*model.Follow, error) {
	if followerID == followingID {
		return nil, apperr.ErrSelfFollow
	}

	target, err := s.users.GetByID(ctx, followingID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.ErrUserNotFound
	}

	existing, err := s.follows.Get(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrAlreadyFollowing
	}

	f, err := s.follows.Create(ctx, followerID, followingID)
	if err != nil {
		// Lost a race with an identical follow.
		if again, getErr := s.follows.Get(ctx, followerID, followingID); getErr == nil && again != nil {
			return nil, apperr.ErrAlreadyFollowing
		}
		return nil, err
	}

	follower, err := s.users.GetByID(ctx, followerID)
	if err != nil || follower == nil {
		s.logger.Warn("follow notification skipped", "error", err, "follower_id", followerID)
		return f, nil
	}
	s.sink.Emit(ctx, notify.Event{
		UserID:  followingID,
		Type:    model.NotifTypeFollow,
		Message: fmt.Sprintf("%s started following you.", follower.Nickname),
		Data:    map[string]any{"from_user_id": followerID},
	})
	return f, nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID int64) error {
	deleted, err := s.follows.Delete(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotFollowing
	}
	return nil
}

func (s *Service) IsMutual(ctx context.Context, a, b int64) (bool, error) {
	return s.follows.IsMutual(ctx, a, b)
}

func (s *Service) ListFollowing(ctx context.Context, userID int64) ([]model.FollowEntry, error) {
	return s.follows.ListFollowing(ctx, userID)
}

func (s *Service) ListFollowers(ctx context.Context, userID int64) ([]model.FollowEntry, error) {
	return s.follows.ListFollowers(ctx, userID)
}

// SearchByNickname finds users whose nickname contains q, excluding the
// caller.
func (s *Service) SearchByNickname(ctx context.Context, callerID int64, q string) ([]model.User, error) {
	if q == "" {
		return nil, apperr.Invalid("search query is required")
	}
	users, err := s.users.SearchByNickname(ctx, q, defaultSearchLimit+1)
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.ID != callerID {
			out = append(out, u)
		}
	}
	if len(out) > defaultSearchLimit {
		out = out[:defaultSearchLimit]
	}
	return out, nil
}
