package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/metrics"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/notify"
	"github.com/dukerupert/tourmate/internal/store"
)

// ShareResult is the outcome of answering a share request.
type ShareResult struct {
	Request *model.ShareRequest  `json:"request"`
	Event   *model.CalendarEvent `json:"event,omitempty"`
	Reused  bool                 `json:"reused"`
}

// CreateShareRequest proposes copying eventID, owned by requesterID, into
// targetID's calendar. Both users must follow each other.
func (s *Service) CreateShareRequest(ctx context.Context, requesterID, targetID, eventID int64) (*model.ShareRequest, error) {
	mutual, err := s.follows.IsMutual(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return nil, apperr.ErrNotMutualFollow
	}

	if err := s.AuthorizeEvent(ctx, requesterID, eventID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	shares := store.NewShareRequestStore(tx)
	pending, err := shares.HasPending(ctx, requesterID, targetID, eventID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperr.ErrAlreadyShared
	}
	req, err := shares.Create(ctx, requesterID, targetID, eventID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit share request: %w", err)
	}
	metrics.RecordShareTransition(metrics.TransitionCreated)

	s.emitShare(ctx, req)
	return req, nil
}

// RespondShareRequest accepts or rejects a pending request addressed to
// responderID. Answered, missing, and foreign requests all fail with
// ErrRequestNotFound. On accept the origin event is copied into the
// responder's target calendar unless an identical event is already there.
// The status change and the copy commit together.
func (s *Service) RespondShareRequest(ctx context.Context, responderID, requestID int64, accept bool) (*ShareResult, error) {
	status := model.ShareRejected
	if accept {
		status = model.ShareAccepted
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The claim comes first so a concurrent responder blocks here and then
	// finds the row no longer pending.
	req, err := store.NewShareRequestStore(tx).Resolve(ctx, requestID, responderID, status, time.Now())
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.ErrRequestNotFound
	}

	result := &ShareResult{Request: req}
	if accept {
		ev, reused, err := s.copyEvent(ctx, store.NewCalendarStore(tx), req, responderID)
		if err != nil {
			return nil, err
		}
		result.Event = ev
		result.Reused = reused
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit share response: %w", err)
	}

	if !accept {
		metrics.RecordShareTransition(metrics.TransitionRejected)
		return result, nil
	}
	metrics.RecordShareTransition(metrics.TransitionAccepted)
	metrics.RecordSharedCopy(result.Reused)
	s.emitAccepted(ctx, req, result.Event)
	return result, nil
}

func (s *Service) copyEvent(ctx context.Context, calendars *store.CalendarStore, req *model.ShareRequest, responderID int64) (*model.CalendarEvent, bool, error) {
	origin, err := calendars.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, false, err
	}
	if origin == nil {
		return nil, false, apperr.ErrEventNotFound
	}

	target, err := calendars.FirstByUser(ctx, responderID, s.policy == PolicyHighestID)
	if err != nil {
		return nil, false, err
	}
	if target == nil {
		return nil, false, apperr.ErrNoCalendar
	}

	dup, err := calendars.FindDuplicate(ctx, target.ID, *origin)
	if err != nil {
		return nil, false, err
	}
	if dup != nil {
		return dup, true, nil
	}

	fromUser, originID := req.FromUserID, origin.ID
	ev, err := calendars.CreateEvent(ctx, model.CalendarEvent{
		CalendarID:        target.ID,
		Title:             origin.Title,
		StartTime:         origin.StartTime,
		EndTime:           origin.EndTime,
		Location:          origin.Location,
		Description:       origin.Description,
		RemindMinutes:     origin.RemindMinutes,
		IsShared:          true,
		SharedFromUserID:  &fromUser,
		SharedFromEventID: &originID,
	})
	if err != nil {
		return nil, false, err
	}
	return ev, false, nil
}

// ListIncoming returns the pending requests waiting on userID.
func (s *Service) ListIncoming(ctx context.Context, userID int64) ([]model.IncomingShare, error) {
	return s.shares.ListIncoming(ctx, userID)
}

func (s *Service) emitShare(ctx context.Context, req *model.ShareRequest) {
	from, err := s.users.GetByID(ctx, req.FromUserID)
	if err != nil || from == nil {
		s.logger.Warn("share notification skipped", "error", err, "request_id", req.ID)
		return
	}
	ev, err := s.calendars.GetEvent(ctx, req.EventID)
	if err != nil || ev == nil {
		s.logger.Warn("share notification skipped", "error", err, "request_id", req.ID)
		return
	}

	data := map[string]any{
		"request_id":         req.ID,
		"from_user_id":       from.ID,
		"from_user_nickname": from.Nickname,
		"title":              ev.Title,
		"date":               ev.StartTime.Format(time.RFC3339),
	}
	if ev.Location != nil {
		data["location"] = *ev.Location
	}
	s.sink.Emit(ctx, notify.Event{
		UserID:  req.ToUserID,
		Type:    model.NotifTypeCalendarShare,
		Message: fmt.Sprintf("%s shared \"%s\" with you.", from.Nickname, ev.Title),
		Data:    data,
	})
}

func (s *Service) emitAccepted(ctx context.Context, req *model.ShareRequest, ev *model.CalendarEvent) {
	responder, err := s.users.GetByID(ctx, req.ToUserID)
	if err != nil || responder == nil {
		s.logger.Warn("accept notification skipped", "error", err, "request_id", req.ID)
		return
	}
	s.sink.Emit(ctx, notify.Event{
		UserID:  req.FromUserID,
		Type:    model.NotifTypeCalendarShareAccept,
		Message: fmt.Sprintf("%s added \"%s\" to their calendar.", responder.Nickname, ev.Title),
		Data: map[string]any{
			"request_id":  req.ID,
			"to_user_id":  responder.ID,
			"to_nickname": responder.Nickname,
			"title":       ev.Title,
		},
	})
}
