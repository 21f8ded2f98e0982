// Package apperr defines the error kinds domain services report to the
// HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindAuthorization
	KindPrecondition
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindPrecondition:
		return "precondition"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Error is a classified domain error with a stable code and a reason that is
// safe to show to users.
type Error struct {
	Kind   Kind
	Code   string
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func New(kind Kind, code, reason string) *Error {
	return &Error{Kind: kind, Code: code, Reason: reason}
}

// Invalid returns a KindInvalid error for bad caller input.
func Invalid(reason string) *Error {
	return &Error{Kind: KindInvalid, Code: "invalid_request", Reason: reason}
}

var (
	ErrSelfFollow       = New(KindConflict, "self_follow", "you cannot follow yourself")
	ErrAlreadyFollowing = New(KindConflict, "already_following", "already following this user")
	ErrNotFollowing     = New(KindNotFound, "not_following", "follow relationship does not exist")
	ErrUserNotFound     = New(KindNotFound, "user_not_found", "user not found")

	ErrCalendarNotFound = New(KindNotFound, "calendar_not_found", "calendar not found")
	ErrEventNotFound    = New(KindNotFound, "event_not_found", "event not found")
	ErrNotOwner         = New(KindAuthorization, "not_owner", "you do not own this resource")

	ErrNotMutualFollow = New(KindPrecondition, "not_mutual_follow", "sharing requires following each other")
	ErrNoCalendar      = New(KindPrecondition, "no_calendar", "no calendar to receive the shared event")
	ErrRequestNotFound = New(KindNotFound, "request_not_found", "share request not found")
	ErrAlreadyShared   = New(KindConflict, "already_shared", "this event is already waiting for a response")

	ErrPlaceNotFound        = New(KindNotFound, "place_not_found", "place not found")
	ErrNotificationNotFound = New(KindNotFound, "notification_not_found", "notification not found")
	ErrCommentNotFound      = New(KindNotFound, "comment_not_found", "comment not found")

	ErrEmailTaken         = New(KindConflict, "email_taken", "email or nickname already registered")
	ErrInvalidCredentials = New(KindAuthorization, "invalid_credentials", "invalid email or password")
)

// KindOf classifies err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the boundary responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuthorization:
		return http.StatusForbidden
	case KindPrecondition:
		return http.StatusPreconditionFailed
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
