package model

import "time"

type Calendar struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CalendarEvent struct {
	ID                int64      `json:"id"`
	CalendarID        int64      `json:"calendar_id"`
	Title             string     `json:"title"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	Location          *string    `json:"location"`
	Description       *string    `json:"description"`
	RemindMinutes     *int       `json:"remind_minutes"`
	IsShared          bool       `json:"is_shared"`
	SharedFromUserID  *int64     `json:"shared_from_user_id"`
	SharedFromEventID *int64     `json:"shared_from_event_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EventFields holds the user-editable part of an event. On update, nil
// fields are left untouched.
type EventFields struct {
	Title         *string
	StartTime     *time.Time
	EndTime       *time.Time
	Location      *string
	Description   *string
	RemindMinutes *int
}

// ShareStatus values
const (
	SharePending  = "pending"
	ShareAccepted = "accepted"
	ShareRejected = "rejected"
)

type ShareRequest struct {
	ID          int64      `json:"id"`
	FromUserID  int64      `json:"from_user_id"`
	ToUserID    int64      `json:"to_user_id"`
	EventID     int64      `json:"event_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`
}

// IncomingShare is a pending request annotated for the recipient.
type IncomingShare struct {
	ShareRequest
	FromNickname string     `json:"from_nickname"`
	EventTitle   string     `json:"event_title"`
	EventStart   *time.Time `json:"event_start"`
}
