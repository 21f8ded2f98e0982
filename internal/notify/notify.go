// Package notify decouples notification side effects from the core
// transactions. Services emit events into a Sink; the Dispatcher publishes
// them on a watermill topic and the Consumer persists and delivers them.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/dukerupert/tourmate/internal/metrics"
)

// Topic is the watermill topic notification events travel on.
const Topic = "notifications"

// Event is a notification addressed to one user.
type Event struct {
	UserID  int64          `json:"user_id"`
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Sink accepts notification events. Emit never reports failure to the
// caller; delivery is best effort.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// Discard is a Sink that drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(context.Context, Event) {}

// Dispatcher publishes events to a watermill publisher.
type Dispatcher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewDispatcher(publisher message.Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, logger: logger}
}

func (d *Dispatcher) Emit(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		d.logger.Error("marshal notification", "error", err, "type", ev.Type, "user_id", ev.UserID)
		metrics.RecordNotification(ev.Type, metrics.ResultPublishFailed)
		return
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(context.WithoutCancel(ctx))
	if err := d.publisher.Publish(Topic, msg); err != nil {
		d.logger.Error("publish notification", "error", err, "type", ev.Type, "user_id", ev.UserID)
		metrics.RecordNotification(ev.Type, metrics.ResultPublishFailed)
		return
	}
	metrics.RecordNotification(ev.Type, metrics.ResultPublished)
}
