package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/dukerupert/tourmate/internal/metrics"
	"github.com/dukerupert/tourmate/internal/model"
	"github.com/dukerupert/tourmate/internal/push"
	"github.com/dukerupert/tourmate/internal/store"
	"github.com/dukerupert/tourmate/internal/websocket"
)

// Broadcaster delivers real-time messages to a user's live connections.
type Broadcaster interface {
	SendToUser(userID int64, msg websocket.Message) int
}

// Pusher sends a web push to one subscription.
type Pusher interface {
	Send(sub *model.PushSubscription, payload push.Payload) error
}

// Consumer reads notification events from a watermill subscriber, stores
// them, and fans them out over websocket and web push.
type Consumer struct {
	subscriber    message.Subscriber
	notifications *store.NotificationStore
	subscriptions *store.PushStore
	hub           Broadcaster
	pusher        Pusher
	logger        *slog.Logger
}

// NewConsumer creates a Consumer. pusher may be nil when web push is not
// configured.
func NewConsumer(subscriber message.Subscriber, notifications *store.NotificationStore, subscriptions *store.PushStore, hub Broadcaster, pusher Pusher, logger *slog.Logger) *Consumer {
	return &Consumer{
		subscriber:    subscriber,
		notifications: notifications,
		subscriptions: subscriptions,
		hub:           hub,
		pusher:        pusher,
		logger:        logger,
	}
}

// Start subscribes to the topic and processes messages in a goroutine until
// ctx is cancelled. The returned channel is closed when processing stops.
func (c *Consumer) Start(ctx context.Context) (<-chan struct{}, error) {
	messages, err := c.subscriber.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", Topic, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range messages {
			c.Handle(ctx, msg)
			msg.Ack()
		}
	}()
	return done, nil
}

// Handle processes one message. Delivery failures are logged; the message
// is never redelivered.
func (c *Consumer) Handle(ctx context.Context, msg *message.Message) {
	var ev Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		c.logger.Error("decode notification", "error", err, "message_id", msg.UUID)
		metrics.RecordNotification("unknown", metrics.ResultStoreFailed)
		return
	}

	data := []byte("{}")
	if len(ev.Data) > 0 {
		var err error
		if data, err = json.Marshal(ev.Data); err != nil {
			c.logger.Error("encode notification data", "error", err, "type", ev.Type)
			data = []byte("{}")
		}
	}

	var id int64
	n, err := c.notifications.Create(ctx, ev.UserID, ev.Type, ev.Message, data)
	if err != nil {
		c.logger.Error("store notification", "error", err, "type", ev.Type, "user_id", ev.UserID)
		metrics.RecordNotification(ev.Type, metrics.ResultStoreFailed)
	} else {
		id = n.ID
	}

	c.hub.SendToUser(ev.UserID, websocket.NewMessage("notification", "created", id, map[string]any{
		"notification_type": ev.Type,
		"message":           ev.Message,
		"data":              ev.Data,
	}))

	c.sendPush(ctx, ev)
	metrics.RecordNotification(ev.Type, metrics.ResultDelivered)
}

func (c *Consumer) sendPush(ctx context.Context, ev Event) {
	if c.pusher == nil {
		return
	}
	subs, err := c.subscriptions.ListByUser(ctx, ev.UserID)
	if err != nil {
		c.logger.Error("list push subscriptions", "error", err, "user_id", ev.UserID)
		return
	}

	payload := push.Payload{
		Title: pushTitle(ev.Type),
		Body:  ev.Message,
		URL:   "/notifications",
		Tag:   ev.Type,
	}
	for i := range subs {
		err := c.pusher.Send(&subs[i], payload)
		if errors.Is(err, push.ErrExpired) {
			if err := c.subscriptions.DeleteByEndpoint(ctx, subs[i].Endpoint); err != nil {
				c.logger.Error("delete expired subscription", "error", err, "user_id", ev.UserID)
			}
			continue
		}
		if err != nil {
			c.logger.Warn("send push", "error", err, "user_id", ev.UserID, "subscription_id", subs[i].ID)
		}
	}
}

func pushTitle(typ string) string {
	switch typ {
	case model.NotifTypeFollow:
		return "New follower"
	case model.NotifTypeCalendarShare:
		return "Shared event"
	case model.NotifTypeCalendarShareAccept:
		return "Share accepted"
	default:
		return "TourMate"
	}
}
