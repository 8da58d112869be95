package service

import (
	"context"
	"log/slog"
	"time"

	"clinic-archive/internal/event"
	"clinic-archive/internal/model"
)

// Notifier delivers user-facing messages to the toast surface of the front-end.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// BusNotifier publishes notifications on the event bus; the websocket hub relays them.
type BusNotifier struct {
	bus event.Bus
}

func NewBusNotifier(bus event.Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) Notify(_ context.Context, notification model.Notification) {
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}

	slog.Debug("notification", "level", notification.Level, "entity_type", notification.EntityType, "message", notification.Message)
	n.bus.Publish(event.Event{
		Type:       event.TypeNotification,
		EntityType: string(notification.EntityType),
		Payload:    notification,
		Timestamp:  notification.Timestamp.Format(time.RFC3339Nano),
	})
}

func notify(ctx context.Context, notifier Notifier, level model.NotificationLevel, entityType model.EntityType, message string) {
	if notifier == nil {
		return
	}
	notifier.Notify(ctx, model.Notification{
		Level:      level,
		Message:    message,
		EntityType: entityType,
		Timestamp:  time.Now().UTC(),
	})
}

func publish(bus event.Bus, eventType event.Type, entityType model.EntityType, actor model.AuditActor, payload any) {
	if bus == nil {
		return
	}
	bus.Publish(event.Event{
		Type:       eventType,
		EntityType: string(entityType),
		Payload:    payload,
		ActorID:    actor.UserID,
	})
}
