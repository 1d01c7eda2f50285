package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"worknest/db"
	"worknest/models"
	"worknest/rdx"
	"worknest/utils"
)

const channel = "notification-events"

// Emit publishes a notification event to Redis instead of writing it
// inline; the worker persists and fans it out.
func Emit(ctx context.Context, n models.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("[Emit] Failed to marshal notification: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish notification: %v", err)
	}
}

// EmitParking emits a parking notification addressed to one user.
func EmitParking(ctx context.Context, userID, text string) {
	Emit(ctx, models.Notification{
		ID:        userID + "-parking-" + utils.ShortUUID(),
		Text:      text,
		UserID:    userID,
		Timestamp: time.Now().UnixMilli(),
		Type:      models.NotificationParking,
	})
}

// EmitSeat emits a seat-booking notification addressed to one user.
func EmitSeat(ctx context.Context, userID, text string) {
	Emit(ctx, models.Notification{
		ID:        userID + "-seat-" + utils.ShortUUID(),
		Text:      text,
		UserID:    userID,
		Timestamp: time.Now().UnixMilli(),
		Type:      models.NotificationSeat,
	})
}

// EmitEvent emits an event notification addressed to one user.
func EmitEvent(ctx context.Context, userID, text string) {
	Emit(ctx, models.Notification{
		ID:        userID + "-event-" + utils.ShortUUID(),
		Text:      text,
		UserID:    userID,
		Timestamp: time.Now().UnixMilli(),
		Type:      models.NotificationEvent,
	})
}

// EmitSystem emits a broadcast notification with no addressee.
func EmitSystem(ctx context.Context, text string) {
	Emit(ctx, models.Notification{
		ID:        "system-" + utils.ShortUUID(),
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		Type:      models.NotificationSystem,
	})
}

// Fanout is anything that can push a payload to a user's live channel.
// The chat hub satisfies it.
type Fanout interface {
	Broadcast(room string, data []byte)
}

// StartNotificationWorker subscribes to the notification channel,
// persists each event, and pushes it to the addressee's live room.
func StartNotificationWorker(fanout Fanout) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for notification events...")

	for msg := range ch {
		var n models.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			log.Printf("[NotificationWorker] Failed to parse event: %v", err)
			continue
		}

		if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
			log.Printf("[NotificationWorker] Insert error: %v", err)
			continue
		}

		if fanout != nil && n.UserID != "" {
			data, _ := json.Marshal(n)
			fanout.Broadcast("notify:"+n.UserID, data)
		}
	}
}
