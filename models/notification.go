package models

type NotificationType string

const (
	NotificationParking NotificationType = "parking"
	NotificationSeat    NotificationType = "seat"
	NotificationEvent   NotificationType = "event"
	NotificationSystem  NotificationType = "system"
)

type Notification struct {
	ID        string           `json:"id" bson:"id"`
	Read      bool             `json:"read" bson:"read"`
	Text      string           `json:"text" bson:"text"`
	UserID    string           `json:"userId" bson:"userId"`
	Timestamp int64            `json:"timestamp" bson:"timestamp"`
	Type      NotificationType `json:"type" bson:"type"`
}
