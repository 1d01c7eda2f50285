package models

// Chat is a direct room between two users.
type Chat struct {
	Room      string   `json:"room" bson:"room"`
	Users     []string `json:"users" bson:"users"`
	CreatedAt int64    `json:"createdAt" bson:"createdAt"`
}

type Message struct {
	MessageID string `json:"id" bson:"id"`
	Room      string `json:"room" bson:"room"`
	SenderID  string `json:"senderId" bson:"senderId"`
	Content   string `json:"content,omitempty" bson:"content,omitempty"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}
