package models

// Event is a map marker with an optional date: lunch spots, team meetups,
// office announcements pinned to a location.
type Event struct {
	ID        string   `json:"id" bson:"id"`
	Lat       float64  `json:"lat" bson:"lat"`
	Lon       float64  `json:"lon" bson:"lon"`
	Title     string   `json:"title" bson:"title"`
	Comment   string   `json:"comment" bson:"comment"`
	Type      string   `json:"type" bson:"type"`
	CreatedAt int64    `json:"createdAt" bson:"createdAt"`
	EventDate int64    `json:"eventDate,omitempty" bson:"eventDate,omitempty"`
	Likes     []string `json:"likes" bson:"likes"`
	Invited   []string `json:"invited,omitempty" bson:"invited,omitempty"`
	AuthorID  string   `json:"authorId" bson:"authorId"`
}
