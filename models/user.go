package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	DisplayName   string    `json:"displayName" bson:"displayName"`
	Color         string    `json:"color" bson:"color"`
	Role          []string  `json:"role" bson:"role"`
	CarURL        string    `json:"carUrl,omitempty" bson:"carUrl,omitempty"`
	PhotoURL      string    `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Online        bool      `json:"online" bson:"online"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	LastLogin     time.Time `json:"last_login" bson:"last_login"`
	RefreshToken  string    `json:"-" bson:"refreshtoken,omitempty"`
	RefreshExpiry time.Time `json:"refreshexp" bson:"refreshexp"`
}

// UserSummary is the public shape returned to other users.
type UserSummary struct {
	UserID      string `json:"userid" bson:"userid"`
	Username    string `json:"username" bson:"username"`
	DisplayName string `json:"displayName" bson:"displayName"`
	Color       string `json:"color" bson:"color"`
	CarURL      string `json:"carUrl,omitempty" bson:"carUrl,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Online      bool   `json:"online" bson:"online"`
}
