package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user profile document in MongoDB. Identity itself
// (credential issuance, password checks) lives with the external
// identity provider; UID is the stable key it hands us and never
// changes once issued.
type User struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UID         string             `json:"uid" bson:"uid"`
	Email       string             `json:"email" bson:"email"`
	Username    string             `json:"username" bson:"username"`
	DisplayName string             `json:"displayName" bson:"display_name"`
	AvatarURL   string             `json:"avatarUrl" bson:"avatar_url"`
	Status      string             `json:"status" bson:"status"`
	IsOnline    bool               `json:"isOnline" bson:"is_online"`
	LastSeen    time.Time          `json:"lastSeen" bson:"last_seen"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
}
