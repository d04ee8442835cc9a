package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PushSubscriber holds the structure for the push_subscribers collection in
// mongo. BrowserID is a client-generated UUID; Permission mirrors the last
// browser permission the client reported ("granted", "denied", "default").
type PushSubscriber struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	BrowserID    string             `json:"browserId" bson:"browserId"`
	Permission   string             `json:"permission" bson:"permission"`
	Confirmed    bool               `json:"confirmed" bson:"confirmed"`
	SubscribedAt time.Time          `json:"subscribedAt,omitempty" bson:"subscribedAt,omitempty"`
}
