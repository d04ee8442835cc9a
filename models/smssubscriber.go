package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SmsSubscriber holds the structure for the sms_subscribers collection in mongo.
// A row exists from the moment a verification code is issued; Verified flips
// once the subscriber proves ownership of the number.
type SmsSubscriber struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	PhoneNumber      string             `json:"phoneNumber" bson:"phoneNumber"`
	VerificationCode string             `json:"-" bson:"verificationCode,omitempty"`
	CodeExpiresAt    time.Time          `json:"-" bson:"codeExpiresAt,omitempty"`
	CodeSentAt       time.Time          `json:"-" bson:"codeSentAt,omitempty"`
	Verified         bool               `json:"verified" bson:"verified"`
	SubscribedAt     time.Time          `json:"subscribedAt,omitempty" bson:"subscribedAt,omitempty"`
}
