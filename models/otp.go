package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpChallenge holds the structure for the otpChallenges collection in mongo.
// The code itself is never stored, only its bcrypt hash.
type OtpChallenge struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Phone     string             `json:"phone" bson:"phone"`
	CodeHash  string             `json:"-" bson:"codeHash"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expiresAt"`
	Consumed  bool               `json:"consumed" bson:"consumed"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
