package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Driver holds the structure for the drivers collection in mongo
type Driver struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Address  string             `json:"address" bson:"address"`
	Phone    string             `json:"phone" bson:"phone"`
	Aadhaar  string             `json:"aadhaar" bson:"aadhaar"`
	License  string             `json:"license" bson:"license"`
	Vehicle  string             `json:"vehicle" bson:"vehicle"`
	IsOnline bool               `json:"isOnline" bson:"isOnline"`
	Location *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	LastSeen time.Time          `json:"lastSeen,omitempty" bson:"lastSeen,omitempty"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// DriverRegistration is the registration form payload, validated by the
// validation package before a Driver document is created
type DriverRegistration struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Aadhaar string `json:"aadhaar"`
	License string `json:"license"`
	Vehicle string `json:"vehicle"`
}
