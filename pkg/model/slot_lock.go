package model

import "time"

// SlotLock is an advisory lock serializing booking creation for one
// (agent, date, start) key. The unique _id makes concurrent acquisition a
// duplicate-key error for all but one request.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
