package model

import "time"

// PropertyLock is an advisory lock document guarding a property's
// availability check-then-insert section across processes. A TTL index on
// expires_at reaps locks abandoned by crashed workers.
type PropertyLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
