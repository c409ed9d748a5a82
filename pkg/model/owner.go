package model

import "time"

// Owner is a property-owner account. Email is the login identity and is
// unique across the collection (enforced by a unique index).
type Owner struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Registration is the inbound payload for account creation. The plaintext
// password never reaches the persistence layer.
type Registration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	OwnerID     string    `json:"owner_id"`
}
