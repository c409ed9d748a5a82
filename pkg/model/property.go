package model

import "time"

type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "active"
	PropertyInactive PropertyStatus = "inactive"
)

// Property is a rentable unit owned by a single account. The reservation
// engine only reads it for existence and ownership; everything else is
// catalog metadata.
type Property struct {
	ID           string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string         `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Name         string         `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address      string         `json:"address" bson:"address" validate:"required,min=5,max=200"`
	City         string         `json:"city" bson:"city" validate:"required,min=2,max=100"`
	MaxGuests    int            `json:"max_guests" bson:"max_guests" validate:"required,min=1,max=100"`
	NightlyPrice float64        `json:"nightly_price" bson:"nightly_price" validate:"min=0"`
	Status       PropertyStatus `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// PropertyUpdate carries the mutable subset of Property fields.
// Pointer fields distinguish "leave unchanged" from zero values.
type PropertyUpdate struct {
	Name         string         `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address      string         `json:"address,omitempty" validate:"omitempty,min=5,max=200"`
	City         string         `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	MaxGuests    *int           `json:"max_guests,omitempty" validate:"omitempty,min=1,max=100"`
	NightlyPrice *float64       `json:"nightly_price,omitempty" validate:"omitempty,min=0"`
	Status       PropertyStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
