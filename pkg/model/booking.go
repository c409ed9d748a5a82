package model

import (
	"time"
)

type BookingStatus string

const (
	StatusInquiry    BookingStatus = "inquiry"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// Active reports whether a booking in this status occupies its property's
// availability calendar. Only confirmed and checked_in bookings block dates.
func (s BookingStatus) Active() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

// Terminal reports whether no further transitions are allowed from this status.
func (s BookingStatus) Terminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

const SourceDirect = "direct"

type Guest struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
}

type Occupancy struct {
	Adults   int `json:"adults" bson:"adults" validate:"required,min=1,max=50"`
	Children int `json:"children" bson:"children" validate:"min=0,max=50"`
}

// Booking is a guest reservation for a half-open date range
// [check_in, check_out) on a single property. Bookings are never
// hard-deleted; cancellation is a status change so the record survives
// as audit history.
type Booking struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	PropertyID  string        `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	Guest       Guest         `json:"guest" bson:"guest" validate:"required"`
	CheckIn     time.Time     `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut    time.Time     `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Occupancy   Occupancy     `json:"occupancy" bson:"occupancy" validate:"required"`
	TotalAmount float64       `json:"total_amount" bson:"total_amount" validate:"min=0"`
	Status      BookingStatus `json:"status" bson:"status" validate:"required,oneof=inquiry confirmed checked_in checked_out cancelled"`
	Source      string        `json:"source" bson:"source" validate:"omitempty,max=50"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
