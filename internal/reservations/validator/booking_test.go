package validator

import (
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
	"testing"
	"time"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Service: "test"})
}

func validBooking() *model.Booking {
	return &model.Booking{
		PropertyID: "6637a5f2b1c2d3e4f5a6b7c8",
		Guest: model.Guest{
			Name:  "Dana Whitfield",
			Email: "dana@example.com",
			Phone: "+14155550123",
		},
		CheckIn:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Occupancy:   model.Occupancy{Adults: 2, Children: 1},
		TotalAmount: 640,
		Status:      model.StatusConfirmed,
		Source:      model.SourceDirect,
	}
}

func TestValidateAcceptsWellFormedBooking(t *testing.T) {
	v := NewBookingValidator(testLogger())
	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("expected valid booking, got: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{"missing property", func(b *model.Booking) { b.PropertyID = "" }},
		{"bad property id", func(b *model.Booking) { b.PropertyID = "not-an-objectid" }},
		{"missing guest name", func(b *model.Booking) { b.Guest.Name = "" }},
		{"bad guest email", func(b *model.Booking) { b.Guest.Email = "not-an-email" }},
		{"bad guest phone", func(b *model.Booking) { b.Guest.Phone = "555-1234" }},
		{"zero adults", func(b *model.Booking) { b.Occupancy.Adults = 0 }},
		{"negative children", func(b *model.Booking) { b.Occupancy.Children = -1 }},
		{"negative amount", func(b *model.Booking) { b.TotalAmount = -10 }},
		{"zero-length stay", func(b *model.Booking) { b.CheckOut = b.CheckIn }},
		{"checkout before checkin", func(b *model.Booking) { b.CheckOut = b.CheckIn.AddDate(0, 0, -1) }},
		{"unknown status", func(b *model.Booking) { b.Status = "tentative" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			if err := v.Validate(b); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateOptionalPhone(t *testing.T) {
	v := NewBookingValidator(testLogger())
	b := validBooking()
	b.Guest.Phone = ""
	if err := v.Validate(b); err != nil {
		t.Fatalf("phone is optional, got: %v", err)
	}
}

func TestValidateDesiredStatus(t *testing.T) {
	v := NewBookingValidator(testLogger())

	for _, status := range []model.BookingStatus{model.StatusInquiry, model.StatusConfirmed} {
		if err := v.ValidateDesiredStatus(status); err != nil {
			t.Errorf("expected %s to be a legal creation status: %v", status, err)
		}
	}
	for _, status := range []model.BookingStatus{model.StatusCheckedIn, model.StatusCheckedOut, model.StatusCancelled} {
		if err := v.ValidateDesiredStatus(status); err == nil {
			t.Errorf("expected %s to be rejected as a creation status", status)
		}
	}
}
