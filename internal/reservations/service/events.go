package service

import (
	"context"
	"time"

	"innkeep/pkg/kafka"
	"innkeep/pkg/model"
)

const (
	TopicBookingEvents    = "booking-events"
	TopicBookingEventsDLQ = "booking-events-dlq"

	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingCancelled     = "booking.cancelled"
)

// EventPublisher is satisfied by *kafka.Producer. A nil publisher disables
// eventing without touching the booking path.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingEvent is the payload published for every booking mutation.
// Keyed by property id so consumers see one property's events in order.
type BookingEvent struct {
	BookingID  string              `json:"booking_id"`
	PropertyID string              `json:"property_id"`
	Status     model.BookingStatus `json:"status"`
	CheckIn    time.Time           `json:"check_in"`
	CheckOut   time.Time           `json:"check_out"`
	GuestEmail string              `json:"guest_email"`
	Source     string              `json:"source"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// publish emits a booking event. Eventing is best-effort: a broker failure
// is logged and never fails the reservation operation that triggered it.
func (s *reservationService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.events == nil {
		return
	}

	msg, err := kafka.NewMessage(booking.PropertyID, eventType, BookingEvent{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		Status:     booking.Status,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		GuestEmail: booking.Guest.Email,
		Source:     booking.Source,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to encode booking event", "booking_id", booking.ID, "event_type", eventType, "error", err)
		return
	}

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"booking_id", booking.ID,
			"property_id", booking.PropertyID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func eventTypeFor(status model.BookingStatus) string {
	if status == model.StatusCancelled {
		return EventBookingCancelled
	}
	return EventBookingStatusChanged
}
