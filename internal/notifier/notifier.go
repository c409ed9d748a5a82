// Package notifier turns booking events into guest notifications. The
// delivery channel is pluggable; the default sender writes structured log
// lines, which is enough for ops tailing and for tests.
package notifier

import (
	"context"
	"fmt"

	"innkeep/internal/reservations/service"
	"innkeep/pkg/kafka"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

// Sender delivers one rendered notification to a guest.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender is the default Sender: it records the notification instead of
// delivering it.
type LogSender struct {
	Log *logger.Logger
}

func (s *LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.Log.Info("Notification sent", "recipient", recipient, "subject", subject, "body", body)
	return nil
}

type Notifier struct {
	sender Sender
	log    *logger.Logger
}

func New(sender Sender, log *logger.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		log:    log,
	}
}

// Handle processes one booking event. Undecodable payloads are rejected
// permanently so the consumer routes them to the DLQ instead of retrying.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event service.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("undecodable booking event %s: %w", msg.EventID(), err)
	}

	if event.GuestEmail == "" {
		n.log.Warn("Booking event without guest email, skipping", "booking_id", event.BookingID)
		return nil
	}

	subject, body := render(msg.EventType(), event)
	if subject == "" {
		n.log.Warn("Unknown booking event type, skipping", "event_type", msg.EventType(), "booking_id", event.BookingID)
		return nil
	}

	return n.sender.Send(ctx, event.GuestEmail, subject, body)
}

func render(eventType string, event service.BookingEvent) (subject, body string) {
	stay := fmt.Sprintf("%s to %s", event.CheckIn.Format("2006-01-02"), event.CheckOut.Format("2006-01-02"))

	switch eventType {
	case service.EventBookingCreated:
		if event.Status == model.StatusInquiry {
			return "We received your inquiry", fmt.Sprintf("Thanks for your inquiry for %s. We will confirm availability shortly.", stay)
		}
		return "Your booking is confirmed", fmt.Sprintf("Your stay from %s is confirmed. Booking reference: %s.", stay, event.BookingID)
	case service.EventBookingStatusChanged:
		switch event.Status {
		case model.StatusConfirmed:
			return "Your booking is confirmed", fmt.Sprintf("Your stay from %s is confirmed. Booking reference: %s.", stay, event.BookingID)
		case model.StatusCheckedIn:
			return "Welcome!", fmt.Sprintf("You are checked in for your stay from %s. Enjoy!", stay)
		case model.StatusCheckedOut:
			return "Thanks for staying with us", fmt.Sprintf("You are checked out of your stay from %s. We hope to see you again.", stay)
		}
		return "", ""
	case service.EventBookingCancelled:
		return "Your booking was cancelled", fmt.Sprintf("Your booking %s for %s has been cancelled.", event.BookingID, stay)
	}

	return "", ""
}
