package domain

import (
	"time"
)

// BookingEventType represents the type of booking lifecycle event
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventCancelled BookingEventType = "booking.cancelled"
	TicketEventIssued     BookingEventType = "ticket.issued"
)

// BookingEvent is the envelope published to Kafka for booking lifecycle
// changes. Version guards consumers against payload evolution.
type BookingEvent struct {
	EventID     string            `json:"event_id"`
	EventType   BookingEventType  `json:"event_type"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Version     int               `json:"version"`
	BookingData *BookingEventData `json:"data"`
}

// BookingEventData contains the booking snapshot carried in the event
type BookingEventData struct {
	BookingID       string     `json:"booking_id"`
	UserID          string     `json:"user_id"`
	EventID         string     `json:"event_id"`
	Status          string     `json:"status"`
	TotalPrice      float64    `json:"total_price"`
	Currency        string     `json:"currency"`
	TotalQuantity   int        `json:"total_quantity"`
	PaymentIntentID string     `json:"payment_intent_id,omitempty"`
	TicketsIssued   int        `json:"tickets_issued,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

// NewBookingEvent builds an event envelope from a booking snapshot
func NewBookingEvent(eventType BookingEventType, booking *Booking, eventID string) *BookingEvent {
	event := &BookingEvent{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Version:    1,
	}
	if booking != nil {
		event.BookingData = &BookingEventData{
			BookingID:       booking.ID,
			UserID:          booking.UserID,
			EventID:         booking.EventID,
			Status:          string(booking.Status),
			TotalPrice:      booking.TotalPrice,
			Currency:        booking.Currency,
			TotalQuantity:   booking.TotalQuantity(),
			PaymentIntentID: booking.PaymentIntentID,
			CreatedAt:       booking.CreatedAt,
			ConfirmedAt:     booking.ConfirmedAt,
			CancelledAt:     booking.CancelledAt,
		}
	}
	return event
}

// Key returns the partition key for this event so all events of one
// booking land on the same partition in order.
func (e *BookingEvent) Key() string {
	if e.BookingData != nil {
		return e.BookingData.BookingID
	}
	return e.EventID
}
