package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle status of an event (matches DB ENUM)
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event represents a bookable event listing
type Event struct {
	ID          string      `json:"id"`
	OrganizerID string      `json:"organizer_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Venue       string      `json:"venue,omitempty"`
	StartAt     time.Time   `json:"start_at"`
	EndAt       *time.Time  `json:"end_at,omitempty"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewEvent creates a draft event
func NewEvent(organizerID, title string, startAt time.Time) (*Event, error) {
	if organizerID == "" {
		return nil, errors.New("organizer_id is required")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if startAt.IsZero() {
		return nil, errors.New("start_at is required")
	}

	now := time.Now().UTC()
	return &Event{
		ID:          uuid.New().String(),
		OrganizerID: organizerID,
		Title:       title,
		StartAt:     startAt,
		Status:      EventStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Publish moves a draft event to published
func (e *Event) Publish() error {
	if e.Status != EventStatusDraft {
		return ErrEventNotDraft
	}
	if !e.StartAt.After(time.Now().UTC()) {
		return ErrEventAlreadyStarted
	}
	e.Status = EventStatusPublished
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel marks the event as cancelled
func (e *Event) Cancel() error {
	if e.Status == EventStatusCancelled {
		return ErrEventAlreadyCancelled
	}
	e.Status = EventStatusCancelled
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// IsBookable reports whether bookings may be created for this event:
// published and not yet started.
func (e *Event) IsBookable(now time.Time) bool {
	return e.Status == EventStatusPublished && e.StartAt.After(now)
}
