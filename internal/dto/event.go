package dto

import "time"

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	Description string     `json:"description"`
	Venue       string     `json:"venue" binding:"max=255"`
	StartAt     time.Time  `json:"start_at" binding:"required"`
	EndAt       *time.Time `json:"end_at"`
	UserID      string     `json:"-"` // Set from context
}

// Validate validates the CreateEventRequest
func (r *CreateEventRequest) Validate() (bool, string) {
	if r.Title == "" {
		return false, "Event title is required"
	}
	if r.StartAt.IsZero() {
		return false, "Event start time is required"
	}
	if r.EndAt != nil && r.EndAt.Before(r.StartAt) {
		return false, "Event end time must be after start time"
	}
	return true, ""
}

// UpdateEventRequest represents the request to update an event
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Venue       *string    `json:"venue" binding:"omitempty,max=255"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
}

// Validate validates the UpdateEventRequest
func (r *UpdateEventRequest) Validate() (bool, string) {
	if r.Title != nil && *r.Title == "" {
		return false, "Event title cannot be empty"
	}
	if r.StartAt != nil && r.EndAt != nil && r.EndAt.Before(*r.StartAt) {
		return false, "Event end time must be after start time"
	}
	return true, ""
}

// EventResponse represents the response for an event
type EventResponse struct {
	ID          string  `json:"id"`
	OrganizerID string  `json:"organizer_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Venue       string  `json:"venue"`
	StartAt     string  `json:"start_at"`
	EndAt       *string `json:"end_at,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// EventListFilter represents filters for listing events
type EventListFilter struct {
	Status      string `form:"status"`
	OrganizerID string `form:"-"`
	Search      string `form:"search"`
	Upcoming    bool   `form:"upcoming"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *EventListFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
