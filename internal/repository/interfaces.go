package repository

import (
	"context"

	"github.com/re5pectR10/eventhub/internal/domain"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List lists events with filters and pagination
	List(ctx context.Context, filter *EventFilter, limit, offset int) ([]*domain.Event, int, error)
	// Update updates an event
	Update(ctx context.Context, event *domain.Event) error
}

// EventFilter contains filter options for listing events
type EventFilter struct {
	Status      string
	OrganizerID string
	Search      string
	Upcoming    bool
}

// TicketTypeRepository defines the interface for ticket type data access
type TicketTypeRepository interface {
	// Create creates a new ticket type
	Create(ctx context.Context, ticketType *domain.TicketType) error
	// GetByID retrieves a ticket type by ID
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
	// ListByEvent retrieves all ticket types of an event
	ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error)
	// CountByEvent counts the ticket types of an event
	CountByEvent(ctx context.Context, eventID string) (int, error)
	// Update updates a ticket type
	Update(ctx context.Context, ticketType *domain.TicketType) error
	// Delete soft deletes a ticket type that has no sales yet
	Delete(ctx context.Context, id string) error
	// CommitSold atomically increments quantity_sold by the given amount
	// and returns the updated (quantity_sold, quantity_available) pair
	CommitSold(ctx context.Context, id string, quantity int) (int, int, error)
}

// BookingRepository defines the interface for booking data access
type BookingRepository interface {
	// Create creates a booking together with its items in one transaction
	Create(ctx context.Context, booking *domain.Booking) error
	// GetByID retrieves a booking with its items
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// GetByCheckoutSessionID retrieves a booking by its checkout session,
	// returning (nil, nil) when no booking references the session
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error)
	// ListByUser retrieves a user's bookings with items and pagination
	ListByUser(ctx context.Context, userID string, filter *BookingFilter, limit, offset int) ([]*domain.Booking, int, error)
	// SetCheckoutSession records the checkout session opened for a booking
	SetCheckoutSession(ctx context.Context, id, sessionID string) error
	// Confirm transitions a pending booking to confirmed
	Confirm(ctx context.Context, id, paymentIntentID string) error
	// Cancel transitions a pending booking to cancelled
	Cancel(ctx context.Context, id string) error
}

// BookingFilter contains filter options for listing bookings
type BookingFilter struct {
	Status  string
	EventID string
}

// TicketRepository defines the interface for issued ticket data access
type TicketRepository interface {
	// CreateBatch inserts a batch of tickets in one transaction
	CreateBatch(ctx context.Context, tickets []*domain.Ticket) error
	// GetByCode retrieves a ticket by its scannable code
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	// ListByBooking retrieves all tickets issued for a booking
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.Ticket, error)
	// ListByUser retrieves all tickets across a user's bookings
	ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error)
	// CountByBookingItem counts tickets already issued for a booking item
	CountByBookingItem(ctx context.Context, bookingItemID string) (int, error)
	// MarkRedeemed transitions a valid ticket to redeemed
	MarkRedeemed(ctx context.Context, id string) error
}

// OrganizerRepository defines the interface for organizer data access
type OrganizerRepository interface {
	// Create creates a new organizer
	Create(ctx context.Context, organizer *domain.Organizer) error
	// GetByID retrieves an organizer by ID
	GetByID(ctx context.Context, id string) (*domain.Organizer, error)
	// GetByUserID retrieves the organizer owned by a user,
	// returning (nil, nil) when the user has none
	GetByUserID(ctx context.Context, userID string) (*domain.Organizer, error)
	// GetByStripeAccountID retrieves an organizer by connected account,
	// returning (nil, nil) when no organizer matches
	GetByStripeAccountID(ctx context.Context, accountID string) (*domain.Organizer, error)
	// Update updates an organizer
	Update(ctx context.Context, organizer *domain.Organizer) error
}
