package service

import (
	"context"
	"time"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/metrics"
	"github.com/re5pectR10/eventhub/internal/repository"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TicketService defines the interface for ticket issuance and gate operations
type TicketService interface {
	// IssueForBooking issues tickets for every item of a confirmed booking.
	// Items that already have their full ticket count are skipped, so the
	// call is safe to repeat. Returns the tickets created by this call.
	IssueForBooking(ctx context.Context, booking *domain.Booking) ([]*domain.Ticket, error)

	// ListByBooking retrieves the tickets of a booking, scoped to its owner
	ListByBooking(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error)

	// ListByUser retrieves every ticket across a user's bookings
	ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error)

	// Verify looks up a ticket by code for the event's organizer
	Verify(ctx context.Context, code, userID string) (*domain.Ticket, error)

	// Redeem marks a valid ticket as redeemed at the door
	Redeem(ctx context.Context, code, userID string) (*domain.Ticket, error)
}

// ticketService implements TicketService
type ticketService struct {
	ticketRepo    repository.TicketRepository
	bookingRepo   repository.BookingRepository
	eventRepo     repository.EventRepository
	organizerRepo repository.OrganizerRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo repository.TicketRepository,
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	organizerRepo repository.OrganizerRepository,
) TicketService {
	return &ticketService{
		ticketRepo:    ticketRepo,
		bookingRepo:   bookingRepo,
		eventRepo:     eventRepo,
		organizerRepo: organizerRepo,
	}
}

// IssueForBooking issues tickets for every item of a confirmed booking
func (s *ticketService) IssueForBooking(ctx context.Context, booking *domain.Booking) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.issue")
	defer span.End()

	if booking == nil || booking.ID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("item_count", len(booking.Items)),
	)

	// Top up each item to its full quantity. An item that already has all
	// its tickets contributes nothing, which makes replayed confirmations
	// a no-op here.
	tickets := make([]*domain.Ticket, 0, booking.TotalQuantity())
	for _, item := range booking.Items {
		existing, err := s.ticketRepo.CountByBookingItem(ctx, item.ID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		for i := existing; i < item.Quantity; i++ {
			ticket, err := domain.NewTicket(booking.ID, item.ID, booking.EventID, item.TicketTypeID)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			tickets = append(tickets, ticket)
		}
	}

	if len(tickets) == 0 {
		span.SetAttributes(attribute.Int("issued", 0))
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	if err := s.ticketRepo.CreateBatch(ctx, tickets); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Record metrics
	metrics.RecordTicketsIssued(ctx, booking.EventID, int64(len(tickets)))

	// Add span event for tickets issued
	span.AddEvent("tickets_issued", trace.WithAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.Int("count", len(tickets)),
	))

	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// ListByBooking retrieves the tickets of a booking, scoped to its owner
func (s *ticketService) ListByBooking(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.list_booking")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	// Validate inputs
	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Verify ownership
	if booking.UserID != userID {
		span.SetStatus(codes.Error, "forbidden")
		return nil, domain.ErrForbidden
	}

	tickets, err := s.ticketRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// ListByUser retrieves every ticket across a user's bookings
func (s *ticketService) ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.list_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	tickets, err := s.ticketRepo.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// Verify looks up a ticket by code for the event's organizer
func (s *ticketService) Verify(ctx context.Context, code, userID string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.verify")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	ticket, err := s.authorizeGateAccess(ctx, span, code, userID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("ticket_status", string(ticket.Status)))
	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// Redeem marks a valid ticket as redeemed at the door
func (s *ticketService) Redeem(ctx context.Context, code, userID string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.redeem")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	ticket, err := s.authorizeGateAccess(ctx, span, code, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ticketRepo.MarkRedeemed(ctx, ticket.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Update ticket object for the response
	ticket.Status = domain.TicketStatusRedeemed
	now := time.Now().UTC()
	ticket.RedeemedAt = &now

	// Record metrics
	metrics.RecordTicketRedeemed(ctx, ticket.EventID)

	// Add span event for ticket redeemed
	span.AddEvent("ticket_redeemed", trace.WithAttributes(
		attribute.String("ticket_id", ticket.ID),
		attribute.String("event_id", ticket.EventID),
	))

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// authorizeGateAccess resolves a ticket by code and checks that userID is
// the organizer of the ticket's event
func (s *ticketService) authorizeGateAccess(ctx context.Context, span trace.Span, code, userID string) (*domain.Ticket, error) {
	if code == "" {
		span.SetStatus(codes.Error, "ticket not found")
		return nil, domain.ErrTicketNotFound
	}
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	ticket, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, ticket.EventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	organizer, err := s.organizerRepo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if organizer == nil || organizer.ID != event.OrganizerID {
		span.SetStatus(codes.Error, "forbidden")
		return nil, domain.ErrForbidden
	}

	span.SetAttributes(attribute.String("ticket_id", ticket.ID))
	return ticket, nil
}
