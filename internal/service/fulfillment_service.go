package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/metrics"
	"github.com/re5pectR10/eventhub/internal/repository"
	"github.com/re5pectR10/eventhub/pkg/logger"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FulfillmentService drives a paid booking to fulfilled: status flip,
// inventory commit, ticket issuance, events. All entry points are driven
// by payment webhooks and must tolerate redelivery.
type FulfillmentService interface {
	// ConfirmFromPayment confirms a pending booking after a completed
	// payment. Replayed deliveries return the already-confirmed booking
	// and top up any missing tickets.
	ConfirmFromPayment(ctx context.Context, bookingID, paymentIntentID string) (*domain.Booking, error)

	// ConfirmFromCheckoutItems builds a booking directly in confirmed state
	// from checkout metadata and runs the same commit-and-issue path
	ConfirmFromCheckoutItems(ctx context.Context, req *ConfirmFromCheckoutRequest) (*domain.Booking, error)

	// CancelFromPaymentFailure cancels a booking after a failed payment.
	// Bookings that are missing or no longer pending are left untouched.
	CancelFromPaymentFailure(ctx context.Context, bookingID string) error
}

// ConfirmFromCheckoutRequest carries the ticket selections serialized into
// checkout session metadata when no booking row exists yet. UserID may be
// empty for an anonymous checkout as long as CustomerEmail identifies the
// buyer.
type ConfirmFromCheckoutRequest struct {
	UserID          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	EventID         string
	Currency        string
	Selections      []domain.ItemSelection
	PaymentIntentID string
	SessionID       string
}

// fulfillmentService implements FulfillmentService
type fulfillmentService struct {
	bookingRepo    repository.BookingRepository
	ticketTypeRepo repository.TicketTypeRepository
	ticketService  TicketService
	eventPublisher EventPublisher
}

// NewFulfillmentService creates a new fulfillment service
func NewFulfillmentService(
	bookingRepo repository.BookingRepository,
	ticketTypeRepo repository.TicketTypeRepository,
	ticketService TicketService,
	eventPublisher EventPublisher,
) FulfillmentService {
	// Use NoOpEventPublisher if none provided
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &fulfillmentService{
		bookingRepo:    bookingRepo,
		ticketTypeRepo: ticketTypeRepo,
		ticketService:  ticketService,
		eventPublisher: eventPublisher,
	}
}

// ConfirmFromPayment confirms a pending booking after a completed payment
func (s *fulfillmentService) ConfirmFromPayment(ctx context.Context, bookingID, paymentIntentID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.fulfillment.confirm")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("payment_intent_id", paymentIntentID),
	)

	// Validate input
	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	// Conditional flip: only a pending booking transitions. A replayed
	// delivery lands on the already-confirmed row and skips the commit,
	// but still tops up issuance below.
	replay := false
	if err := s.bookingRepo.Confirm(ctx, bookingID, paymentIntentID); err != nil {
		if !errors.Is(err, domain.ErrBookingAlreadyConfirmed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		replay = true
		span.SetAttributes(attribute.Bool("replay", true))
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !replay {
		s.commitInventory(ctx, booking)
	}

	// The booking is confirmed regardless of issuance: failures here are
	// logged for reconciliation, never returned to the webhook.
	tickets, err := s.ticketService.IssueForBooking(ctx, booking)
	if err != nil {
		span.RecordError(err)
		logger.Get().Error(fmt.Sprintf("Failed to issue tickets for confirmed booking %s: %v", bookingID, err))
		metrics.RecordError(ctx, "ticket_issuance_failed", "fulfillment.confirm")
		tickets = nil
	}

	if !replay {
		// Record metrics
		metrics.RecordConfirmation(ctx, booking.EventID, time.Since(booking.CreatedAt).Seconds())

		// Publish booking confirmed event (async, don't block on failure)
		confirmed := booking
		go func() {
			if pubErr := s.eventPublisher.PublishBookingConfirmed(context.Background(), confirmed); pubErr != nil {
				logger.Get().Error(fmt.Sprintf("Failed to publish booking confirmed event: %v", pubErr))
			}
		}()

		// Add span event for booking confirmed
		span.AddEvent("booking_confirmed", trace.WithAttributes(
			attribute.String("booking_id", booking.ID),
			attribute.String("event_id", booking.EventID),
			attribute.Int("quantity", booking.TotalQuantity()),
		))
	}

	s.publishTicketsIssued(booking, len(tickets))

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ConfirmFromCheckoutItems builds a booking directly in confirmed state
// from checkout metadata and runs the same commit-and-issue path
func (s *fulfillmentService) ConfirmFromCheckoutItems(ctx context.Context, req *ConfirmFromCheckoutRequest) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.fulfillment.confirm_from_checkout")
	defer span.End()

	// Validate request
	if req == nil || len(req.Selections) == 0 {
		span.SetStatus(codes.Error, "empty items")
		return nil, domain.ErrEmptyItems
	}
	if req.UserID == "" && req.CustomerEmail == "" {
		span.SetStatus(codes.Error, "no buyer identity")
		return nil, domain.ErrInvalidUserID
	}
	if req.EventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("event_id", req.EventID),
		attribute.String("session_id", req.SessionID),
		attribute.Int("item_count", len(req.Selections)),
	)

	// A redelivered session that already produced a booking must not
	// produce a second one. The session ID is the dedup key.
	if req.SessionID != "" {
		existing, err := s.bookingRepo.GetByCheckoutSessionID(ctx, req.SessionID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if existing != nil {
			span.SetAttributes(attribute.Bool("replay", true))
			tickets, issueErr := s.ticketService.IssueForBooking(ctx, existing)
			if issueErr != nil {
				span.RecordError(issueErr)
				logger.Get().Error(fmt.Sprintf("Failed to issue tickets for fulfilled booking %s: %v", existing.ID, issueErr))
				metrics.RecordError(ctx, "ticket_issuance_failed", "fulfillment.confirm_from_checkout")
			}
			s.publishTicketsIssued(existing, len(tickets))
			span.SetStatus(codes.Ok, "already fulfilled")
			return existing, nil
		}
	}

	// Price each selection at the current ticket-type price. Payment has
	// already completed, so no availability or sale-window check applies.
	prices := make([]float64, 0, len(req.Selections))
	currency := req.Currency
	for _, sel := range req.Selections {
		ticketType, err := s.ticketTypeRepo.GetByID(ctx, sel.TicketTypeID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if currency == "" {
			currency = ticketType.Currency
		}
		prices = append(prices, ticketType.Price)
	}

	customer := domain.Customer{
		UserID: req.UserID,
		Name:   req.CustomerName,
		Email:  req.CustomerEmail,
		Phone:  req.CustomerPhone,
	}
	booking, err := domain.NewConfirmedBooking(customer, req.EventID, currency, req.Selections, prices, req.PaymentIntentID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	booking.CheckoutSessionID = req.SessionID

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.commitInventory(ctx, booking)

	// The booking row is durable and inventory is committed; issuance
	// failures are logged for reconciliation, never returned to the webhook.
	tickets, err := s.ticketService.IssueForBooking(ctx, booking)
	if err != nil {
		span.RecordError(err)
		logger.Get().Error(fmt.Sprintf("Failed to issue tickets for confirmed booking %s: %v", booking.ID, err))
		metrics.RecordError(ctx, "ticket_issuance_failed", "fulfillment.confirm_from_checkout")
		tickets = nil
	}

	// Record metrics: the booking was created and confirmed in one step
	metrics.RecordBookingCreated(ctx, booking.EventID, booking.TotalQuantity(), booking.TotalPrice)
	metrics.RecordConfirmation(ctx, booking.EventID, 0)

	// Publish booking confirmed event (async, don't block on failure)
	confirmed := booking
	go func() {
		if pubErr := s.eventPublisher.PublishBookingConfirmed(context.Background(), confirmed); pubErr != nil {
			logger.Get().Error(fmt.Sprintf("Failed to publish booking confirmed event: %v", pubErr))
		}
	}()

	s.publishTicketsIssued(booking, len(tickets))

	// Add span event for booking confirmed
	span.AddEvent("booking_confirmed", trace.WithAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("quantity", booking.TotalQuantity()),
	))

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// CancelFromPaymentFailure cancels a booking after a failed payment
func (s *fulfillmentService) CancelFromPaymentFailure(ctx context.Context, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.fulfillment.cancel_payment_failed")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	// Validate input
	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return domain.ErrInvalidBookingID
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID); err != nil {
		// A stale failure must never regress a booking: missing, already
		// cancelled, or meanwhile confirmed are all left as they are.
		if errors.Is(err, domain.ErrBookingNotFound) ||
			errors.Is(err, domain.ErrBookingAlreadyCancelled) ||
			errors.Is(err, domain.ErrBookingNotPending) {
			logger.Get().Info(fmt.Sprintf("Ignoring payment failure for booking %s: %v", bookingID, err))
			span.SetAttributes(attribute.Bool("stale", true))
			span.SetStatus(codes.Ok, "stale payment failure")
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		// Cancellation is durable; the event is best effort
		logger.Get().Error(fmt.Sprintf("Failed to load cancelled booking %s: %v", bookingID, err))
		span.SetStatus(codes.Ok, "")
		return nil
	}

	// Publish booking cancelled event (async, don't block on failure)
	go func() {
		if pubErr := s.eventPublisher.PublishBookingCancelled(context.Background(), booking); pubErr != nil {
			logger.Get().Error(fmt.Sprintf("Failed to publish booking cancelled event: %v", pubErr))
		}
	}()

	// Record metrics
	metrics.RecordCancellation(ctx, booking.EventID, "payment_failed")

	// Add span event for booking cancelled
	span.AddEvent("booking_cancelled", trace.WithAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("event_id", booking.EventID),
	))

	span.SetStatus(codes.Ok, "")
	return nil
}

// commitInventory increments quantity_sold for every item of a confirmed
// booking. The counter is advisory: the booking is already paid, so commit
// failures are logged and skipped rather than blocking fulfillment, and a
// commit past quantity_available is recorded as an oversell.
func (s *fulfillmentService) commitInventory(ctx context.Context, booking *domain.Booking) {
	for _, item := range booking.Items {
		sold, available, err := s.ticketTypeRepo.CommitSold(ctx, item.TicketTypeID, item.Quantity)
		if err != nil {
			logger.Get().Error(fmt.Sprintf("Failed to commit %d sold for ticket type %s: %v", item.Quantity, item.TicketTypeID, err))
			metrics.RecordError(ctx, "inventory_commit_failed", "fulfillment.confirm")
			continue
		}
		if sold > available {
			logger.Get().Warn(fmt.Sprintf("Ticket type %s oversold: %d sold of %d available", item.TicketTypeID, sold, available))
			metrics.RecordOversell(ctx, item.TicketTypeID)
		}
	}
}

// publishTicketsIssued publishes a ticket.issued event when a call actually
// created tickets
func (s *fulfillmentService) publishTicketsIssued(booking *domain.Booking, count int) {
	if count == 0 {
		return
	}
	go func() {
		if pubErr := s.eventPublisher.PublishTicketsIssued(context.Background(), booking, count); pubErr != nil {
			logger.Get().Error(fmt.Sprintf("Failed to publish tickets issued event: %v", pubErr))
		}
	}()
}
