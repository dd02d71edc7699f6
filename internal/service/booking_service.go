package service

import (
	"context"
	"fmt"
	"time"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/metrics"
	"github.com/re5pectR10/eventhub/internal/repository"
	"github.com/re5pectR10/eventhub/pkg/logger"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BookingService defines the interface for booking business logic
type BookingService interface {
	// Create creates a pending booking after checking availability
	Create(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error)

	// Get retrieves a booking by ID, scoped to its owner
	Get(ctx context.Context, bookingID, userID string) (*domain.Booking, error)

	// List retrieves the caller's bookings, newest first
	List(ctx context.Context, filter *dto.BookingListFilter) ([]*domain.Booking, int, error)

	// Cancel cancels a pending booking, scoped to its owner
	Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo     repository.BookingRepository
	eventRepo       repository.EventRepository
	ticketTypeRepo  repository.TicketTypeRepository
	eventPublisher  EventPublisher
	defaultCurrency string
}

// BookingServiceConfig contains configuration for booking service
type BookingServiceConfig struct {
	DefaultCurrency string
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	ticketTypeRepo repository.TicketTypeRepository,
	eventPublisher EventPublisher,
	cfg *BookingServiceConfig,
) BookingService {
	currency := "USD"
	if cfg != nil && cfg.DefaultCurrency != "" {
		currency = cfg.DefaultCurrency
	}
	// Use NoOpEventPublisher if none provided
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		bookingRepo:     bookingRepo,
		eventRepo:       eventRepo,
		ticketTypeRepo:  ticketTypeRepo,
		eventPublisher:  eventPublisher,
		defaultCurrency: currency,
	}
}

// Create creates a pending booking after checking availability
func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	// Validate request
	if req == nil {
		span.SetStatus(codes.Error, "empty items")
		return nil, domain.ErrEmptyItems
	}
	if req.UserID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}
	if req.EventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	if len(req.Items) == 0 {
		span.SetStatus(codes.Error, "empty items")
		return nil, domain.ErrEmptyItems
	}

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("event_id", req.EventID),
		attribute.Int("item_count", len(req.Items)),
	)

	// Event must exist, be published, and start in the future
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now().UTC()
	if !event.IsBookable(now) {
		span.SetStatus(codes.Error, "event not bookable")
		metrics.RecordBookingFailure(ctx, req.EventID, "event_not_bookable")
		return nil, domain.ErrEventNotBookable
	}

	// Check every requested type: belongs to the event, on sale, within
	// the per-order cap, and optimistically available. Prices are captured
	// here; later price changes never affect this booking.
	selections := make([]domain.ItemSelection, 0, len(req.Items))
	prices := make([]float64, 0, len(req.Items))
	currency := ""
	for _, item := range req.Items {
		ticketType, err := s.ticketTypeRepo.GetByID(ctx, item.TicketTypeID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if ticketType.EventID != req.EventID {
			span.SetStatus(codes.Error, "ticket type mismatch")
			return nil, domain.ErrTicketTypeMismatch
		}
		if !ticketType.OnSale(now) {
			span.SetStatus(codes.Error, "not on sale")
			metrics.RecordBookingFailure(ctx, req.EventID, "not_on_sale")
			return nil, domain.ErrTicketTypeNotOnSale
		}
		if !ticketType.WithinOrderCap(item.Quantity) {
			span.SetStatus(codes.Error, "max per order exceeded")
			metrics.RecordBookingFailure(ctx, req.EventID, "max_per_order_exceeded")
			return nil, domain.ErrMaxPerOrderExceeded
		}
		if !ticketType.CanFulfill(item.Quantity) {
			span.SetStatus(codes.Error, "insufficient inventory")
			metrics.RecordBookingFailure(ctx, req.EventID, "insufficient_inventory")
			return nil, domain.ErrInsufficientInventory
		}
		if currency == "" {
			currency = ticketType.Currency
		}
		selections = append(selections, domain.ItemSelection{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
		})
		prices = append(prices, ticketType.Price)
	}
	if currency == "" {
		currency = s.defaultCurrency
	}

	booking, err := domain.NewBooking(req.UserID, req.EventID, currency, selections, prices)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	booking.CustomerName = req.CustomerName
	booking.CustomerEmail = req.CustomerEmail
	booking.CustomerPhone = req.CustomerPhone

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Publish booking created event (async, don't block on failure)
	go func() {
		if pubErr := s.eventPublisher.PublishBookingCreated(context.Background(), booking); pubErr != nil {
			logger.Get().Error(fmt.Sprintf("Failed to publish booking created event: %v", pubErr))
		}
	}()

	// Record metrics
	metrics.RecordBookingCreated(ctx, booking.EventID, booking.TotalQuantity(), booking.TotalPrice)

	// Add span event for booking created
	span.AddEvent("booking_created", trace.WithAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("quantity", booking.TotalQuantity()),
		attribute.Float64("total_price", booking.TotalPrice),
	))

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// Get retrieves a booking by ID, scoped to its owner
func (s *bookingService) Get(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
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

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// List retrieves the caller's bookings, newest first
func (s *bookingService) List(ctx context.Context, filter *dto.BookingListFilter) ([]*domain.Booking, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list")
	defer span.End()

	if filter == nil {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, 0, domain.ErrInvalidUserID
	}
	if filter.UserID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, 0, domain.ErrInvalidUserID
	}
	filter.SetDefaults()

	span.SetAttributes(
		attribute.String("user_id", filter.UserID),
		attribute.Int("limit", filter.Limit),
		attribute.Int("offset", filter.Offset),
	)

	bookings, total, err := s.bookingRepo.ListByUser(ctx, filter.UserID, &repository.BookingFilter{
		Status:  filter.Status,
		EventID: filter.EventID,
	}, filter.Limit, filter.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, total, nil
}

// Cancel cancels a pending booking, scoped to its owner
func (s *bookingService) Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
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

	// Cancel in PostgreSQL. Nothing was committed to inventory for a
	// pending booking, so there is nothing to release.
	if err := s.bookingRepo.Cancel(ctx, bookingID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Update booking object for event publishing
	booking.Status = domain.BookingStatusCancelled
	now := time.Now().UTC()
	booking.CancelledAt = &now

	// Publish booking cancelled event (async, don't block on failure)
	go func() {
		if pubErr := s.eventPublisher.PublishBookingCancelled(context.Background(), booking); pubErr != nil {
			logger.Get().Error(fmt.Sprintf("Failed to publish booking cancelled event: %v", pubErr))
		}
	}()

	// Record metrics
	metrics.RecordCancellation(ctx, booking.EventID, "user_requested")

	// Add span event for booking cancelled
	span.AddEvent("booking_cancelled", trace.WithAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("quantity", booking.TotalQuantity()),
	))

	span.SetStatus(codes.Ok, "")
	return booking, nil
}
