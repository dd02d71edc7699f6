package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/gateway"
	"github.com/re5pectR10/eventhub/internal/metrics"
	"github.com/re5pectR10/eventhub/internal/repository"
	"github.com/re5pectR10/eventhub/pkg/logger"
	"github.com/re5pectR10/eventhub/pkg/retry"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CheckoutService defines the interface for opening hosted payment sessions
type CheckoutService interface {
	// OpenCheckout opens a hosted payment session for a pending booking
	OpenCheckout(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error)
}

// checkoutService implements CheckoutService
type checkoutService struct {
	bookingRepo    repository.BookingRepository
	eventRepo      repository.EventRepository
	ticketTypeRepo repository.TicketTypeRepository
	organizerRepo  repository.OrganizerRepository
	gateway        gateway.PaymentGateway
	retrier        *retry.Retrier
	successURL     string
	cancelURL      string
	platformFeeBps int64
}

// CheckoutServiceConfig contains configuration for checkout service
type CheckoutServiceConfig struct {
	SuccessURL     string
	CancelURL      string
	PlatformFeeBps int64
	MaxRetries     int
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	ticketTypeRepo repository.TicketTypeRepository,
	organizerRepo repository.OrganizerRepository,
	gw gateway.PaymentGateway,
	cfg *CheckoutServiceConfig,
) CheckoutService {
	successURL := "https://eventhub.local/checkout/success"
	cancelURL := "https://eventhub.local/checkout/cancel"
	var feeBps int64
	maxRetries := 3
	if cfg != nil {
		if cfg.SuccessURL != "" {
			successURL = cfg.SuccessURL
		}
		if cfg.CancelURL != "" {
			cancelURL = cfg.CancelURL
		}
		if cfg.PlatformFeeBps > 0 {
			feeBps = cfg.PlatformFeeBps
		}
		if cfg.MaxRetries > 0 {
			maxRetries = cfg.MaxRetries
		}
	}
	retrier := retry.New(&retry.Config{
		MaxRetries:      maxRetries,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.2,
	})
	return &checkoutService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		ticketTypeRepo: ticketTypeRepo,
		organizerRepo:  organizerRepo,
		gateway:        gw,
		retrier:        retrier,
		successURL:     successURL,
		cancelURL:      cancelURL,
		platformFeeBps: feeBps,
	}
}

// OpenCheckout opens a hosted payment session for a pending booking
func (s *checkoutService) OpenCheckout(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.checkout.open")
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
	if !booking.IsPending() {
		span.SetStatus(codes.Error, "booking not pending")
		return nil, domain.ErrCheckoutNotAllowed
	}

	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// One line item per booking item, priced from the unit_price captured
	// at booking time. The live ticket-type price is never consulted here;
	// the type is fetched only for its display name and may already be
	// soft-deleted.
	items := make([]gateway.CheckoutItem, 0, len(booking.Items))
	for _, item := range booking.Items {
		name := "Ticket"
		if ticketType, ttErr := s.ticketTypeRepo.GetByID(ctx, item.TicketTypeID); ttErr == nil {
			name = ticketType.Name
		}
		items = append(items, gateway.CheckoutItem{
			Name:      fmt.Sprintf("%s - %s", event.Title, name),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	gwReq := &gateway.CheckoutSessionRequest{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		EventID:    booking.EventID,
		Currency:   booking.Currency,
		Items:      items,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	}
	if req != nil {
		if req.SuccessURL != "" {
			gwReq.SuccessURL = req.SuccessURL
		}
		if req.CancelURL != "" {
			gwReq.CancelURL = req.CancelURL
		}
	}

	// Route funds to the organizer's connected account when it is verified.
	// Unverified or absent organizers fall back to a plain platform charge.
	if organizer, orgErr := s.organizerRepo.GetByID(ctx, event.OrganizerID); orgErr == nil && organizer != nil && organizer.CanReceivePayouts() {
		totalCents := int64(math.Round(booking.TotalPrice * 100))
		gwReq.Connect = &gateway.ConnectParams{
			DestinationAccountID: organizer.StripeAccountID,
			ApplicationFeeAmount: totalCents * s.platformFeeBps / 10000,
		}
		span.SetAttributes(attribute.String("destination_account", organizer.StripeAccountID))
	}

	// Create the session with retry; transient gateway errors back off,
	// exhaustion leaves the booking pending and untouched.
	var session *gateway.CheckoutSessionResponse
	result := s.retrier.Do(ctx, func(ctx context.Context) error {
		resp, gwErr := s.gateway.CreateCheckoutSession(ctx, gwReq)
		if gwErr != nil {
			return gwErr
		}
		session = resp
		return nil
	})
	if result.Err != nil {
		span.RecordError(result.LastError)
		span.SetStatus(codes.Error, "gateway error")
		span.SetAttributes(attribute.Int("attempts", result.Attempts))
		metrics.RecordCheckoutFailure(ctx, "gateway_error")
		logger.Get().Error(fmt.Sprintf("Failed to create checkout session for booking %s after %d attempts: %v", bookingID, result.Attempts, result.LastError))
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessorFailure, result.LastError)
	}

	if err := s.bookingRepo.SetCheckoutSession(ctx, booking.ID, session.SessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Record metrics
	metrics.RecordCheckoutOpened(ctx, booking.EventID)

	// Add span event for checkout opened
	span.AddEvent("checkout_opened", trace.WithAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("session_id", session.SessionID),
	))

	span.SetStatus(codes.Ok, "")
	return session, nil
}
