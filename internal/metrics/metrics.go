package metrics

import (
	"context"
	"sync"

	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Booking counters
	BookingsCreated   *telemetry.Counter
	BookingsConfirmed *telemetry.Counter
	BookingsCancelled *telemetry.Counter
	BookingsFailed    *telemetry.Counter

	// Checkout counters
	CheckoutsOpened *telemetry.Counter
	CheckoutsFailed *telemetry.Counter

	// Webhook counters
	WebhooksReceived         *telemetry.Counter
	WebhookSignatureFailures *telemetry.Counter

	// Ticket counters
	TicketsIssued   *telemetry.Counter
	TicketsRedeemed *telemetry.Counter

	// OversellCommits counts inventory commits that pushed quantity_sold
	// past quantity_available
	OversellCommits *telemetry.Counter

	// Error tracking
	ErrorsTotal       *telemetry.Counter
	SlowRequestsTotal *telemetry.Counter

	// Histograms
	PaymentLatency  *telemetry.Histogram
	BookingValue    *telemetry.Histogram
	RequestDuration *telemetry.Histogram

	// Gauges
	PendingBookings *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all instruments
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_created_total",
		Description: "Total number of bookings created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsConfirmed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_confirmed_total",
		Description: "Total number of bookings confirmed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_cancelled_total",
		Description: "Total number of bookings cancelled",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_failed_total",
		Description: "Total number of failed booking attempts",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	CheckoutsOpened, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "checkout_sessions_opened_total",
		Description: "Total number of checkout sessions opened",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	CheckoutsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "checkout_sessions_failed_total",
		Description: "Total number of checkout session failures",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	WebhooksReceived, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "payment_webhooks_total",
		Description: "Total number of payment webhooks received by type and outcome",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	WebhookSignatureFailures, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "payment_webhook_signature_failures_total",
		Description: "Total number of webhooks rejected for bad signatures",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsIssued, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "tickets_issued_total",
		Description: "Total number of tickets issued",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsRedeemed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "tickets_redeemed_total",
		Description: "Total number of tickets redeemed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	OversellCommits, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "inventory_oversell_commits_total",
		Description: "Inventory commits that exceeded quantity_available",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ErrorsTotal, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "eventhub_errors_total",
		Description: "Total number of errors by type and operation",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SlowRequestsTotal, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "eventhub_slow_requests_total",
		Description: "Total number of slow requests (>1s)",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	PaymentLatency, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "booking_payment_duration_seconds",
		Description: "Duration from booking creation to payment confirmation",
		Unit:        "s",
	}, []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}) // 1s to 1h
	if err != nil {
		return err
	}

	BookingValue, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "booking_value",
		Description: "Distribution of booking totals in major currency units",
		Unit:        "1",
	}, []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
	if err != nil {
		return err
	}

	RequestDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "eventhub_request_duration_seconds",
		Description: "HTTP request duration in seconds",
		Unit:        "s",
	}, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}) // 5ms to 10s
	if err != nil {
		return err
	}

	PendingBookings, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "bookings_pending",
		Description: "Current number of pending bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordBookingCreated records a created booking
func RecordBookingCreated(ctx context.Context, eventID string, quantity int, totalPrice float64) {
	if BookingsCreated != nil {
		BookingsCreated.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.Int("quantity", quantity),
		)
	}
	if BookingValue != nil {
		BookingValue.Record(ctx, totalPrice,
			attribute.String("event_id", eventID),
		)
	}
	if PendingBookings != nil {
		PendingBookings.Inc(ctx)
	}
}

// RecordConfirmation records a confirmed booking and its payment latency
func RecordConfirmation(ctx context.Context, eventID string, durationSeconds float64) {
	if BookingsConfirmed != nil {
		BookingsConfirmed.Inc(ctx,
			attribute.String("event_id", eventID),
		)
	}
	if PaymentLatency != nil {
		PaymentLatency.Record(ctx, durationSeconds,
			attribute.String("event_id", eventID),
		)
	}
	if PendingBookings != nil {
		PendingBookings.Dec(ctx)
	}
}

// RecordCancellation records a cancelled booking
func RecordCancellation(ctx context.Context, eventID, reason string) {
	if BookingsCancelled != nil {
		BookingsCancelled.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("reason", reason),
		)
	}
	if PendingBookings != nil {
		PendingBookings.Dec(ctx)
	}
}

// RecordBookingFailure records a failed booking attempt
func RecordBookingFailure(ctx context.Context, eventID, reason string) {
	if BookingsFailed != nil {
		BookingsFailed.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("reason", reason),
		)
	}
}

// RecordCheckoutOpened records an opened checkout session
func RecordCheckoutOpened(ctx context.Context, eventID string) {
	if CheckoutsOpened != nil {
		CheckoutsOpened.Inc(ctx,
			attribute.String("event_id", eventID),
		)
	}
}

// RecordCheckoutFailure records a checkout session failure
func RecordCheckoutFailure(ctx context.Context, reason string) {
	if CheckoutsFailed != nil {
		CheckoutsFailed.Inc(ctx,
			attribute.String("reason", reason),
		)
	}
}

// RecordWebhook records a processed webhook by type and outcome
func RecordWebhook(ctx context.Context, eventType, outcome string) {
	if WebhooksReceived != nil {
		WebhooksReceived.Inc(ctx,
			attribute.String("event_type", eventType),
			attribute.String("outcome", outcome),
		)
	}
}

// RecordSignatureFailure records a webhook rejected for a bad signature
func RecordSignatureFailure(ctx context.Context) {
	if WebhookSignatureFailures != nil {
		WebhookSignatureFailures.Inc(ctx)
	}
}

// RecordTicketsIssued records issued tickets
func RecordTicketsIssued(ctx context.Context, eventID string, count int64) {
	if TicketsIssued != nil {
		TicketsIssued.Add(ctx, count,
			attribute.String("event_id", eventID),
		)
	}
}

// RecordTicketRedeemed records a redeemed ticket
func RecordTicketRedeemed(ctx context.Context, eventID string) {
	if TicketsRedeemed != nil {
		TicketsRedeemed.Inc(ctx,
			attribute.String("event_id", eventID),
		)
	}
}

// RecordOversell records an inventory commit past quantity_available
func RecordOversell(ctx context.Context, ticketTypeID string) {
	if OversellCommits != nil {
		OversellCommits.Inc(ctx,
			attribute.String("ticket_type_id", ticketTypeID),
		)
	}
}

// RecordError records an error by type and operation
func RecordError(ctx context.Context, errorType, operation string) {
	if ErrorsTotal != nil {
		ErrorsTotal.Inc(ctx,
			attribute.String("error_type", errorType),
			attribute.String("operation", operation),
		)
	}
}

// RecordRequestDuration records HTTP request duration and tracks slow requests
func RecordRequestDuration(ctx context.Context, route string, statusCode int, durationSeconds float64) {
	if RequestDuration != nil {
		RequestDuration.Record(ctx, durationSeconds,
			attribute.String("route", route),
			attribute.Int("status_code", statusCode),
		)
	}
	if durationSeconds > 1.0 && SlowRequestsTotal != nil {
		SlowRequestsTotal.Inc(ctx,
			attribute.String("route", route),
		)
	}
}
