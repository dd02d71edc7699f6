package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresBookingRepository implements BookingRepository using PostgreSQL with pgxpool
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// bookingColumns defines the columns to select for bookings.
// COALESCE keeps nullable string columns scannable into plain strings.
const bookingColumns = `id,
	COALESCE(user_id, '') as user_id,
	COALESCE(customer_name, '') as customer_name,
	COALESCE(customer_email, '') as customer_email,
	COALESCE(customer_phone, '') as customer_phone,
	event_id, status, total_price, currency,
	COALESCE(checkout_session_id, '') as checkout_session_id,
	COALESCE(payment_intent_id, '') as payment_intent_id,
	created_at, updated_at, confirmed_at, cancelled_at`

const bookingItemColumns = `id, booking_id, ticket_type_id, quantity, unit_price, created_at`

// Create creates a booking and its items in a single transaction
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("user_id", booking.UserID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("item_count", len(booking.Items)),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bookingQuery := `
		INSERT INTO bookings (
			id, user_id, customer_name, customer_email, customer_phone,
			event_id, status, total_price, currency,
			checkout_session_id, payment_intent_id,
			created_at, updated_at, confirmed_at, cancelled_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err = tx.Exec(ctx, bookingQuery,
		booking.ID,
		nullString(booking.UserID),
		nullString(booking.CustomerName),
		nullString(booking.CustomerEmail),
		nullString(booking.CustomerPhone),
		booking.EventID,
		string(booking.Status),
		booking.TotalPrice,
		booking.Currency,
		nullString(booking.CheckoutSessionID),
		nullString(booking.PaymentIntentID),
		booking.CreatedAt,
		booking.UpdatedAt,
		booking.ConfirmedAt,
		booking.CancelledAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	itemQuery := `
		INSERT INTO booking_items (
			id, booking_id, ticket_type_id, quantity, unit_price, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, item := range booking.Items {
		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			item.BookingID,
			item.TicketTypeID,
			item.Quantity,
			item.UnitPrice,
			item.CreatedAt,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to create booking item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking with its items
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if err := r.loadItems(ctx, []*domain.Booking{booking}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// GetByCheckoutSessionID retrieves the booking that references a checkout
// session. Returns (nil, nil) when none does.
func (r *PostgresBookingRepository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_checkout_session")
	defer span.End()

	span.SetAttributes(attribute.String("checkout_session_id", sessionID))

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE checkout_session_id = $1`, bookingColumns)

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking by checkout session: %w", err)
	}

	if err := r.loadItems(ctx, []*domain.Booking{booking}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ListByUser retrieves a user's bookings with items and pagination
func (r *PostgresBookingRepository) ListByUser(ctx context.Context, userID string, filter *BookingFilter, limit, offset int) ([]*domain.Booking, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_user")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	conditions := "user_id = $1"
	args := []interface{}{userID}
	argIndex := 2

	if filter != nil {
		if filter.Status != "" {
			conditions += fmt.Sprintf(" AND status = $%d", argIndex)
			args = append(args, filter.Status)
			argIndex++
		}
		if filter.EventID != "" {
			conditions += fmt.Sprintf(" AND event_id = $%d", argIndex)
			args = append(args, filter.EventID)
			argIndex++
		}
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bookings WHERE %s`, conditions)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, bookingColumns, conditions, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, 0, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("error iterating bookings: %w", err)
	}

	if err := r.loadItems(ctx, bookings); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, total, nil
}

// SetCheckoutSession records the checkout session opened for a booking
func (r *PostgresBookingRepository) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.set_checkout_session")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", id),
		attribute.String("checkout_session_id", sessionID),
	)

	query := `
		UPDATE bookings SET
			checkout_session_id = $2,
			updated_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, sessionID, time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to set checkout session: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Confirm transitions a pending booking to confirmed. The status condition
// makes the transition race-safe: only one caller ever flips the row.
func (r *PostgresBookingRepository) Confirm(ctx context.Context, id, paymentIntentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.confirm")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", id),
		attribute.String("payment_intent_id", paymentIntentID),
	)

	query := `
		UPDATE bookings SET
			status = $2,
			payment_intent_id = $3,
			confirmed_at = $4,
			updated_at = $4
		WHERE id = $1 AND status = 'pending'
	`

	now := time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, id, string(domain.BookingStatusConfirmed), nullString(paymentIntentID), now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		status, err := r.probeStatus(ctx, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		switch status {
		case domain.BookingStatusConfirmed:
			span.SetStatus(codes.Ok, "already confirmed")
			return domain.ErrBookingAlreadyConfirmed
		case domain.BookingStatusCancelled:
			span.SetStatus(codes.Error, "already cancelled")
			return domain.ErrBookingAlreadyCancelled
		}
		span.SetStatus(codes.Error, "not pending")
		return domain.ErrBookingNotPending
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Cancel transitions a pending booking to cancelled
func (r *PostgresBookingRepository) Cancel(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.cancel")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	query := `
		UPDATE bookings SET
			status = $2,
			cancelled_at = $3,
			updated_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	now := time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, id, string(domain.BookingStatusCancelled), now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		status, err := r.probeStatus(ctx, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		switch status {
		case domain.BookingStatusCancelled:
			span.SetStatus(codes.Error, "already cancelled")
			return domain.ErrBookingAlreadyCancelled
		case domain.BookingStatusConfirmed:
			span.SetStatus(codes.Error, "already confirmed")
			return domain.ErrBookingNotPending
		}
		span.SetStatus(codes.Error, "not pending")
		return domain.ErrBookingNotPending
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// probeStatus reads the current status after a conditional update matched
// no rows, to report why the transition was rejected.
func (r *PostgresBookingRepository) probeStatus(ctx context.Context, id string) (domain.BookingStatus, error) {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrBookingNotFound
		}
		return "", fmt.Errorf("failed to check booking status: %w", err)
	}
	return domain.BookingStatus(status), nil
}

// loadItems attaches booking items to the given bookings in one query
func (r *PostgresBookingRepository) loadItems(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]string, 0, len(bookings))
	byID := make(map[string]*domain.Booking, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		byID[b.ID] = b
	}

	query := fmt.Sprintf(`
		SELECT %s FROM booking_items
		WHERE booking_id = ANY($1)
		ORDER BY created_at
	`, bookingItemColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load booking items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &domain.BookingItem{}
		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.TicketTypeID,
			&item.Quantity,
			&item.UnitPrice,
			&item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan booking item: %w", err)
		}
		if booking, ok := byID[item.BookingID]; ok {
			booking.Items = append(booking.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating booking items: %w", err)
	}
	return nil
}

// scanBooking scans a row into a Booking struct
func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var status string

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.EventID,
		&status,
		&booking.TotalPrice,
		&booking.Currency,
		&booking.CheckoutSessionID,
		&booking.PaymentIntentID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	return booking, nil
}

// nullString converts an empty string to a nil pointer for nullable columns
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Ensure PostgresBookingRepository implements BookingRepository
var _ BookingRepository = (*PostgresBookingRepository)(nil)
