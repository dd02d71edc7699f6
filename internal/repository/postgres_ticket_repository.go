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

// PostgresTicketRepository implements TicketRepository using PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

// ticketColumns defines the columns to select for tickets
const ticketColumns = `id, booking_id, booking_item_id, event_id, ticket_type_id,
	ticket_code, qr_code, status, issued_at, redeemed_at`

// CreateBatch inserts a batch of tickets in one transaction
func (r *PostgresTicketRepository) CreateBatch(ctx context.Context, tickets []*domain.Ticket) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.create_batch")
	defer span.End()

	span.SetAttributes(attribute.Int("ticket_count", len(tickets)))

	if len(tickets) == 0 {
		span.SetStatus(codes.Ok, "")
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO tickets (
			id, booking_id, booking_item_id, event_id, ticket_type_id,
			ticket_code, qr_code, status, issued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, ticket := range tickets {
		_, err = tx.Exec(ctx, query,
			ticket.ID,
			ticket.BookingID,
			ticket.BookingItemID,
			ticket.EventID,
			ticket.TicketTypeID,
			ticket.TicketCode,
			ticket.QRCode,
			string(ticket.Status),
			ticket.IssuedAt,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to create ticket: %w", err)
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

// GetByCode retrieves a ticket by its scannable code
func (r *PostgresTicketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.get_by_code")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_code", code))

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_code = $1`, ticketColumns)

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrTicketNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// ListByBooking retrieves all tickets issued for a booking
func (r *PostgresTicketRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.list_by_booking")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	query := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE booking_id = $1
		ORDER BY issued_at, ticket_code
	`, ticketColumns)

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// ListByUser retrieves all tickets across a user's bookings
func (r *PostgresTicketRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.list_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT t.id, t.booking_id, t.booking_item_id, t.event_id, t.ticket_type_id,
			t.ticket_code, t.qr_code, t.status, t.issued_at, t.redeemed_at
		FROM tickets t
		JOIN bookings b ON b.id = t.booking_id
		WHERE b.user_id = $1
		ORDER BY t.issued_at DESC, t.ticket_code
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// CountByBookingItem counts tickets already issued for a booking item
func (r *PostgresTicketRepository) CountByBookingItem(ctx context.Context, bookingItemID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.count_by_booking_item")
	defer span.End()

	span.SetAttributes(attribute.String("booking_item_id", bookingItemID))

	var count int
	query := `SELECT COUNT(*) FROM tickets WHERE booking_item_id = $1`
	if err := r.pool.QueryRow(ctx, query, bookingItemID).Scan(&count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	span.SetAttributes(attribute.Int("count", count))
	span.SetStatus(codes.Ok, "")
	return count, nil
}

// MarkRedeemed transitions a valid ticket to redeemed. The status condition
// lets exactly one of two concurrent scans win.
func (r *PostgresTicketRepository) MarkRedeemed(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.mark_redeemed")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	query := `
		UPDATE tickets SET
			status = $2,
			redeemed_at = $3
		WHERE id = $1 AND status = 'valid'
	`

	result, err := r.pool.Exec(ctx, query, id, string(domain.TicketStatusRedeemed), time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to redeem ticket: %w", err)
	}

	if result.RowsAffected() == 0 {
		var status string
		err := r.pool.QueryRow(ctx, `SELECT status FROM tickets WHERE id = $1`, id).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "not found")
				return domain.ErrTicketNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to check ticket status: %w", err)
		}
		if domain.TicketStatus(status) == domain.TicketStatusRedeemed {
			span.SetStatus(codes.Error, "already redeemed")
			return domain.ErrTicketAlreadyRedeemed
		}
		span.SetStatus(codes.Error, "not valid")
		return domain.ErrTicketNotValid
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// scanTicket scans a row into a Ticket struct
func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	var status string

	err := row.Scan(
		&ticket.ID,
		&ticket.BookingID,
		&ticket.BookingItemID,
		&ticket.EventID,
		&ticket.TicketTypeID,
		&ticket.TicketCode,
		&ticket.QRCode,
		&status,
		&ticket.IssuedAt,
		&ticket.RedeemedAt,
	)
	if err != nil {
		return nil, err
	}

	ticket.Status = domain.TicketStatus(status)
	return ticket, nil
}

// Ensure PostgresTicketRepository implements TicketRepository
var _ TicketRepository = (*PostgresTicketRepository)(nil)
