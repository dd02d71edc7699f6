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

// PostgresTicketTypeRepository implements TicketTypeRepository using PostgreSQL
type PostgresTicketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketTypeRepository creates a new PostgresTicketTypeRepository
func NewPostgresTicketTypeRepository(pool *pgxpool.Pool) *PostgresTicketTypeRepository {
	return &PostgresTicketTypeRepository{pool: pool}
}

// ticketTypeColumns defines the columns to select for ticket types
const ticketTypeColumns = `id, event_id, name,
	COALESCE(description, '') as description,
	price, currency, quantity_available, quantity_sold, max_per_order,
	sale_start_at, sale_end_at, created_at, updated_at`

// Create creates a new ticket type
func (r *PostgresTicketTypeRepository) Create(ctx context.Context, ticketType *domain.TicketType) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", ticketType.ID),
		attribute.String("event_id", ticketType.EventID),
	)

	query := `
		INSERT INTO ticket_types (
			id, event_id, name, description, price, currency,
			quantity_available, quantity_sold, max_per_order,
			sale_start_at, sale_end_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := r.pool.Exec(ctx, query,
		ticketType.ID,
		ticketType.EventID,
		ticketType.Name,
		nullString(ticketType.Description),
		ticketType.Price,
		ticketType.Currency,
		ticketType.QuantityAvailable,
		ticketType.QuantitySold,
		ticketType.MaxPerOrder,
		ticketType.SaleStartAt,
		ticketType.SaleEndAt,
		ticketType.CreatedAt,
		ticketType.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create ticket type: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a ticket type by ID
func (r *PostgresTicketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", id))

	query := fmt.Sprintf(`SELECT %s FROM ticket_types WHERE id = $1 AND deleted_at IS NULL`, ticketTypeColumns)

	ticketType, err := scanTicketType(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrTicketTypeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return ticketType, nil
}

// ListByEvent retrieves all ticket types of an event
func (r *PostgresTicketTypeRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.list_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := fmt.Sprintf(`
		SELECT %s FROM ticket_types
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY price, created_at
	`, ticketTypeColumns)

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}
	defer rows.Close()

	var ticketTypes []*domain.TicketType
	for rows.Next() {
		ticketType, err := scanTicketType(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		ticketTypes = append(ticketTypes, ticketType)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating ticket types: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(ticketTypes)))
	span.SetStatus(codes.Ok, "")
	return ticketTypes, nil
}

// CountByEvent counts the ticket types of an event
func (r *PostgresTicketTypeRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.count_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	var count int
	query := `SELECT COUNT(*) FROM ticket_types WHERE event_id = $1 AND deleted_at IS NULL`
	if err := r.pool.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to count ticket types: %w", err)
	}

	span.SetAttributes(attribute.Int("count", count))
	span.SetStatus(codes.Ok, "")
	return count, nil
}

// Update updates a ticket type
func (r *PostgresTicketTypeRepository) Update(ctx context.Context, ticketType *domain.TicketType) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.update")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketType.ID))

	query := `
		UPDATE ticket_types SET
			name = $2,
			description = $3,
			price = $4,
			quantity_available = $5,
			max_per_order = $6,
			sale_start_at = $7,
			sale_end_at = $8,
			updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	ticketType.UpdatedAt = time.Now().UTC()
	result, err := r.pool.Exec(ctx, query,
		ticketType.ID,
		ticketType.Name,
		nullString(ticketType.Description),
		ticketType.Price,
		ticketType.QuantityAvailable,
		ticketType.MaxPerOrder,
		ticketType.SaleStartAt,
		ticketType.SaleEndAt,
		ticketType.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update ticket type: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrTicketTypeNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete soft deletes a ticket type. The quantity_sold condition keeps
// types with sales undeletable even under concurrent commits.
func (r *PostgresTicketTypeRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.delete")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", id))

	query := `
		UPDATE ticket_types
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL AND quantity_sold = 0
	`

	result, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete ticket type: %w", err)
	}

	if result.RowsAffected() == 0 {
		var sold int
		err := r.pool.QueryRow(ctx, `SELECT quantity_sold FROM ticket_types WHERE id = $1 AND deleted_at IS NULL`, id).Scan(&sold)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "not found")
				return domain.ErrTicketTypeNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to check ticket type sales: %w", err)
		}
		span.SetStatus(codes.Error, "has sales")
		return domain.ErrTicketTypeHasSales
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// CommitSold atomically increments quantity_sold and returns the updated
// counters. No availability check happens here: payment already succeeded,
// so the commit always lands, even past quantity_available.
func (r *PostgresTicketTypeRepository) CommitSold(ctx context.Context, id string, quantity int) (int, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.commit_sold")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", id),
		attribute.Int("quantity", quantity),
	)

	query := `
		UPDATE ticket_types SET
			quantity_sold = quantity_sold + $2,
			updated_at = $3
		WHERE id = $1
		RETURNING quantity_sold, quantity_available
	`

	var sold, available int
	err := r.pool.QueryRow(ctx, query, id, quantity, time.Now().UTC()).Scan(&sold, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return 0, 0, domain.ErrTicketTypeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, fmt.Errorf("failed to commit sold quantity: %w", err)
	}

	span.SetAttributes(attribute.Int("quantity_sold", sold))
	span.SetStatus(codes.Ok, "")
	return sold, available, nil
}

// scanTicketType scans a row into a TicketType struct
func scanTicketType(row pgx.Row) (*domain.TicketType, error) {
	ticketType := &domain.TicketType{}
	err := row.Scan(
		&ticketType.ID,
		&ticketType.EventID,
		&ticketType.Name,
		&ticketType.Description,
		&ticketType.Price,
		&ticketType.Currency,
		&ticketType.QuantityAvailable,
		&ticketType.QuantitySold,
		&ticketType.MaxPerOrder,
		&ticketType.SaleStartAt,
		&ticketType.SaleEndAt,
		&ticketType.CreatedAt,
		&ticketType.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ticketType, nil
}

// Ensure PostgresTicketTypeRepository implements TicketTypeRepository
var _ TicketTypeRepository = (*PostgresTicketTypeRepository)(nil)
