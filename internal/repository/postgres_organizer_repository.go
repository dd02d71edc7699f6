package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresOrganizerRepository implements OrganizerRepository using PostgreSQL
type PostgresOrganizerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrganizerRepository creates a new PostgresOrganizerRepository
func NewPostgresOrganizerRepository(pool *pgxpool.Pool) *PostgresOrganizerRepository {
	return &PostgresOrganizerRepository{pool: pool}
}

// organizerColumns defines the columns to select for organizers
const organizerColumns = `id, user_id, name,
	COALESCE(stripe_account_id, '') as stripe_account_id,
	verification_status, created_at, updated_at`

// Create creates a new organizer
func (r *PostgresOrganizerRepository) Create(ctx context.Context, organizer *domain.Organizer) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.organizer.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("organizer_id", organizer.ID),
		attribute.String("user_id", organizer.UserID),
	)

	query := `
		INSERT INTO organizers (
			id, user_id, name, stripe_account_id, verification_status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		organizer.ID,
		organizer.UserID,
		organizer.Name,
		nullString(organizer.StripeAccountID),
		string(organizer.VerificationStatus),
		organizer.CreatedAt,
		organizer.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create organizer: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves an organizer by ID
func (r *PostgresOrganizerRepository) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.organizer.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("organizer_id", id))

	query := fmt.Sprintf(`SELECT %s FROM organizers WHERE id = $1`, organizerColumns)

	organizer, err := scanOrganizer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrOrganizerNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get organizer: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return organizer, nil
}

// GetByUserID retrieves the organizer owned by a user.
// Returns (nil, nil) when the user has none.
func (r *PostgresOrganizerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Organizer, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.organizer.get_by_user_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := fmt.Sprintf(`SELECT %s FROM organizers WHERE user_id = $1`, organizerColumns)

	organizer, err := scanOrganizer(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get organizer by user: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return organizer, nil
}

// GetByStripeAccountID retrieves an organizer by connected account.
// Returns (nil, nil) when no organizer matches.
func (r *PostgresOrganizerRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*domain.Organizer, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.organizer.get_by_stripe_account")
	defer span.End()

	span.SetAttributes(attribute.String("stripe_account_id", accountID))

	query := fmt.Sprintf(`SELECT %s FROM organizers WHERE stripe_account_id = $1`, organizerColumns)

	organizer, err := scanOrganizer(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get organizer by stripe account: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return organizer, nil
}

// Update updates an organizer
func (r *PostgresOrganizerRepository) Update(ctx context.Context, organizer *domain.Organizer) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.organizer.update")
	defer span.End()

	span.SetAttributes(attribute.String("organizer_id", organizer.ID))

	query := `
		UPDATE organizers SET
			name = $2,
			stripe_account_id = $3,
			verification_status = $4,
			updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		organizer.ID,
		organizer.Name,
		nullString(organizer.StripeAccountID),
		string(organizer.VerificationStatus),
		organizer.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update organizer: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrOrganizerNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// scanOrganizer scans a row into an Organizer struct
func scanOrganizer(row pgx.Row) (*domain.Organizer, error) {
	organizer := &domain.Organizer{}
	var status string

	err := row.Scan(
		&organizer.ID,
		&organizer.UserID,
		&organizer.Name,
		&organizer.StripeAccountID,
		&status,
		&organizer.CreatedAt,
		&organizer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	organizer.VerificationStatus = domain.VerificationStatus(status)
	return organizer, nil
}

// Ensure PostgresOrganizerRepository implements OrganizerRepository
var _ OrganizerRepository = (*PostgresOrganizerRepository)(nil)
