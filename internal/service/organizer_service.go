package service

import (
	"context"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/gateway"
	"github.com/re5pectR10/eventhub/internal/repository"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// OrganizerService defines the interface for organizer accounts
type OrganizerService interface {
	// Register registers the caller as an organizer
	Register(ctx context.Context, req *dto.RegisterOrganizerRequest) (*domain.Organizer, error)

	// GetOwn retrieves the caller's organizer profile
	GetOwn(ctx context.Context, userID string) (*domain.Organizer, error)

	// SyncFromAccount maps a processor account snapshot onto the owning
	// organizer's verification status. Returns the organizer and whether
	// anything was persisted; an unknown account returns (nil, false, nil).
	SyncFromAccount(ctx context.Context, info *gateway.AccountInfo) (*domain.Organizer, bool, error)
}

// organizerService implements OrganizerService
type organizerService struct {
	organizerRepo repository.OrganizerRepository
}

// NewOrganizerService creates a new organizer service
func NewOrganizerService(organizerRepo repository.OrganizerRepository) OrganizerService {
	return &organizerService{organizerRepo: organizerRepo}
}

// Register registers the caller as an organizer
func (s *organizerService) Register(ctx context.Context, req *dto.RegisterOrganizerRequest) (*domain.Organizer, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.organizer.register")
	defer span.End()

	// Validate request
	if req == nil || req.UserID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	span.SetAttributes(attribute.String("user_id", req.UserID))

	existing, err := s.organizerRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "already registered")
		return nil, domain.ErrOrganizerAlreadyExists
	}

	organizer, err := domain.NewOrganizer(req.UserID, req.Name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	organizer.StripeAccountID = req.StripeAccountID

	if err := s.organizerRepo.Create(ctx, organizer); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("organizer_id", organizer.ID))
	span.SetStatus(codes.Ok, "")
	return organizer, nil
}

// GetOwn retrieves the caller's organizer profile
func (s *organizerService) GetOwn(ctx context.Context, userID string) (*domain.Organizer, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.organizer.get_own")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	organizer, err := s.organizerRepo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if organizer == nil {
		span.SetStatus(codes.Error, "organizer not found")
		return nil, domain.ErrOrganizerNotFound
	}

	span.SetStatus(codes.Ok, "")
	return organizer, nil
}

// SyncFromAccount maps a processor account snapshot onto the owning
// organizer's verification status
func (s *organizerService) SyncFromAccount(ctx context.Context, info *gateway.AccountInfo) (*domain.Organizer, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.organizer.sync_account")
	defer span.End()

	if info == nil || info.AccountID == "" {
		span.SetStatus(codes.Error, "missing account id")
		return nil, false, domain.ErrOrganizerNotFound
	}

	span.SetAttributes(attribute.String("account_id", info.AccountID))

	organizer, err := s.organizerRepo.GetByStripeAccountID(ctx, info.AccountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if organizer == nil {
		// Accounts not linked to any organizer are ignored
		span.SetStatus(codes.Ok, "account not mapped")
		return nil, false, nil
	}

	status := domain.VerificationStatusRejected
	switch {
	case info.ChargesEnabled && info.PayoutsEnabled:
		status = domain.VerificationStatusVerified
	case len(info.CurrentlyDue) > 0:
		status = domain.VerificationStatusPending
	}

	span.SetAttributes(
		attribute.String("organizer_id", organizer.ID),
		attribute.String("verification_status", string(status)),
	)

	if !organizer.SyncVerification(status) {
		span.SetStatus(codes.Ok, "unchanged")
		return organizer, false, nil
	}

	if err := s.organizerRepo.Update(ctx, organizer); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	span.SetStatus(codes.Ok, "")
	return organizer, true, nil
}
