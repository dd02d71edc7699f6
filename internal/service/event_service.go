package service

import (
	"context"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/repository"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EventService defines the interface for event listing management
type EventService interface {
	// Create creates a draft event owned by the caller's organizer
	Create(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error)

	// Get retrieves an event by ID
	Get(ctx context.Context, eventID string) (*domain.Event, error)

	// List lists events. Without an organizer scope only published
	// events are returned.
	List(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error)

	// Update updates an event owned by the caller's organizer
	Update(ctx context.Context, eventID, userID string, req *dto.UpdateEventRequest) (*domain.Event, error)

	// Publish moves a draft event with at least one ticket type to published
	Publish(ctx context.Context, eventID, userID string) (*domain.Event, error)

	// Cancel cancels an event owned by the caller's organizer
	Cancel(ctx context.Context, eventID, userID string) (*domain.Event, error)
}

// eventService implements EventService
type eventService struct {
	eventRepo      repository.EventRepository
	ticketTypeRepo repository.TicketTypeRepository
	organizerRepo  repository.OrganizerRepository
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repository.EventRepository,
	ticketTypeRepo repository.TicketTypeRepository,
	organizerRepo repository.OrganizerRepository,
) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		ticketTypeRepo: ticketTypeRepo,
		organizerRepo:  organizerRepo,
	}
}

// Create creates a draft event owned by the caller's organizer
func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	// Validate request
	if req == nil || req.UserID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	span.SetAttributes(attribute.String("user_id", req.UserID))

	organizer, err := s.organizerRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if organizer == nil {
		span.SetStatus(codes.Error, "organizer not found")
		return nil, domain.ErrOrganizerNotFound
	}

	event, err := domain.NewEvent(organizer.ID, req.Title, req.StartAt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	event.Description = req.Description
	event.Venue = req.Venue
	event.EndAt = req.EndAt

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("event_id", event.ID))
	span.SetStatus(codes.Ok, "")
	return event, nil
}

// Get retrieves an event by ID
func (s *eventService) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// List lists events
func (s *eventService) List(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	if filter == nil {
		filter = &dto.EventListFilter{}
	}
	filter.SetDefaults()

	// Unscoped callers only ever see published listings
	status := filter.Status
	if filter.OrganizerID == "" {
		status = string(domain.EventStatusPublished)
	}

	span.SetAttributes(
		attribute.String("status", status),
		attribute.Int("limit", filter.Limit),
		attribute.Int("offset", filter.Offset),
	)

	events, total, err := s.eventRepo.List(ctx, &repository.EventFilter{
		Status:      status,
		OrganizerID: filter.OrganizerID,
		Search:      filter.Search,
		Upcoming:    filter.Upcoming,
	}, filter.Limit, filter.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	return events, total, nil
}

// Update updates an event owned by the caller's organizer
func (s *eventService) Update(ctx context.Context, eventID, userID string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.update")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("user_id", userID),
	)

	event, err := s.ownedEvent(ctx, span, eventID, userID)
	if err != nil {
		return nil, err
	}

	if req != nil {
		if req.Title != nil {
			event.Title = *req.Title
		}
		if req.Description != nil {
			event.Description = *req.Description
		}
		if req.Venue != nil {
			event.Venue = *req.Venue
		}
		if req.StartAt != nil {
			event.StartAt = *req.StartAt
		}
		if req.EndAt != nil {
			event.EndAt = req.EndAt
		}
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// Publish moves a draft event with at least one ticket type to published
func (s *eventService) Publish(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("user_id", userID),
	)

	event, err := s.ownedEvent(ctx, span, eventID, userID)
	if err != nil {
		return nil, err
	}

	// An event with nothing to sell cannot go live
	count, err := s.ticketTypeRepo.CountByEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if count == 0 {
		span.SetStatus(codes.Error, "no ticket types")
		return nil, domain.ErrEventHasNoTicketTypes
	}

	if err := event.Publish(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Add span event for event published
	span.AddEvent("event_published", trace.WithAttributes(
		attribute.String("event_id", event.ID),
		attribute.Int("ticket_type_count", count),
	))

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// Cancel cancels an event owned by the caller's organizer
func (s *eventService) Cancel(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("user_id", userID),
	)

	event, err := s.ownedEvent(ctx, span, eventID, userID)
	if err != nil {
		return nil, err
	}

	if err := event.Cancel(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// ownedEvent loads an event and checks that userID's organizer owns it
func (s *eventService) ownedEvent(ctx context.Context, span trace.Span, eventID, userID string) (*domain.Event, error) {
	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
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

	return event, nil
}
