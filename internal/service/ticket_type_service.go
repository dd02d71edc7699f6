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

// TicketTypeService defines the interface for ticket type management
type TicketTypeService interface {
	// Create adds a ticket type to an event owned by the caller's organizer
	Create(ctx context.Context, eventID, userID string, req *dto.CreateTicketTypeRequest) (*domain.TicketType, error)

	// ListByEvent lists the ticket types of an event
	ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error)

	// Update updates a ticket type owned by the caller's organizer
	Update(ctx context.Context, ticketTypeID, userID string, req *dto.UpdateTicketTypeRequest) (*domain.TicketType, error)

	// Delete soft-deletes a ticket type that has no sales yet
	Delete(ctx context.Context, ticketTypeID, userID string) error
}

// ticketTypeService implements TicketTypeService
type ticketTypeService struct {
	ticketTypeRepo repository.TicketTypeRepository
	eventRepo      repository.EventRepository
	organizerRepo  repository.OrganizerRepository
}

// NewTicketTypeService creates a new ticket type service
func NewTicketTypeService(
	ticketTypeRepo repository.TicketTypeRepository,
	eventRepo repository.EventRepository,
	organizerRepo repository.OrganizerRepository,
) TicketTypeService {
	return &ticketTypeService{
		ticketTypeRepo: ticketTypeRepo,
		eventRepo:      eventRepo,
		organizerRepo:  organizerRepo,
	}
}

// Create adds a ticket type to an event owned by the caller's organizer
func (s *ticketTypeService) Create(ctx context.Context, eventID, userID string, req *dto.CreateTicketTypeRequest) (*domain.TicketType, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("user_id", userID),
	)

	// Validate request
	if req == nil {
		span.SetStatus(codes.Error, "invalid quantity")
		return nil, domain.ErrInvalidQuantity
	}

	if err := s.authorizeEvent(ctx, span, eventID, userID); err != nil {
		return nil, err
	}

	ticketType, err := domain.NewTicketType(eventID, req.Name, req.Price, req.Currency, req.QuantityAvailable)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ticketType.Description = req.Description
	ticketType.MaxPerOrder = req.MaxPerOrder
	ticketType.SaleStartAt = req.SaleStartAt
	ticketType.SaleEndAt = req.SaleEndAt

	if err := s.ticketTypeRepo.Create(ctx, ticketType); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("ticket_type_id", ticketType.ID))
	span.SetStatus(codes.Ok, "")
	return ticketType, nil
}

// ListByEvent lists the ticket types of an event
func (s *ticketTypeService) ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.list")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	ticketTypes, err := s.ticketTypeRepo.ListByEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(ticketTypes)))
	span.SetStatus(codes.Ok, "")
	return ticketTypes, nil
}

// Update updates a ticket type owned by the caller's organizer
func (s *ticketTypeService) Update(ctx context.Context, ticketTypeID, userID string, req *dto.UpdateTicketTypeRequest) (*domain.TicketType, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.update")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", ticketTypeID),
		attribute.String("user_id", userID),
	)

	if ticketTypeID == "" {
		span.SetStatus(codes.Error, "invalid ticket_type_id")
		return nil, domain.ErrInvalidTicketTypeID
	}

	ticketType, err := s.ticketTypeRepo.GetByID(ctx, ticketTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.authorizeEvent(ctx, span, ticketType.EventID, userID); err != nil {
		return nil, err
	}

	if req != nil {
		if req.Name != nil {
			ticketType.Name = *req.Name
		}
		if req.Description != nil {
			ticketType.Description = *req.Description
		}
		if req.Price != nil {
			if *req.Price < 0 {
				span.SetStatus(codes.Error, "invalid price")
				return nil, domain.ErrInvalidPrice
			}
			ticketType.Price = *req.Price
		}
		if req.QuantityAvailable != nil {
			// Capacity can never drop below what was already sold
			if *req.QuantityAvailable < ticketType.QuantitySold {
				span.SetStatus(codes.Error, "capacity below sold")
				return nil, domain.ErrInvalidCapacity
			}
			ticketType.QuantityAvailable = *req.QuantityAvailable
		}
		if req.MaxPerOrder != nil {
			ticketType.MaxPerOrder = *req.MaxPerOrder
		}
		if req.SaleStartAt != nil {
			ticketType.SaleStartAt = req.SaleStartAt
		}
		if req.SaleEndAt != nil {
			ticketType.SaleEndAt = req.SaleEndAt
		}
	}

	if err := s.ticketTypeRepo.Update(ctx, ticketType); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return ticketType, nil
}

// Delete soft-deletes a ticket type that has no sales yet
func (s *ticketTypeService) Delete(ctx context.Context, ticketTypeID, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", ticketTypeID),
		attribute.String("user_id", userID),
	)

	if ticketTypeID == "" {
		span.SetStatus(codes.Error, "invalid ticket_type_id")
		return domain.ErrInvalidTicketTypeID
	}

	ticketType, err := s.ticketTypeRepo.GetByID(ctx, ticketTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.authorizeEvent(ctx, span, ticketType.EventID, userID); err != nil {
		return err
	}

	if err := s.ticketTypeRepo.Delete(ctx, ticketTypeID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// authorizeEvent checks that userID's organizer owns the event
func (s *ticketTypeService) authorizeEvent(ctx context.Context, span trace.Span, eventID, userID string) error {
	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return domain.ErrInvalidEventID
	}
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return domain.ErrInvalidUserID
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	organizer, err := s.organizerRepo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if organizer == nil || organizer.ID != event.OrganizerID {
		span.SetStatus(codes.Error, "forbidden")
		return domain.ErrForbidden
	}

	return nil
}
