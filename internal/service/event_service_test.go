package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/repository"
)

func ownOrganizer() *domain.Organizer {
	return &domain.Organizer{ID: "org-1", UserID: "user-1", Name: "Live Nation"}
}

func TestEventService_Create(t *testing.T) {
	t.Run("creates a draft for the caller's organizer", func(t *testing.T) {
		var created *domain.Event
		mockEventRepo := &MockEventRepository{
			CreateFunc: func(ctx context.Context, event *domain.Event) error {
				created = event
				return nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return ownOrganizer(), nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, mockOrganizerRepo)

		event, err := svc.Create(context.Background(), &dto.CreateEventRequest{
			UserID:  "user-1",
			Title:   "Summer Festival",
			Venue:   "Central Park",
			StartAt: time.Now().Add(48 * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create() unexpected error = %v", err)
		}
		if created == nil {
			t.Fatal("event was not persisted")
		}
		if event.Status != domain.EventStatusDraft {
			t.Errorf("status = %q, want %q", event.Status, domain.EventStatusDraft)
		}
		if event.OrganizerID != "org-1" {
			t.Errorf("organizer id = %q, want org-1", event.OrganizerID)
		}
		if event.Venue != "Central Park" {
			t.Errorf("venue = %q, want Central Park", event.Venue)
		}
	})

	t.Run("user without an organizer profile", func(t *testing.T) {
		svc := NewEventService(&MockEventRepository{}, &MockTicketTypeRepository{}, &MockOrganizerRepository{})

		_, err := svc.Create(context.Background(), &dto.CreateEventRequest{
			UserID:  "user-1",
			Title:   "Summer Festival",
			StartAt: time.Now().Add(48 * time.Hour),
		})
		if !errors.Is(err, domain.ErrOrganizerNotFound) {
			t.Errorf("Create() error = %v, want %v", err, domain.ErrOrganizerNotFound)
		}
	})
}

func TestEventService_List(t *testing.T) {
	t.Run("public listing is pinned to published", func(t *testing.T) {
		var gotFilter *repository.EventFilter
		mockEventRepo := &MockEventRepository{
			ListFunc: func(ctx context.Context, filter *repository.EventFilter, limit, offset int) ([]*domain.Event, int, error) {
				gotFilter = filter
				return []*domain.Event{}, 0, nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, &MockOrganizerRepository{})

		_, _, err := svc.List(context.Background(), &dto.EventListFilter{Status: "draft"})
		if err != nil {
			t.Fatalf("List() unexpected error = %v", err)
		}
		if gotFilter.Status != string(domain.EventStatusPublished) {
			t.Errorf("status = %q, want forced %q", gotFilter.Status, domain.EventStatusPublished)
		}
	})

	t.Run("organizer scope keeps the requested status", func(t *testing.T) {
		var gotFilter *repository.EventFilter
		mockEventRepo := &MockEventRepository{
			ListFunc: func(ctx context.Context, filter *repository.EventFilter, limit, offset int) ([]*domain.Event, int, error) {
				gotFilter = filter
				return []*domain.Event{}, 0, nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, &MockOrganizerRepository{})

		_, _, err := svc.List(context.Background(), &dto.EventListFilter{Status: "draft", OrganizerID: "org-1"})
		if err != nil {
			t.Fatalf("List() unexpected error = %v", err)
		}
		if gotFilter.Status != "draft" {
			t.Errorf("status = %q, want draft", gotFilter.Status)
		}
		if gotFilter.OrganizerID != "org-1" {
			t.Errorf("organizer id = %q, want org-1", gotFilter.OrganizerID)
		}
	})
}

func TestEventService_Update(t *testing.T) {
	t.Run("applies partial updates", func(t *testing.T) {
		event := bookableEvent()
		event.Venue = "Central Park"

		updated := false
		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return event, nil
			},
			UpdateFunc: func(ctx context.Context, e *domain.Event) error {
				updated = true
				return nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return ownOrganizer(), nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, mockOrganizerRepo)

		title := "Winter Festival"
		got, err := svc.Update(context.Background(), event.ID, "user-1", &dto.UpdateEventRequest{Title: &title})
		if err != nil {
			t.Fatalf("Update() unexpected error = %v", err)
		}
		if !updated {
			t.Error("event was not persisted")
		}
		if got.Title != "Winter Festival" {
			t.Errorf("title = %q, want Winter Festival", got.Title)
		}
		if got.Venue != "Central Park" {
			t.Errorf("venue = %q, want untouched Central Park", got.Venue)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		event := bookableEvent()

		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return event, nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return &domain.Organizer{ID: "org-2", UserID: userID}, nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, mockOrganizerRepo)

		title := "Hijacked"
		if _, err := svc.Update(context.Background(), event.ID, "user-2", &dto.UpdateEventRequest{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Update() error = %v, want %v", err, domain.ErrForbidden)
		}
	})
}

func TestEventService_Publish(t *testing.T) {
	draft := func() *domain.Event {
		event := bookableEvent()
		event.Status = domain.EventStatusDraft
		return event
	}

	t.Run("publishes a draft with ticket types", func(t *testing.T) {
		event := draft()

		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return event, nil
			},
		}
		mockTicketTypeRepo := &MockTicketTypeRepository{
			CountByEventFunc: func(ctx context.Context, eventID string) (int, error) {
				return 2, nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return ownOrganizer(), nil
			},
		}

		svc := NewEventService(mockEventRepo, mockTicketTypeRepo, mockOrganizerRepo)

		got, err := svc.Publish(context.Background(), event.ID, "user-1")
		if err != nil {
			t.Fatalf("Publish() unexpected error = %v", err)
		}
		if got.Status != domain.EventStatusPublished {
			t.Errorf("status = %q, want %q", got.Status, domain.EventStatusPublished)
		}
	})

	t.Run("event without ticket types cannot go live", func(t *testing.T) {
		event := draft()

		updates := 0
		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return event, nil
			},
			UpdateFunc: func(ctx context.Context, e *domain.Event) error {
				updates++
				return nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return ownOrganizer(), nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, mockOrganizerRepo)

		if _, err := svc.Publish(context.Background(), event.ID, "user-1"); !errors.Is(err, domain.ErrEventHasNoTicketTypes) {
			t.Errorf("Publish() error = %v, want %v", err, domain.ErrEventHasNoTicketTypes)
		}
		if updates != 0 {
			t.Errorf("update called %d times, want 0", updates)
		}
	})

	t.Run("published event cannot publish again", func(t *testing.T) {
		event := bookableEvent()

		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return event, nil
			},
		}
		mockTicketTypeRepo := &MockTicketTypeRepository{
			CountByEventFunc: func(ctx context.Context, eventID string) (int, error) {
				return 2, nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return ownOrganizer(), nil
			},
		}

		svc := NewEventService(mockEventRepo, mockTicketTypeRepo, mockOrganizerRepo)

		if _, err := svc.Publish(context.Background(), event.ID, "user-1"); !errors.Is(err, domain.ErrEventNotDraft) {
			t.Errorf("Publish() error = %v, want %v", err, domain.ErrEventNotDraft)
		}
	})
}

func TestEventService_Cancel(t *testing.T) {
	t.Run("cancels an owned event", func(t *testing.T) {
		event := bookableEvent()

		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return event, nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return ownOrganizer(), nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, mockOrganizerRepo)

		got, err := svc.Cancel(context.Background(), event.ID, "user-1")
		if err != nil {
			t.Fatalf("Cancel() unexpected error = %v", err)
		}
		if got.Status != domain.EventStatusCancelled {
			t.Errorf("status = %q, want %q", got.Status, domain.EventStatusCancelled)
		}
	})

	t.Run("cancelled event cannot cancel again", func(t *testing.T) {
		event := bookableEvent()
		event.Status = domain.EventStatusCancelled

		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return event, nil
			},
		}
		mockOrganizerRepo := &MockOrganizerRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
				return ownOrganizer(), nil
			},
		}

		svc := NewEventService(mockEventRepo, &MockTicketTypeRepository{}, mockOrganizerRepo)

		if _, err := svc.Cancel(context.Background(), event.ID, "user-1"); err == nil {
			t.Error("Cancel() expected error, got nil")
		}
	})
}
