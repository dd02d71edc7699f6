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

func bookableEvent() *domain.Event {
	return &domain.Event{
		ID:          "event-1",
		OrganizerID: "org-1",
		Title:       "Summer Festival",
		Status:      domain.EventStatusPublished,
		StartAt:     time.Now().Add(48 * time.Hour),
	}
}

func saleableType() *domain.TicketType {
	return &domain.TicketType{
		ID:                "tt-1",
		EventID:           "event-1",
		Name:              "General Admission",
		Price:             50,
		Currency:          "USD",
		QuantityAvailable: 100,
		MaxPerOrder:       10,
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("creates a pending booking at the current price", func(t *testing.T) {
		var created *domain.Booking
		mockBookingRepo := &MockBookingRepository{
			CreateFunc: func(ctx context.Context, booking *domain.Booking) error {
				created = booking
				return nil
			},
		}
		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return bookableEvent(), nil
			},
		}
		mockTicketTypeRepo := &MockTicketTypeRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.TicketType, error) {
				return saleableType(), nil
			},
		}

		svc := NewBookingService(mockBookingRepo, mockEventRepo, mockTicketTypeRepo, nil, nil)

		booking, err := svc.Create(context.Background(), &dto.CreateBookingRequest{
			UserID:  "user-1",
			EventID: "event-1",
			Items:   []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 2}},
		})
		if err != nil {
			t.Fatalf("Create() unexpected error = %v", err)
		}
		if created == nil {
			t.Fatal("booking was not persisted")
		}
		if booking.Status != domain.BookingStatusPending {
			t.Errorf("status = %q, want %q", booking.Status, domain.BookingStatusPending)
		}
		if booking.TotalPrice != 100 {
			t.Errorf("total = %v, want 100", booking.TotalPrice)
		}
		if booking.Currency != "USD" {
			t.Errorf("currency = %q, want USD", booking.Currency)
		}
		if len(booking.Items) != 1 || booking.Items[0].UnitPrice != 50 {
			t.Errorf("items = %+v, want one item at unit price 50", booking.Items)
		}
	})

	t.Run("nothing is committed to inventory", func(t *testing.T) {
		commitCalls := 0
		mockEventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return bookableEvent(), nil
			},
		}
		mockTicketTypeRepo := &MockTicketTypeRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.TicketType, error) {
				return saleableType(), nil
			},
			CommitSoldFunc: func(ctx context.Context, id string, quantity int) (int, int, error) {
				commitCalls++
				return quantity, 100, nil
			},
		}

		svc := NewBookingService(&MockBookingRepository{}, mockEventRepo, mockTicketTypeRepo, nil, nil)

		_, err := svc.Create(context.Background(), &dto.CreateBookingRequest{
			UserID:  "user-1",
			EventID: "event-1",
			Items:   []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 2}},
		})
		if err != nil {
			t.Fatalf("Create() unexpected error = %v", err)
		}
		if commitCalls != 0 {
			t.Errorf("commit called %d times at booking, want 0", commitCalls)
		}
	})
}

func TestBookingService_Create_Errors(t *testing.T) {
	pastHour := time.Now().Add(-time.Hour)

	tests := []struct {
		name       string
		req        *dto.CreateBookingRequest
		setupMocks func(*MockEventRepository, *MockTicketTypeRepository)
		wantErr    error
	}{
		{
			name:    "nil request",
			wantErr: domain.ErrEmptyItems,
		},
		{
			name:    "missing user",
			req:     &dto.CreateBookingRequest{EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 1}}},
			wantErr: domain.ErrInvalidUserID,
		},
		{
			name:    "missing event",
			req:     &dto.CreateBookingRequest{UserID: "user-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 1}}},
			wantErr: domain.ErrInvalidEventID,
		},
		{
			name:    "empty items",
			req:     &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1"},
			wantErr: domain.ErrEmptyItems,
		},
		{
			name:    "event not found",
			req:     &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 1}}},
			wantErr: domain.ErrEventNotFound,
		},
		{
			name: "draft event",
			req:  &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 1}}},
			setupMocks: func(er *MockEventRepository, tr *MockTicketTypeRepository) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					event := bookableEvent()
					event.Status = domain.EventStatusDraft
					return event, nil
				}
			},
			wantErr: domain.ErrEventNotBookable,
		},
		{
			name: "event already started",
			req:  &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 1}}},
			setupMocks: func(er *MockEventRepository, tr *MockTicketTypeRepository) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					event := bookableEvent()
					event.StartAt = pastHour
					return event, nil
				}
			},
			wantErr: domain.ErrEventNotBookable,
		},
		{
			name: "ticket type of another event",
			req:  &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 1}}},
			setupMocks: func(er *MockEventRepository, tr *MockTicketTypeRepository) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return bookableEvent(), nil
				}
				tr.GetByIDFunc = func(ctx context.Context, id string) (*domain.TicketType, error) {
					ticketType := saleableType()
					ticketType.EventID = "event-2"
					return ticketType, nil
				}
			},
			wantErr: domain.ErrTicketTypeMismatch,
		},
		{
			name: "sale window closed",
			req:  &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 1}}},
			setupMocks: func(er *MockEventRepository, tr *MockTicketTypeRepository) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return bookableEvent(), nil
				}
				tr.GetByIDFunc = func(ctx context.Context, id string) (*domain.TicketType, error) {
					ticketType := saleableType()
					ticketType.SaleEndAt = &pastHour
					return ticketType, nil
				}
			},
			wantErr: domain.ErrTicketTypeNotOnSale,
		},
		{
			name: "over the per-order cap",
			req:  &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 11}}},
			setupMocks: func(er *MockEventRepository, tr *MockTicketTypeRepository) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return bookableEvent(), nil
				}
				tr.GetByIDFunc = func(ctx context.Context, id string) (*domain.TicketType, error) {
					return saleableType(), nil
				}
			},
			wantErr: domain.ErrMaxPerOrderExceeded,
		},
		{
			name: "insufficient inventory",
			req:  &dto.CreateBookingRequest{UserID: "user-1", EventID: "event-1", Items: []dto.BookingItemRequest{{TicketTypeID: "tt-1", Quantity: 5}}},
			setupMocks: func(er *MockEventRepository, tr *MockTicketTypeRepository) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return bookableEvent(), nil
				}
				tr.GetByIDFunc = func(ctx context.Context, id string) (*domain.TicketType, error) {
					ticketType := saleableType()
					ticketType.QuantitySold = 97
					return ticketType, nil
				}
			},
			wantErr: domain.ErrInsufficientInventory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEventRepo := &MockEventRepository{}
			mockTicketTypeRepo := &MockTicketTypeRepository{}
			if tt.setupMocks != nil {
				tt.setupMocks(mockEventRepo, mockTicketTypeRepo)
			}

			svc := NewBookingService(&MockBookingRepository{}, mockEventRepo, mockTicketTypeRepo, nil, nil)

			_, err := svc.Create(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	booking := confirmedBooking(t)

	tests := []struct {
		name      string
		bookingID string
		userID    string
		wantErr   error
	}{
		{name: "owner reads own booking", bookingID: booking.ID, userID: "user-1"},
		{name: "other user is forbidden", bookingID: booking.ID, userID: "user-2", wantErr: domain.ErrForbidden},
		{name: "missing booking id", userID: "user-1", wantErr: domain.ErrInvalidBookingID},
		{name: "missing user id", bookingID: booking.ID, wantErr: domain.ErrInvalidUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBookingRepo := &MockBookingRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
					return booking, nil
				},
			}

			svc := NewBookingService(mockBookingRepo, &MockEventRepository{}, &MockTicketTypeRepository{}, nil, nil)

			got, err := svc.Get(context.Background(), tt.bookingID, tt.userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() unexpected error = %v", err)
			}
			if got.ID != booking.ID {
				t.Errorf("booking id = %q, want %q", got.ID, booking.ID)
			}
		})
	}
}

func TestBookingService_List(t *testing.T) {
	t.Run("applies pagination defaults", func(t *testing.T) {
		var gotLimit, gotOffset int
		mockBookingRepo := &MockBookingRepository{
			ListByUserFunc: func(ctx context.Context, userID string, filter *repository.BookingFilter, limit, offset int) ([]*domain.Booking, int, error) {
				gotLimit, gotOffset = limit, offset
				return []*domain.Booking{}, 0, nil
			},
		}

		svc := NewBookingService(mockBookingRepo, &MockEventRepository{}, &MockTicketTypeRepository{}, nil, nil)

		_, _, err := svc.List(context.Background(), &dto.BookingListFilter{UserID: "user-1"})
		if err != nil {
			t.Fatalf("List() unexpected error = %v", err)
		}
		if gotLimit != 20 || gotOffset != 0 {
			t.Errorf("pagination = (%d, %d), want (20, 0)", gotLimit, gotOffset)
		}
	})

	t.Run("missing user id", func(t *testing.T) {
		svc := NewBookingService(&MockBookingRepository{}, &MockEventRepository{}, &MockTicketTypeRepository{}, nil, nil)

		_, _, err := svc.List(context.Background(), &dto.BookingListFilter{})
		if !errors.Is(err, domain.ErrInvalidUserID) {
			t.Errorf("List() error = %v, want %v", err, domain.ErrInvalidUserID)
		}
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("cancels an owned pending booking", func(t *testing.T) {
		booking, err := domain.NewBooking("user-1", "event-1", "USD",
			[]domain.ItemSelection{{TicketTypeID: "tt-1", Quantity: 1}}, []float64{50})
		if err != nil {
			t.Fatalf("failed to build booking: %v", err)
		}

		cancelled := false
		mockBookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return booking, nil
			},
			CancelFunc: func(ctx context.Context, id string) error {
				cancelled = true
				return nil
			},
		}

		svc := NewBookingService(mockBookingRepo, &MockEventRepository{}, &MockTicketTypeRepository{}, nil, nil)

		got, err := svc.Cancel(context.Background(), booking.ID, "user-1")
		if err != nil {
			t.Fatalf("Cancel() unexpected error = %v", err)
		}
		if !cancelled {
			t.Error("booking was not cancelled")
		}
		if got.Status != domain.BookingStatusCancelled {
			t.Errorf("status = %q, want %q", got.Status, domain.BookingStatusCancelled)
		}
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		booking := confirmedBooking(t)

		cancelCalls := 0
		mockBookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return booking, nil
			},
			CancelFunc: func(ctx context.Context, id string) error {
				cancelCalls++
				return nil
			},
		}

		svc := NewBookingService(mockBookingRepo, &MockEventRepository{}, &MockTicketTypeRepository{}, nil, nil)

		if _, err := svc.Cancel(context.Background(), booking.ID, "user-2"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Cancel() error = %v, want %v", err, domain.ErrForbidden)
		}
		if cancelCalls != 0 {
			t.Errorf("cancel called %d times for foreign booking, want 0", cancelCalls)
		}
	})

	t.Run("confirmed booking cannot be cancelled", func(t *testing.T) {
		booking := confirmedBooking(t)

		mockBookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return booking, nil
			},
			CancelFunc: func(ctx context.Context, id string) error {
				return domain.ErrBookingNotPending
			},
		}

		svc := NewBookingService(mockBookingRepo, &MockEventRepository{}, &MockTicketTypeRepository{}, nil, nil)

		if _, err := svc.Cancel(context.Background(), booking.ID, "user-1"); !errors.Is(err, domain.ErrBookingNotPending) {
			t.Errorf("Cancel() error = %v, want %v", err, domain.ErrBookingNotPending)
		}
	})

	t.Run("cancelling twice is an explicit error", func(t *testing.T) {
		booking, err := domain.NewBooking("user-1", "event-1", "USD",
			[]domain.ItemSelection{{TicketTypeID: "tt-1", Quantity: 1}}, []float64{50})
		if err != nil {
			t.Fatalf("failed to build booking: %v", err)
		}
		_ = booking.Cancel()

		mockBookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return booking, nil
			},
			CancelFunc: func(ctx context.Context, id string) error {
				return domain.ErrBookingAlreadyCancelled
			},
		}

		svc := NewBookingService(mockBookingRepo, &MockEventRepository{}, &MockTicketTypeRepository{}, nil, nil)

		if _, err := svc.Cancel(context.Background(), booking.ID, "user-1"); !errors.Is(err, domain.ErrBookingAlreadyCancelled) {
			t.Errorf("Cancel() error = %v, want %v", err, domain.ErrBookingAlreadyCancelled)
		}
	})
}
