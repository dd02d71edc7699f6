package service

import (
	"context"

	"github.com/stripe/stripe-go/v82"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/gateway"
	"github.com/re5pectR10/eventhub/internal/repository"
)

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	CreateFunc  func(ctx context.Context, event *domain.Event) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Event, error)
	ListFunc    func(ctx context.Context, filter *repository.EventFilter, limit, offset int) ([]*domain.Event, int, error)
	UpdateFunc  func(ctx context.Context, event *domain.Event) error
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) List(ctx context.Context, filter *repository.EventFilter, limit, offset int) ([]*domain.Event, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, limit, offset)
	}
	return []*domain.Event{}, 0, nil
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, event)
	}
	return nil
}

// MockTicketTypeRepository is a mock implementation of TicketTypeRepository
type MockTicketTypeRepository struct {
	CreateFunc       func(ctx context.Context, ticketType *domain.TicketType) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.TicketType, error)
	ListByEventFunc  func(ctx context.Context, eventID string) ([]*domain.TicketType, error)
	CountByEventFunc func(ctx context.Context, eventID string) (int, error)
	UpdateFunc       func(ctx context.Context, ticketType *domain.TicketType) error
	DeleteFunc       func(ctx context.Context, id string) error
	CommitSoldFunc   func(ctx context.Context, id string, quantity int) (int, int, error)
}

func (m *MockTicketTypeRepository) Create(ctx context.Context, ticketType *domain.TicketType) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticketType)
	}
	return nil
}

func (m *MockTicketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrTicketTypeNotFound
}

func (m *MockTicketTypeRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	if m.ListByEventFunc != nil {
		return m.ListByEventFunc(ctx, eventID)
	}
	return []*domain.TicketType{}, nil
}

func (m *MockTicketTypeRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	if m.CountByEventFunc != nil {
		return m.CountByEventFunc(ctx, eventID)
	}
	return 0, nil
}

func (m *MockTicketTypeRepository) Update(ctx context.Context, ticketType *domain.TicketType) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ticketType)
	}
	return nil
}

func (m *MockTicketTypeRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTicketTypeRepository) CommitSold(ctx context.Context, id string, quantity int) (int, int, error) {
	if m.CommitSoldFunc != nil {
		return m.CommitSoldFunc(ctx, id, quantity)
	}
	return quantity, quantity, nil
}

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	CreateFunc                 func(ctx context.Context, booking *domain.Booking) error
	GetByIDFunc                func(ctx context.Context, id string) (*domain.Booking, error)
	GetByCheckoutSessionIDFunc func(ctx context.Context, sessionID string) (*domain.Booking, error)
	ListByUserFunc             func(ctx context.Context, userID string, filter *repository.BookingFilter, limit, offset int) ([]*domain.Booking, int, error)
	SetCheckoutSessionFunc     func(ctx context.Context, id, sessionID string) error
	ConfirmFunc                func(ctx context.Context, id, paymentIntentID string) error
	CancelFunc                 func(ctx context.Context, id string) error
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	if m.GetByCheckoutSessionIDFunc != nil {
		return m.GetByCheckoutSessionIDFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string, filter *repository.BookingFilter, limit, offset int) ([]*domain.Booking, int, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, filter, limit, offset)
	}
	return []*domain.Booking{}, 0, nil
}

func (m *MockBookingRepository) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	if m.SetCheckoutSessionFunc != nil {
		return m.SetCheckoutSessionFunc(ctx, id, sessionID)
	}
	return nil
}

func (m *MockBookingRepository) Confirm(ctx context.Context, id, paymentIntentID string) error {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, id, paymentIntentID)
	}
	return nil
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return nil
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	CreateBatchFunc        func(ctx context.Context, tickets []*domain.Ticket) error
	GetByCodeFunc          func(ctx context.Context, code string) (*domain.Ticket, error)
	ListByBookingFunc      func(ctx context.Context, bookingID string) ([]*domain.Ticket, error)
	ListByUserFunc         func(ctx context.Context, userID string) ([]*domain.Ticket, error)
	CountByBookingItemFunc func(ctx context.Context, bookingItemID string) (int, error)
	MarkRedeemedFunc       func(ctx context.Context, id string) error
}

func (m *MockTicketRepository) CreateBatch(ctx context.Context, tickets []*domain.Ticket) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tickets)
	}
	return nil
}

func (m *MockTicketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, domain.ErrTicketNotFound
}

func (m *MockTicketRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.Ticket, error) {
	if m.ListByBookingFunc != nil {
		return m.ListByBookingFunc(ctx, bookingID)
	}
	return []*domain.Ticket{}, nil
}

func (m *MockTicketRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*domain.Ticket{}, nil
}

func (m *MockTicketRepository) CountByBookingItem(ctx context.Context, bookingItemID string) (int, error) {
	if m.CountByBookingItemFunc != nil {
		return m.CountByBookingItemFunc(ctx, bookingItemID)
	}
	return 0, nil
}

func (m *MockTicketRepository) MarkRedeemed(ctx context.Context, id string) error {
	if m.MarkRedeemedFunc != nil {
		return m.MarkRedeemedFunc(ctx, id)
	}
	return nil
}

// MockOrganizerRepository is a mock implementation of OrganizerRepository
type MockOrganizerRepository struct {
	CreateFunc               func(ctx context.Context, organizer *domain.Organizer) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Organizer, error)
	GetByUserIDFunc          func(ctx context.Context, userID string) (*domain.Organizer, error)
	GetByStripeAccountIDFunc func(ctx context.Context, accountID string) (*domain.Organizer, error)
	UpdateFunc               func(ctx context.Context, organizer *domain.Organizer) error
}

func (m *MockOrganizerRepository) Create(ctx context.Context, organizer *domain.Organizer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, organizer)
	}
	return nil
}

func (m *MockOrganizerRepository) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrOrganizerNotFound
}

func (m *MockOrganizerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Organizer, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockOrganizerRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*domain.Organizer, error) {
	if m.GetByStripeAccountIDFunc != nil {
		return m.GetByStripeAccountIDFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *MockOrganizerRepository) Update(ctx context.Context, organizer *domain.Organizer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, organizer)
	}
	return nil
}

// MockTicketService is a mock implementation of TicketService
type MockTicketService struct {
	IssueForBookingFunc func(ctx context.Context, booking *domain.Booking) ([]*domain.Ticket, error)
	ListByBookingFunc   func(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error)
	ListByUserFunc      func(ctx context.Context, userID string) ([]*domain.Ticket, error)
	VerifyFunc          func(ctx context.Context, code, userID string) (*domain.Ticket, error)
	RedeemFunc          func(ctx context.Context, code, userID string) (*domain.Ticket, error)
}

func (m *MockTicketService) IssueForBooking(ctx context.Context, booking *domain.Booking) ([]*domain.Ticket, error) {
	if m.IssueForBookingFunc != nil {
		return m.IssueForBookingFunc(ctx, booking)
	}
	return []*domain.Ticket{}, nil
}

func (m *MockTicketService) ListByBooking(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error) {
	if m.ListByBookingFunc != nil {
		return m.ListByBookingFunc(ctx, bookingID, userID)
	}
	return []*domain.Ticket{}, nil
}

func (m *MockTicketService) ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*domain.Ticket{}, nil
}

func (m *MockTicketService) Verify(ctx context.Context, code, userID string) (*domain.Ticket, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, code, userID)
	}
	return nil, domain.ErrTicketNotFound
}

func (m *MockTicketService) Redeem(ctx context.Context, code, userID string) (*domain.Ticket, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, code, userID)
	}
	return nil, domain.ErrTicketNotFound
}

// MockPaymentGateway is a mock implementation of gateway.PaymentGateway
type MockPaymentGateway struct {
	CreateCheckoutSessionFunc  func(ctx context.Context, req *gateway.CheckoutSessionRequest) (*gateway.CheckoutSessionResponse, error)
	VerifyWebhookSignatureFunc func(payload []byte, signature string) (*stripe.Event, error)
	GetAccountFunc             func(ctx context.Context, accountID string) (*gateway.AccountInfo, error)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, req *gateway.CheckoutSessionRequest) (*gateway.CheckoutSessionResponse, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, req)
	}
	return &gateway.CheckoutSessionResponse{SessionID: "cs_test", URL: "https://checkout.test/cs_test"}, nil
}

func (m *MockPaymentGateway) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	if m.VerifyWebhookSignatureFunc != nil {
		return m.VerifyWebhookSignatureFunc(payload, signature)
	}
	return nil, domain.ErrSignatureInvalid
}

func (m *MockPaymentGateway) GetAccount(ctx context.Context, accountID string) (*gateway.AccountInfo, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, accountID)
	}
	return &gateway.AccountInfo{AccountID: accountID}, nil
}

func (m *MockPaymentGateway) Name() string {
	return "mock"
}
