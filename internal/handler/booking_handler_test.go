package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/gateway"
	"github.com/re5pectR10/eventhub/pkg/response"
)

// MockBookingService is a mock implementation of service.BookingService for testing
type MockBookingService struct {
	CreateFunc func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error)
	GetFunc    func(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
	ListFunc   func(ctx context.Context, filter *dto.BookingListFilter) ([]*domain.Booking, int, error)
	CancelFunc func(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
}

func (m *MockBookingService) Create(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockBookingService) Get(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, bookingID, userID)
	}
	return nil, nil
}

func (m *MockBookingService) List(ctx context.Context, filter *dto.BookingListFilter) ([]*domain.Booking, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, bookingID, userID)
	}
	return nil, nil
}

// MockCheckoutService is a mock implementation of service.CheckoutService for testing
type MockCheckoutService struct {
	OpenCheckoutFunc func(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error)
}

func (m *MockCheckoutService) OpenCheckout(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error) {
	if m.OpenCheckoutFunc != nil {
		return m.OpenCheckoutFunc(ctx, bookingID, userID, req)
	}
	return nil, nil
}

// MockTicketService is a mock implementation of service.TicketService for testing
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
	return nil, nil
}

func (m *MockTicketService) ListByBooking(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error) {
	if m.ListByBookingFunc != nil {
		return m.ListByBookingFunc(ctx, bookingID, userID)
	}
	return nil, nil
}

func (m *MockTicketService) ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTicketService) Verify(ctx context.Context, code, userID string) (*domain.Ticket, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, code, userID)
	}
	return nil, nil
}

func (m *MockTicketService) Redeem(ctx context.Context, code, userID string) (*domain.Ticket, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, code, userID)
	}
	return nil, nil
}

// testBooking builds a valid pending booking for handler responses
func testBooking(userID, eventID string) *domain.Booking {
	booking, err := domain.NewBooking(userID, eventID, "USD",
		[]domain.ItemSelection{{TicketTypeID: "tt-123", Quantity: 2}},
		[]float64{50})
	if err != nil {
		panic(err)
	}
	return booking
}

// newTestBookingHandler creates a BookingHandler for testing with mock services
func newTestBookingHandler(bookingService *MockBookingService) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		checkoutService: &MockCheckoutService{},
		ticketService:   &MockTicketService{},
	}
}

func setupTestRouter(handler *BookingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	bookings := router.Group("/bookings")
	{
		bookings.POST("", handler.Create)
		bookings.GET("", handler.List)
		bookings.GET("/:id", handler.Get)
		bookings.POST("/:id/cancel", handler.Cancel)
		bookings.POST("/:id/checkout", handler.OpenCheckout)
		bookings.GET("/:id/tickets", handler.ListTickets)
	}

	return router
}

func setupTestRouterWithAuth(handler *BookingHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Add middleware to set user_id
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})

	bookings := router.Group("/bookings")
	{
		bookings.POST("", handler.Create)
		bookings.GET("", handler.List)
		bookings.GET("/:id", handler.Get)
		bookings.POST("/:id/cancel", handler.Cancel)
		bookings.POST("/:id/checkout", handler.OpenCheckout)
		bookings.GET("/:id/tickets", handler.ListTickets)
	}

	return router
}

// assertErrorCode checks the error envelope of a failed request
func assertErrorCode(t *testing.T, body []byte, expectedCode string) {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Error == nil {
			t.Errorf("expected error code %s, got success envelope", expectedCode)
		} else if resp.Error.Code != expectedCode {
			t.Errorf("expected code %s, got %s", expectedCode, resp.Error.Code)
		}
	}
}

func TestBookingHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		request        *dto.CreateBookingRequest
		mockFunc       func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "successful booking",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				EventID: "event-123",
				Items: []dto.BookingItemRequest{
					{TicketTypeID: "tt-123", Quantity: 2},
				},
			},
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
				return testBooking(req.UserID, req.EventID), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			request:        &dto.CreateBookingRequest{},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:   "missing event id",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				Items: []dto.BookingItemRequest{
					{TicketTypeID: "tt-123", Quantity: 2},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:   "duplicate ticket type",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				EventID: "event-123",
				Items: []dto.BookingItemRequest{
					{TicketTypeID: "tt-123", Quantity: 1},
					{TicketTypeID: "tt-123", Quantity: 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:   "event not found",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				EventID: "missing",
				Items: []dto.BookingItemRequest{
					{TicketTypeID: "tt-123", Quantity: 2},
				},
			},
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
				return nil, domain.ErrEventNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:   "event not bookable",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				EventID: "event-123",
				Items: []dto.BookingItemRequest{
					{TicketTypeID: "tt-123", Quantity: 2},
				},
			},
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
				return nil, domain.ErrEventNotBookable
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "EVENT_NOT_BOOKABLE",
		},
		{
			name:   "insufficient inventory",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				EventID: "event-123",
				Items: []dto.BookingItemRequest{
					{TicketTypeID: "tt-123", Quantity: 5},
				},
			},
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
				return nil, domain.ErrInsufficientInventory
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "INSUFFICIENT_INVENTORY",
		},
		{
			name:   "max per order exceeded",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				EventID: "event-123",
				Items: []dto.BookingItemRequest{
					{TicketTypeID: "tt-123", Quantity: 11},
				},
			},
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
				return nil, domain.ErrMaxPerOrderExceeded
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "MAX_PER_ORDER_EXCEEDED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingService{
				CreateFunc: tt.mockFunc,
			}
			handler := newTestBookingHandler(mockService)

			var router *gin.Engine
			if tt.userID != "" {
				router = setupTestRouterWithAuth(handler, tt.userID)
			} else {
				router = setupTestRouter(handler)
			}

			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedCode != "" {
				assertErrorCode(t, w.Body.Bytes(), tt.expectedCode)
			}
		})
	}
}

func TestBookingHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		bookingID      string
		mockFunc       func(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:      "successful get",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
				return testBooking(userID, "event-123"), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			bookingID:      "booking-123",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:      "booking not found",
			userID:    "user-123",
			bookingID: "non-existent",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
				return nil, domain.ErrBookingNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:      "another user's booking",
			userID:    "user-456",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
				return nil, domain.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingService{
				GetFunc: tt.mockFunc,
			}
			handler := newTestBookingHandler(mockService)

			var router *gin.Engine
			if tt.userID != "" {
				router = setupTestRouterWithAuth(handler, tt.userID)
			} else {
				router = setupTestRouter(handler)
			}

			req := httptest.NewRequest(http.MethodGet, "/bookings/"+tt.bookingID, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedCode != "" {
				assertErrorCode(t, w.Body.Bytes(), tt.expectedCode)
			}
		})
	}
}

func TestBookingHandler_Get_Envelope(t *testing.T) {
	booking := testBooking("user-123", "event-123")
	handler := newTestBookingHandler(&MockBookingService{
		GetFunc: func(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
			return booking, nil
		},
	})
	router := setupTestRouterWithAuth(handler, "user-123")

	req := httptest.NewRequest(http.MethodGet, "/bookings/"+booking.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success envelope")
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got %T", resp.Data)
	}
	if data["id"] != booking.ID {
		t.Errorf("expected booking id %s, got %v", booking.ID, data["id"])
	}
	if data["status"] != string(domain.BookingStatusPending) {
		t.Errorf("expected status pending, got %v", data["status"])
	}
}

func TestBookingHandler_List(t *testing.T) {
	t.Run("successful list", func(t *testing.T) {
		handler := newTestBookingHandler(&MockBookingService{
			ListFunc: func(ctx context.Context, filter *dto.BookingListFilter) ([]*domain.Booking, int, error) {
				if filter.UserID != "user-123" {
					t.Errorf("expected filter scoped to user-123, got %s", filter.UserID)
				}
				return []*domain.Booking{
					testBooking("user-123", "event-123"),
					testBooking("user-123", "event-456"),
				}, 2, nil
			},
		})
		router := setupTestRouterWithAuth(handler, "user-123")

		req := httptest.NewRequest(http.MethodGet, "/bookings?limit=10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("unauthorized - no user_id", func(t *testing.T) {
		handler := newTestBookingHandler(&MockBookingService{})
		router := setupTestRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
		assertErrorCode(t, w.Body.Bytes(), "UNAUTHORIZED")
	})

	t.Run("invalid query parameters", func(t *testing.T) {
		handler := newTestBookingHandler(&MockBookingService{})
		router := setupTestRouterWithAuth(handler, "user-123")

		req := httptest.NewRequest(http.MethodGet, "/bookings?limit=abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		assertErrorCode(t, w.Body.Bytes(), "BAD_REQUEST")
	})
}

func TestBookingHandler_Cancel(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		bookingID      string
		mockFunc       func(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:      "successful cancel",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
				booking := testBooking(userID, "event-123")
				if err := booking.Cancel(); err != nil {
					return nil, err
				}
				return booking, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			bookingID:      "booking-123",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:      "confirmed booking",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
				return nil, domain.ErrBookingNotPending
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
		{
			name:      "already cancelled",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
				return nil, domain.ErrBookingAlreadyCancelled
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingService{
				CancelFunc: tt.mockFunc,
			}
			handler := newTestBookingHandler(mockService)

			var router *gin.Engine
			if tt.userID != "" {
				router = setupTestRouterWithAuth(handler, tt.userID)
			} else {
				router = setupTestRouter(handler)
			}

			req := httptest.NewRequest(http.MethodPost, "/bookings/"+tt.bookingID+"/cancel", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedCode != "" {
				assertErrorCode(t, w.Body.Bytes(), tt.expectedCode)
			}
		})
	}
}

func TestBookingHandler_OpenCheckout(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		bookingID      string
		mockFunc       func(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:      "successful checkout",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error) {
				return &gateway.CheckoutSessionResponse{
					SessionID: "cs_test_123",
					URL:       "https://checkout.stripe.com/c/pay/cs_test_123",
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			bookingID:      "booking-123",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:      "booking not pending",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error) {
				return nil, domain.ErrCheckoutNotAllowed
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
		{
			name:      "processor unavailable",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error) {
				return nil, domain.ErrProcessorFailure
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "PROCESSOR_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &BookingHandler{
				bookingService:  &MockBookingService{},
				checkoutService: &MockCheckoutService{OpenCheckoutFunc: tt.mockFunc},
				ticketService:   &MockTicketService{},
			}

			var router *gin.Engine
			if tt.userID != "" {
				router = setupTestRouterWithAuth(handler, tt.userID)
			} else {
				router = setupTestRouter(handler)
			}

			body, _ := json.Marshal(&dto.OpenCheckoutRequest{
				SuccessURL: "https://example.com/success",
				CancelURL:  "https://example.com/cancel",
			})
			req := httptest.NewRequest(http.MethodPost, "/bookings/"+tt.bookingID+"/checkout", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedCode != "" {
				assertErrorCode(t, w.Body.Bytes(), tt.expectedCode)
			}
		})
	}
}

func TestBookingHandler_OpenCheckout_EmptyBody(t *testing.T) {
	handler := &BookingHandler{
		bookingService: &MockBookingService{},
		checkoutService: &MockCheckoutService{
			OpenCheckoutFunc: func(ctx context.Context, bookingID, userID string, req *dto.OpenCheckoutRequest) (*gateway.CheckoutSessionResponse, error) {
				if req.SuccessURL != "" || req.CancelURL != "" {
					t.Errorf("expected empty override urls, got %q %q", req.SuccessURL, req.CancelURL)
				}
				return &gateway.CheckoutSessionResponse{SessionID: "cs_test_123", URL: "https://stripe.test/cs_test_123"}, nil
			},
		},
		ticketService: &MockTicketService{},
	}
	router := setupTestRouterWithAuth(handler, "user-123")

	// No body at all; the configured default urls apply
	req := httptest.NewRequest(http.MethodPost, "/bookings/booking-123/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestBookingHandler_ListTickets(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		bookingID      string
		mockFunc       func(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:      "successful list",
			userID:    "user-123",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error) {
				first, err := domain.NewTicket(bookingID, "item-1", "event-123", "tt-123")
				if err != nil {
					return nil, err
				}
				second, err := domain.NewTicket(bookingID, "item-1", "event-123", "tt-123")
				if err != nil {
					return nil, err
				}
				return []*domain.Ticket{first, second}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			bookingID:      "booking-123",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:      "another user's booking",
			userID:    "user-456",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) ([]*domain.Ticket, error) {
				return nil, domain.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &BookingHandler{
				bookingService:  &MockBookingService{},
				checkoutService: &MockCheckoutService{},
				ticketService:   &MockTicketService{ListByBookingFunc: tt.mockFunc},
			}

			var router *gin.Engine
			if tt.userID != "" {
				router = setupTestRouterWithAuth(handler, tt.userID)
			} else {
				router = setupTestRouter(handler)
			}

			req := httptest.NewRequest(http.MethodGet, "/bookings/"+tt.bookingID+"/tickets", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedCode != "" {
				assertErrorCode(t, w.Body.Bytes(), tt.expectedCode)
			}
		})
	}
}
