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
)

// testOrganizer builds a valid pending organizer profile
func testOrganizer(userID string) *domain.Organizer {
	organizer, err := domain.NewOrganizer(userID, "Live Nation")
	if err != nil {
		panic(err)
	}
	return organizer
}

func setupOrganizerRouter(handler *OrganizerHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	organizers := router.Group("/organizers")
	{
		organizers.POST("", handler.Register)
		organizers.GET("/me", handler.GetOwn)
		organizers.GET("/me/events", handler.ListOwnEvents)
	}

	return router
}

func setupOrganizerRouterWithAuth(handler *OrganizerHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Add middleware to set user_id
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})

	organizers := router.Group("/organizers")
	{
		organizers.POST("", handler.Register)
		organizers.GET("/me", handler.GetOwn)
		organizers.GET("/me/events", handler.ListOwnEvents)
	}

	return router
}

func TestOrganizerHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		request        *dto.RegisterOrganizerRequest
		mockFunc       func(ctx context.Context, req *dto.RegisterOrganizerRequest) (*domain.Organizer, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:    "successful registration",
			userID:  "user-123",
			request: &dto.RegisterOrganizerRequest{Name: "Live Nation"},
			mockFunc: func(ctx context.Context, req *dto.RegisterOrganizerRequest) (*domain.Organizer, error) {
				return testOrganizer(req.UserID), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			request:        &dto.RegisterOrganizerRequest{Name: "Live Nation"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "missing name",
			userID:         "user-123",
			request:        &dto.RegisterOrganizerRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:    "already registered",
			userID:  "user-123",
			request: &dto.RegisterOrganizerRequest{Name: "Live Nation"},
			mockFunc: func(ctx context.Context, req *dto.RegisterOrganizerRequest) (*domain.Organizer, error) {
				return nil, domain.ErrOrganizerAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewOrganizerHandler(
				&MockOrganizerService{RegisterFunc: tt.mockFunc},
				&MockEventService{},
			)

			var router *gin.Engine
			if tt.userID != "" {
				router = setupOrganizerRouterWithAuth(handler, tt.userID)
			} else {
				router = setupOrganizerRouter(handler)
			}

			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/organizers", bytes.NewBuffer(body))
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

func TestOrganizerHandler_GetOwn(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		handler := NewOrganizerHandler(
			&MockOrganizerService{
				GetOwnFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
					return testOrganizer(userID), nil
				},
			},
			&MockEventService{},
		)
		router := setupOrganizerRouterWithAuth(handler, "user-123")

		req := httptest.NewRequest(http.MethodGet, "/organizers/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("no profile yet", func(t *testing.T) {
		handler := NewOrganizerHandler(
			&MockOrganizerService{
				GetOwnFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
					return nil, domain.ErrOrganizerNotFound
				},
			},
			&MockEventService{},
		)
		router := setupOrganizerRouterWithAuth(handler, "user-123")

		req := httptest.NewRequest(http.MethodGet, "/organizers/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
		assertErrorCode(t, w.Body.Bytes(), "NOT_FOUND")
	})
}

func TestOrganizerHandler_ListOwnEvents(t *testing.T) {
	t.Run("scopes the listing to the caller's organizer", func(t *testing.T) {
		organizer := testOrganizer("user-123")
		var gotFilter *dto.EventListFilter
		handler := NewOrganizerHandler(
			&MockOrganizerService{
				GetOwnFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
					return organizer, nil
				},
			},
			&MockEventService{
				ListFunc: func(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error) {
					gotFilter = filter
					return []*domain.Event{testEvent()}, 1, nil
				},
			},
		)
		router := setupOrganizerRouterWithAuth(handler, "user-123")

		req := httptest.NewRequest(http.MethodGet, "/organizers/me/events?status=draft", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		if gotFilter == nil {
			t.Fatal("expected the event listing to be called")
		}
		if gotFilter.OrganizerID != organizer.ID {
			t.Errorf("expected filter scoped to %s, got %s", organizer.ID, gotFilter.OrganizerID)
		}
		if gotFilter.Status != "draft" {
			t.Errorf("expected requested status to pass through, got %q", gotFilter.Status)
		}
	})

	t.Run("requires an organizer profile", func(t *testing.T) {
		handler := NewOrganizerHandler(
			&MockOrganizerService{
				GetOwnFunc: func(ctx context.Context, userID string) (*domain.Organizer, error) {
					return nil, domain.ErrOrganizerNotFound
				},
			},
			&MockEventService{},
		)
		router := setupOrganizerRouterWithAuth(handler, "user-123")

		req := httptest.NewRequest(http.MethodGet, "/organizers/me/events", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
		assertErrorCode(t, w.Body.Bytes(), "NOT_FOUND")
	})
}
