package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/service"
	"github.com/re5pectR10/eventhub/pkg/response"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
)

// EventHandler handles event catalog HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body: "+err.Error()))
		return
	}
	req.UserID = userID

	if ok, msg := req.Validate(); !ok {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	event, err := h.eventService.Create(ctx, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(toEventResponse(event)))
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Event ID is required"))
		return
	}

	event, err := h.eventService.Get(ctx, eventID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toEventResponse(event)))
}

// List handles GET /api/v1/events
// Without an organizer scope only published events are returned.
func (h *EventHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters: "+err.Error()))
		return
	}
	filter.SetDefaults()

	events, total, err := h.eventService.List(ctx, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	items := make([]*dto.EventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, toEventResponse(event))
	}

	c.JSON(http.StatusOK, response.Success(&dto.EventListResponse{
		Events: items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}))
}

// Update handles PATCH /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Event ID is required"))
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body: "+err.Error()))
		return
	}

	if ok, msg := req.Validate(); !ok {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	event, err := h.eventService.Update(ctx, eventID, userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toEventResponse(event)))
}

// Publish handles POST /api/v1/events/:id/publish
func (h *EventHandler) Publish(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.publish")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Event ID is required"))
		return
	}

	event, err := h.eventService.Publish(ctx, eventID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toEventResponse(event)))
}

// Cancel handles POST /api/v1/events/:id/cancel
func (h *EventHandler) Cancel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Event ID is required"))
		return
	}

	event, err := h.eventService.Cancel(ctx, eventID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toEventResponse(event)))
}

func toEventResponse(e *domain.Event) *dto.EventResponse {
	resp := &dto.EventResponse{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		StartAt:     e.StartAt.Format("2006-01-02T15:04:05Z07:00"),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if e.EndAt != nil {
		endAt := e.EndAt.Format("2006-01-02T15:04:05Z07:00")
		resp.EndAt = &endAt
	}
	return resp
}
