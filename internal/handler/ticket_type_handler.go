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

// TicketTypeHandler handles ticket type management HTTP requests
type TicketTypeHandler struct {
	ticketTypeService service.TicketTypeService
}

// NewTicketTypeHandler creates a new ticket type handler
func NewTicketTypeHandler(ticketTypeService service.TicketTypeService) *TicketTypeHandler {
	return &TicketTypeHandler{ticketTypeService: ticketTypeService}
}

// Create handles POST /api/v1/events/:id/ticket-types
func (h *TicketTypeHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.create")
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

	var req dto.CreateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body: "+err.Error()))
		return
	}

	if ok, msg := req.Validate(); !ok {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	ticketType, err := h.ticketTypeService.Create(ctx, eventID, userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(toTicketTypeResponse(ticketType)))
}

// ListByEvent handles GET /api/v1/events/:id/ticket-types
func (h *TicketTypeHandler) ListByEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Event ID is required"))
		return
	}

	ticketTypes, err := h.ticketTypeService.ListByEvent(ctx, eventID)
	if err != nil {
		handleError(c, err)
		return
	}

	items := make([]*dto.TicketTypeResponse, 0, len(ticketTypes))
	for _, ticketType := range ticketTypes {
		items = append(items, toTicketTypeResponse(ticketType))
	}

	c.JSON(http.StatusOK, response.Success(&dto.TicketTypeListResponse{
		TicketTypes: items,
		Total:       len(items),
	}))
}

// Update handles PATCH /api/v1/ticket-types/:id
func (h *TicketTypeHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	ticketTypeID := c.Param("id")
	if ticketTypeID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Ticket type ID is required"))
		return
	}

	var req dto.UpdateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body: "+err.Error()))
		return
	}

	if ok, msg := req.Validate(); !ok {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	ticketType, err := h.ticketTypeService.Update(ctx, ticketTypeID, userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toTicketTypeResponse(ticketType)))
}

// Delete handles DELETE /api/v1/ticket-types/:id
func (h *TicketTypeHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	ticketTypeID := c.Param("id")
	if ticketTypeID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Ticket type ID is required"))
		return
	}

	if err := h.ticketTypeService.Delete(ctx, ticketTypeID, userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"deleted": true}))
}

func toTicketTypeResponse(tt *domain.TicketType) *dto.TicketTypeResponse {
	// Oversold types report zero remaining instead of a negative count
	remaining := tt.QuantityAvailable - tt.QuantitySold
	if remaining < 0 {
		remaining = 0
	}

	resp := &dto.TicketTypeResponse{
		ID:                tt.ID,
		EventID:           tt.EventID,
		Name:              tt.Name,
		Description:       tt.Description,
		Price:             tt.Price,
		Currency:          tt.Currency,
		QuantityAvailable: tt.QuantityAvailable,
		QuantitySold:      tt.QuantitySold,
		Remaining:         remaining,
		MaxPerOrder:       tt.MaxPerOrder,
		CreatedAt:         tt.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:         tt.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if tt.SaleStartAt != nil {
		saleStartAt := tt.SaleStartAt.Format("2006-01-02T15:04:05Z07:00")
		resp.SaleStartAt = &saleStartAt
	}
	if tt.SaleEndAt != nil {
		saleEndAt := tt.SaleEndAt.Format("2006-01-02T15:04:05Z07:00")
		resp.SaleEndAt = &saleEndAt
	}
	return resp
}
