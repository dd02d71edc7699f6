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

// TicketHandler handles gate-side ticket verification and redemption
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// List handles GET /api/v1/tickets
// Returns every ticket across the authenticated user's bookings.
func (h *TicketHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	tickets, err := h.ticketService.ListByUser(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	items := make([]*dto.TicketResponse, len(tickets))
	for i, ticket := range tickets {
		items[i] = toTicketResponse(ticket)
	}

	c.JSON(http.StatusOK, response.Success(&dto.TicketListResponse{
		Tickets: items,
		Total:   len(items),
	}))
}

// Verify handles GET /api/v1/tickets/:code/verify
// Gate staff scan a code and see whether it admits the holder without
// changing the ticket's state.
func (h *TicketHandler) Verify(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.verify")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Ticket code is required"))
		return
	}

	ticket, err := h.ticketService.Verify(ctx, code, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.VerifyTicketResponse{
		Valid:  ticket.IsValid(),
		Reason: verifyReason(ticket),
		Ticket: toTicketResponse(ticket),
	}))
}

// Redeem handles POST /api/v1/tickets/redeem
func (h *TicketHandler) Redeem(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.redeem")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	var req dto.RedeemTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body: "+err.Error()))
		return
	}

	ticket, err := h.ticketService.Redeem(ctx, req.TicketCode, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toTicketResponse(ticket)))
}

func verifyReason(t *domain.Ticket) string {
	switch t.Status {
	case domain.TicketStatusRedeemed:
		return "ticket already redeemed"
	case domain.TicketStatusVoid:
		return "ticket is void"
	default:
		return ""
	}
}

func toTicketResponse(t *domain.Ticket) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:           t.ID,
		BookingID:    t.BookingID,
		EventID:      t.EventID,
		TicketTypeID: t.TicketTypeID,
		TicketCode:   t.TicketCode,
		QRCode:       t.QRCode,
		Status:       string(t.Status),
		IssuedAt:     t.IssuedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.RedeemedAt != nil {
		redeemedAt := t.RedeemedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.RedeemedAt = &redeemedAt
	}
	return resp
}
