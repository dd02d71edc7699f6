package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/dto"
	"github.com/re5pectR10/eventhub/internal/service"
	"github.com/re5pectR10/eventhub/pkg/response"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService  service.BookingService
	checkoutService service.CheckoutService
	ticketService   service.TicketService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(
	bookingService service.BookingService,
	checkoutService service.CheckoutService,
	ticketService service.TicketService,
) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		checkoutService: checkoutService,
		ticketService:   ticketService,
	}
}

// Create handles POST /bookings
func (h *BookingHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}
	req.UserID = userID

	if valid, msg := req.Validate(); !valid {
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("event_id", req.EventID),
		attribute.Int("item_count", len(req.Items)),
	)

	booking, err := h.bookingService.Create(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, response.Success(toBookingResponse(booking)))
}

// Get handles GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		c.JSON(http.StatusBadRequest, response.BadRequest("Booking ID is required"))
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	booking, err := h.bookingService.Get(ctx, bookingID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(toBookingResponse(booking)))
}

// List handles GET /bookings
func (h *BookingHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	var filter dto.BookingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		span.SetStatus(codes.Error, "invalid query")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}
	filter.UserID = userID
	filter.SetDefaults()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("limit", filter.Limit),
		attribute.Int("offset", filter.Offset),
	)

	bookings, total, err := h.bookingService.List(ctx, &filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	responses := make([]*dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		responses[i] = toBookingResponse(b)
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(&dto.BookingListResponse{
		Bookings: responses,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}))
}

// Cancel handles POST /bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		c.JSON(http.StatusBadRequest, response.BadRequest("Booking ID is required"))
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	booking, err := h.bookingService.Cancel(ctx, bookingID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(toBookingResponse(booking)))
}

// OpenCheckout handles POST /bookings/:id/checkout
func (h *BookingHandler) OpenCheckout(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.checkout")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		c.JSON(http.StatusBadRequest, response.BadRequest("Booking ID is required"))
		return
	}

	var req dto.OpenCheckoutRequest
	// Body is optional; URLs fall back to configured defaults
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	session, err := h.checkoutService.OpenCheckout(ctx, bookingID, userID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("session_id", session.SessionID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(&dto.CheckoutResponse{
		BookingID:         bookingID,
		CheckoutSessionID: session.SessionID,
		CheckoutURL:       session.URL,
	}))
}

// ListTickets handles GET /bookings/:id/tickets
func (h *BookingHandler) ListTickets(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.tickets")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		c.JSON(http.StatusBadRequest, response.BadRequest("Booking ID is required"))
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	tickets, err := h.ticketService.ListByBooking(ctx, bookingID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	responses := make([]*dto.TicketResponse, len(tickets))
	for i, t := range tickets {
		responses[i] = toTicketResponse(t)
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(&dto.TicketListResponse{
		Tickets: responses,
		Total:   len(responses),
	}))
}

// toBookingResponse converts a domain booking to response DTO
func toBookingResponse(booking *domain.Booking) *dto.BookingResponse {
	items := make([]*dto.BookingItemResponse, len(booking.Items))
	for i, item := range booking.Items {
		items[i] = &dto.BookingItemResponse{
			ID:           item.ID,
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		}
	}

	resp := &dto.BookingResponse{
		ID:                booking.ID,
		UserID:            booking.UserID,
		CustomerName:      booking.CustomerName,
		CustomerEmail:     booking.CustomerEmail,
		CustomerPhone:     booking.CustomerPhone,
		EventID:           booking.EventID,
		Status:            string(booking.Status),
		TotalPrice:        booking.TotalPrice,
		Currency:          booking.Currency,
		CheckoutSessionID: booking.CheckoutSessionID,
		PaymentIntentID:   booking.PaymentIntentID,
		Items:             items,
		CreatedAt:         booking.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if booking.ConfirmedAt != nil {
		confirmedAt := booking.ConfirmedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ConfirmedAt = &confirmedAt
	}
	if booking.CancelledAt != nil {
		cancelledAt := booking.CancelledAt.Format("2006-01-02T15:04:05Z07:00")
		resp.CancelledAt = &cancelledAt
	}
	return resp
}
