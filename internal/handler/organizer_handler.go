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

// OrganizerHandler handles organizer profile HTTP requests
type OrganizerHandler struct {
	organizerService service.OrganizerService
	eventService     service.EventService
}

// NewOrganizerHandler creates a new organizer handler
func NewOrganizerHandler(organizerService service.OrganizerService, eventService service.EventService) *OrganizerHandler {
	return &OrganizerHandler{
		organizerService: organizerService,
		eventService:     eventService,
	}
}

// Register handles POST /api/v1/organizers
func (h *OrganizerHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.organizer.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	var req dto.RegisterOrganizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body: "+err.Error()))
		return
	}
	req.UserID = userID

	if ok, msg := req.Validate(); !ok {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	organizer, err := h.organizerService.Register(ctx, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(toOrganizerResponse(organizer)))
}

// GetOwn handles GET /api/v1/organizers/me
func (h *OrganizerHandler) GetOwn(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.organizer.get_own")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	organizer, err := h.organizerService.GetOwn(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toOrganizerResponse(organizer)))
}

// ListOwnEvents handles GET /api/v1/organizers/me/events
// Unlike the public catalog this includes draft and cancelled events.
func (h *OrganizerHandler) ListOwnEvents(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.organizer.list_events")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return
	}

	organizer, err := h.organizerService.GetOwn(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters: "+err.Error()))
		return
	}
	filter.OrganizerID = organizer.ID
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

func toOrganizerResponse(o *domain.Organizer) *dto.OrganizerResponse {
	return &dto.OrganizerResponse{
		ID:                 o.ID,
		UserID:             o.UserID,
		Name:               o.Name,
		StripeAccountID:    o.StripeAccountID,
		VerificationStatus: string(o.VerificationStatus),
		CreatedAt:          o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:          o.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
