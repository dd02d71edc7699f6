package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/pkg/response"
)

// handleError converts domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Forbidden(err.Error()))
	case domain.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, response.NotFound(err.Error()))
	case errors.Is(err, domain.ErrInsufficientInventory):
		c.JSON(http.StatusConflict, response.Error("INSUFFICIENT_INVENTORY", err.Error()))
	case errors.Is(err, domain.ErrMaxPerOrderExceeded):
		c.JSON(http.StatusConflict, response.Error("MAX_PER_ORDER_EXCEEDED", err.Error()))
	case errors.Is(err, domain.ErrEventNotBookable):
		c.JSON(http.StatusConflict, response.Error("EVENT_NOT_BOOKABLE", err.Error()))
	case errors.Is(err, domain.ErrTicketTypeNotOnSale):
		c.JSON(http.StatusConflict, response.Error("NOT_ON_SALE", err.Error()))
	case errors.Is(err, domain.ErrProcessorFailure):
		c.JSON(http.StatusBadGateway, response.Error("PROCESSOR_FAILURE", "Payment processor is unavailable, please retry"))
	case domain.IsConflictError(err):
		c.JSON(http.StatusConflict, response.Conflict(err.Error()))
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.InternalError("Internal server error"))
	}
}
