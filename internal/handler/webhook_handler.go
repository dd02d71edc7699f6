package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"

	"github.com/re5pectR10/eventhub/internal/domain"
	"github.com/re5pectR10/eventhub/internal/gateway"
	"github.com/re5pectR10/eventhub/internal/metrics"
	"github.com/re5pectR10/eventhub/internal/service"
	"github.com/re5pectR10/eventhub/pkg/logger"
)

// maxWebhookBodyBytes caps webhook payloads; Stripe events are far smaller
const maxWebhookBodyBytes = int64(65536)

// WebhookHandler processes payment processor webhook events. Every state
// change behind this endpoint must be safe to replay, because the processor
// redelivers events until it gets a 2xx.
type WebhookHandler struct {
	fulfillmentService service.FulfillmentService
	organizerService   service.OrganizerService
	gateway            gateway.PaymentGateway
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(fulfillmentService service.FulfillmentService, organizerService service.OrganizerService, gw gateway.PaymentGateway) *WebhookHandler {
	return &WebhookHandler{
		fulfillmentService: fulfillmentService,
		organizerService:   organizerService,
		gateway:            gw,
	}
}

// HandleStripeWebhook handles POST /api/v1/webhooks/stripe
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	log := logger.Get()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to read webhook body: %v", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		log.Warn("Webhook request missing Stripe-Signature header")
		metrics.RecordSignatureFailure(c.Request.Context())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Stripe-Signature header"})
		return
	}

	// Nothing below runs on an unverified payload
	event, err := h.gateway.VerifyWebhookSignature(payload, sigHeader)
	if err != nil {
		log.Error(fmt.Sprintf("Webhook signature verification failed: %v", err))
		metrics.RecordSignatureFailure(c.Request.Context())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	log.Info(fmt.Sprintf("Received Stripe webhook event: %s", event.Type))

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutSessionCompleted(c, *event)
	case "payment_intent.payment_failed":
		h.handlePaymentIntentFailed(c, *event)
	case "account.updated":
		h.handleAccountUpdated(c, *event)
	default:
		log.Info(fmt.Sprintf("Unhandled event type: %s", event.Type))
		metrics.RecordWebhook(c.Request.Context(), string(event.Type), "ignored")
		c.JSON(http.StatusOK, gin.H{"received": true, "message": "Event type not handled"})
	}
}

// handleCheckoutSessionCompleted confirms the booking referenced by the
// session. Two metadata shapes are supported: a booking_id pointing at a
// pending booking, or an event_id plus serialized item selections for
// sessions created outside the booking flow.
func (h *WebhookHandler) handleCheckoutSessionCompleted(c *gin.Context, event stripe.Event) {
	log := logger.Get()
	ctx := c.Request.Context()

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Error(fmt.Sprintf("Failed to parse checkout.session.completed data: %v", err))
		metrics.RecordWebhook(ctx, "checkout.session.completed", "malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse event data"})
		return
	}

	var paymentIntentID string
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	if bookingID := session.Metadata["booking_id"]; bookingID != "" {
		h.confirmBooking(c, bookingID, paymentIntentID)
		return
	}

	eventID := session.Metadata["event_id"]
	itemsJSON := session.Metadata["items"]
	if eventID == "" || itemsJSON == "" {
		log.Warn(fmt.Sprintf("Checkout session %s carries no booking reference", session.ID))
		metrics.RecordWebhook(ctx, "checkout.session.completed", "ignored")
		c.JSON(http.StatusOK, gin.H{"received": true, "message": "No booking reference in session"})
		return
	}

	var selections []domain.ItemSelection
	if err := json.Unmarshal([]byte(itemsJSON), &selections); err != nil {
		log.Error(fmt.Sprintf("Failed to parse items metadata for session %s: %v", session.ID, err))
		metrics.RecordWebhook(ctx, "checkout.session.completed", "malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed items metadata"})
		return
	}

	userID := session.ClientReferenceID
	if userID == "" {
		userID = session.Metadata["user_id"]
	}

	// Guest checkouts carry no user reference; the buyer is identified by
	// the contact details Stripe collected during checkout.
	req := &service.ConfirmFromCheckoutRequest{
		UserID:          userID,
		EventID:         eventID,
		Currency:        strings.ToUpper(string(session.Currency)),
		Selections:      selections,
		PaymentIntentID: paymentIntentID,
		SessionID:       session.ID,
	}
	if session.CustomerDetails != nil {
		req.CustomerName = session.CustomerDetails.Name
		req.CustomerEmail = session.CustomerDetails.Email
		req.CustomerPhone = session.CustomerDetails.Phone
	}

	booking, err := h.fulfillmentService.ConfirmFromCheckoutItems(ctx, req)
	if err != nil {
		if domain.IsValidationError(err) || domain.IsNotFoundError(err) {
			log.Error(fmt.Sprintf("Checkout session %s references invalid data: %v", session.ID, err))
			metrics.RecordWebhook(ctx, "checkout.session.completed", "malformed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session metadata"})
			return
		}
		log.Error(fmt.Sprintf("Failed to fulfill checkout session %s: %v", session.ID, err))
		metrics.RecordWebhook(ctx, "checkout.session.completed", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	log.Info(fmt.Sprintf("Booking %s fulfilled from checkout session %s", booking.ID, session.ID))
	metrics.RecordWebhook(ctx, "checkout.session.completed", "confirmed")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// confirmBooking drives the pending booking through confirmation and ticket
// issuance. A 5xx answer makes the processor redeliver, so only durable
// failures return one.
func (h *WebhookHandler) confirmBooking(c *gin.Context, bookingID, paymentIntentID string) {
	log := logger.Get()
	ctx := c.Request.Context()

	booking, err := h.fulfillmentService.ConfirmFromPayment(ctx, bookingID, paymentIntentID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingAlreadyCancelled):
			// The customer paid for a booking that was cancelled in the
			// meantime; flag it for manual review but acknowledge the event
			log.Warn(fmt.Sprintf("Payment completed for cancelled booking %s, manual review required", bookingID))
			metrics.RecordWebhook(ctx, "checkout.session.completed", "cancelled_booking")
			c.JSON(http.StatusOK, gin.H{"received": true})
		case errors.Is(err, domain.ErrBookingNotFound):
			// Redelivery cannot make an unknown booking appear
			log.Error(fmt.Sprintf("Checkout completed for unknown booking %s", bookingID))
			metrics.RecordWebhook(ctx, "checkout.session.completed", "unknown_booking")
			c.JSON(http.StatusOK, gin.H{"received": true})
		default:
			log.Error(fmt.Sprintf("Failed to confirm booking %s: %v", bookingID, err))
			metrics.RecordWebhook(ctx, "checkout.session.completed", "failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		}
		return
	}

	log.Info(fmt.Sprintf("Booking %s confirmed from payment %s", booking.ID, paymentIntentID))
	metrics.RecordWebhook(ctx, "checkout.session.completed", "confirmed")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handlePaymentIntentFailed cancels the pending booking named by the intent's
// metadata. Bookings in any other state are left untouched.
func (h *WebhookHandler) handlePaymentIntentFailed(c *gin.Context, event stripe.Event) {
	log := logger.Get()
	ctx := c.Request.Context()

	var paymentIntent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
		log.Error(fmt.Sprintf("Failed to parse payment_intent.payment_failed data: %v", err))
		metrics.RecordWebhook(ctx, "payment_intent.payment_failed", "malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse event data"})
		return
	}

	failureMessage := "unknown"
	if paymentIntent.LastPaymentError != nil {
		failureMessage = paymentIntent.LastPaymentError.Msg
	}

	bookingID := paymentIntent.Metadata["booking_id"]
	if bookingID == "" {
		log.Warn(fmt.Sprintf("Payment %s failed without a booking reference: %s", paymentIntent.ID, failureMessage))
		metrics.RecordWebhook(ctx, "payment_intent.payment_failed", "ignored")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	log.Warn(fmt.Sprintf("Payment %s failed for booking %s: %s", paymentIntent.ID, bookingID, failureMessage))

	if err := h.fulfillmentService.CancelFromPaymentFailure(ctx, bookingID); err != nil {
		log.Error(fmt.Sprintf("Failed to cancel booking %s after payment failure: %v", bookingID, err))
		metrics.RecordWebhook(ctx, "payment_intent.payment_failed", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	metrics.RecordWebhook(ctx, "payment_intent.payment_failed", "cancelled")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handleAccountUpdated refreshes the verification status of the organizer
// mapped to the connected account
func (h *WebhookHandler) handleAccountUpdated(c *gin.Context, event stripe.Event) {
	log := logger.Get()
	ctx := c.Request.Context()

	var account stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
		log.Error(fmt.Sprintf("Failed to parse account.updated data: %v", err))
		metrics.RecordWebhook(ctx, "account.updated", "malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse event data"})
		return
	}

	info := &gateway.AccountInfo{
		AccountID:        account.ID,
		ChargesEnabled:   account.ChargesEnabled,
		PayoutsEnabled:   account.PayoutsEnabled,
		DetailsSubmitted: account.DetailsSubmitted,
	}
	if account.Requirements != nil {
		info.CurrentlyDue = account.Requirements.CurrentlyDue
	}

	organizer, changed, err := h.organizerService.SyncFromAccount(ctx, info)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to sync account %s: %v", account.ID, err))
		metrics.RecordWebhook(ctx, "account.updated", "failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}
	if organizer == nil {
		log.Info(fmt.Sprintf("Account %s is not mapped to an organizer", account.ID))
		metrics.RecordWebhook(ctx, "account.updated", "ignored")
		c.JSON(http.StatusOK, gin.H{"received": true, "message": "Account not mapped"})
		return
	}

	if changed {
		log.Info(fmt.Sprintf("Organizer %s verification status synced to %s", organizer.ID, organizer.VerificationStatus))
	}
	metrics.RecordWebhook(ctx, "account.updated", "synced")
	c.JSON(http.StatusOK, gin.H{"received": true})
}
