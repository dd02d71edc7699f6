package gateway

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

// PaymentGateway defines the interface for the payment processor
type PaymentGateway interface {
	// CreateCheckoutSession opens a hosted checkout session for a booking
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSessionResponse, error)

	// VerifyWebhookSignature verifies a webhook payload against its
	// signature header and returns the parsed event
	VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error)

	// GetAccount retrieves the verification state of a connected account
	GetAccount(ctx context.Context, accountID string) (*AccountInfo, error)

	// Name returns the gateway name
	Name() string
}

// CheckoutItem is one priced line of a checkout session. UnitPrice is in
// major currency units; the gateway converts to the smallest unit.
type CheckoutItem struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

// ConnectParams routes funds to a connected account with a platform fee
type ConnectParams struct {
	DestinationAccountID string
	ApplicationFeeAmount int64 // smallest currency unit
}

// CheckoutSessionRequest represents a checkout session to open
type CheckoutSessionRequest struct {
	BookingID  string
	UserID     string
	EventID    string
	Currency   string
	Items      []CheckoutItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
	Connect    *ConnectParams
}

// CheckoutSessionResponse represents an opened checkout session
type CheckoutSessionResponse struct {
	SessionID string
	URL       string
}

// AccountInfo represents the verification state of a connected account
type AccountInfo struct {
	AccountID        string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	CurrentlyDue     []string
}

// GatewayConfig holds common gateway configuration
type GatewayConfig struct {
	SecretKey     string
	WebhookSecret string
	Environment   string // "test" or "live"
}
