package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v82"
)

// alphanumericChars for generating Stripe-compatible IDs
const alphanumericChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomAlphanumeric generates a random alphanumeric string of given length
func randomAlphanumeric(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumericChars[rand.Intn(len(alphanumericChars))]
	}
	return string(b)
}

// MockGateway implements PaymentGateway for development and testing.
// It never talks to a processor: sessions are fabricated in memory and
// webhook payloads are accepted whenever a signature header is present.
type MockGateway struct {
	config   *MockGatewayConfig
	sessions sync.Map
}

// MockGatewayConfig holds configuration for the mock gateway
type MockGatewayConfig struct {
	// SuccessRate is the probability of opening a session (0.0 to 1.0)
	SuccessRate float64

	// DelayMs is the simulated processing delay in milliseconds
	DelayMs int

	// AccountsVerified makes GetAccount report fully verified accounts
	AccountsVerified bool
}

// DefaultMockGatewayConfig returns default configuration
func DefaultMockGatewayConfig() *MockGatewayConfig {
	return &MockGatewayConfig{
		SuccessRate:      1.0,
		DelayMs:          50,
		AccountsVerified: true,
	}
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(config *MockGatewayConfig) *MockGateway {
	if config == nil {
		config = DefaultMockGatewayConfig()
	}
	return &MockGateway{config: config}
}

// CreateCheckoutSession fabricates a checkout session
func (g *MockGateway) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("checkout session request is required")
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("checkout session requires at least one item")
	}

	if g.config.DelayMs > 0 {
		select {
		case <-time.After(time.Duration(g.config.DelayMs) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if rand.Float64() > g.config.SuccessRate {
		return nil, fmt.Errorf("mock gateway: session creation failed")
	}

	sessionID := "cs_mock_" + randomAlphanumeric(24)
	resp := &CheckoutSessionResponse{
		SessionID: sessionID,
		URL:       "https://checkout.mock.local/pay/" + sessionID,
	}
	g.sessions.Store(sessionID, req)
	return resp, nil
}

// VerifyWebhookSignature accepts any payload carrying a signature header
// and parses it as a Stripe event
func (g *MockGateway) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	if signature == "" {
		return nil, fmt.Errorf("webhook signature verification failed: missing signature")
	}
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}

// GetAccount reports a fabricated account state
func (g *MockGateway) GetAccount(ctx context.Context, accountID string) (*AccountInfo, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}
	if g.config.AccountsVerified {
		return &AccountInfo{
			AccountID:        accountID,
			ChargesEnabled:   true,
			PayoutsEnabled:   true,
			DetailsSubmitted: true,
		}, nil
	}
	return &AccountInfo{
		AccountID:    accountID,
		CurrentlyDue: []string{"external_account"},
	}, nil
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

// Ensure MockGateway implements PaymentGateway
var _ PaymentGateway = (*MockGateway)(nil)
