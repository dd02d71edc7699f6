package dto

// OpenCheckoutRequest represents the request to open checkout for a booking.
// URLs override the configured defaults when provided.
type OpenCheckoutRequest struct {
	SuccessURL string `json:"success_url" binding:"omitempty,url"`
	CancelURL  string `json:"cancel_url" binding:"omitempty,url"`
}

// CheckoutResponse represents the hosted checkout session opened for a booking
type CheckoutResponse struct {
	BookingID         string `json:"booking_id"`
	CheckoutSessionID string `json:"checkout_session_id"`
	CheckoutURL       string `json:"checkout_url"`
}
