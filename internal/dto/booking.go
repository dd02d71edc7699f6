package dto

// BookingItemRequest is one requested line of a booking
type BookingItemRequest struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	EventID       string               `json:"event_id" binding:"required"`
	Items         []BookingItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerName  string               `json:"customer_name" binding:"omitempty,max=255"`
	CustomerEmail string               `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone string               `json:"customer_phone" binding:"omitempty,max=50"`
	UserID        string               `json:"-"` // Set from context
}

// Validate validates the CreateBookingRequest
func (r *CreateBookingRequest) Validate() (bool, string) {
	if r.EventID == "" {
		return false, "Event ID is required"
	}
	if len(r.Items) == 0 {
		return false, "At least one item is required"
	}
	seen := make(map[string]bool, len(r.Items))
	for _, item := range r.Items {
		if item.TicketTypeID == "" {
			return false, "Ticket type ID is required for every item"
		}
		if item.Quantity < 1 {
			return false, "Quantity must be at least 1"
		}
		if seen[item.TicketTypeID] {
			return false, "Duplicate ticket type in items"
		}
		seen[item.TicketTypeID] = true
	}
	return true, ""
}

// BookingItemResponse represents a booking line in API responses
type BookingItemResponse struct {
	ID           string  `json:"id"`
	TicketTypeID string  `json:"ticket_type_id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"user_id"`
	CustomerName      string                 `json:"customer_name,omitempty"`
	CustomerEmail     string                 `json:"customer_email,omitempty"`
	CustomerPhone     string                 `json:"customer_phone,omitempty"`
	EventID           string                 `json:"event_id"`
	Status            string                 `json:"status"`
	TotalPrice        float64                `json:"total_price"`
	Currency          string                 `json:"currency"`
	CheckoutSessionID string                 `json:"checkout_session_id,omitempty"`
	PaymentIntentID   string                 `json:"payment_intent_id,omitempty"`
	Items             []*BookingItemResponse `json:"items"`
	CreatedAt         string                 `json:"created_at"`
	ConfirmedAt       *string                `json:"confirmed_at,omitempty"`
	CancelledAt       *string                `json:"cancelled_at,omitempty"`
}

// BookingListResponse represents a page of bookings
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// BookingListFilter represents filters for listing a user's bookings
type BookingListFilter struct {
	Status  string `form:"status"`
	EventID string `form:"event_id"`
	UserID  string `form:"-"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *BookingListFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
