package dto

// TicketResponse represents an issued ticket in API responses
type TicketResponse struct {
	ID           string  `json:"id"`
	BookingID    string  `json:"booking_id"`
	EventID      string  `json:"event_id"`
	TicketTypeID string  `json:"ticket_type_id"`
	TicketCode   string  `json:"ticket_code"`
	QRCode       string  `json:"qr_code"`
	Status       string  `json:"status"`
	IssuedAt     string  `json:"issued_at"`
	RedeemedAt   *string `json:"redeemed_at,omitempty"`
}

// TicketListResponse represents a collection of tickets
type TicketListResponse struct {
	Tickets []*TicketResponse `json:"tickets"`
	Total   int               `json:"total"`
}

// RedeemTicketRequest represents the request to redeem a ticket at the door
type RedeemTicketRequest struct {
	TicketCode string `json:"ticket_code" binding:"required"`
}

// VerifyTicketResponse reports whether a ticket code admits its holder
type VerifyTicketResponse struct {
	Valid  bool            `json:"valid"`
	Reason string          `json:"reason,omitempty"`
	Ticket *TicketResponse `json:"ticket,omitempty"`
}
