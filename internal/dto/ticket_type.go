package dto

import "time"

// CreateTicketTypeRequest represents the request to add a ticket type to an event
type CreateTicketTypeRequest struct {
	Name              string     `json:"name" binding:"required,min=1,max=255"`
	Description       string     `json:"description"`
	Price             float64    `json:"price" binding:"min=0"`
	Currency          string     `json:"currency" binding:"omitempty,len=3"`
	QuantityAvailable int        `json:"quantity_available" binding:"required,min=1"`
	MaxPerOrder       int        `json:"max_per_order" binding:"min=0"`
	SaleStartAt       *time.Time `json:"sale_start_at"`
	SaleEndAt         *time.Time `json:"sale_end_at"`
}

// Validate validates the CreateTicketTypeRequest
func (r *CreateTicketTypeRequest) Validate() (bool, string) {
	if r.Name == "" {
		return false, "Ticket type name is required"
	}
	if r.Price < 0 {
		return false, "Price cannot be negative"
	}
	if r.QuantityAvailable < 1 {
		return false, "Quantity available must be at least 1"
	}
	if r.MaxPerOrder < 0 {
		return false, "Max per order cannot be negative"
	}
	if r.SaleStartAt != nil && r.SaleEndAt != nil && r.SaleEndAt.Before(*r.SaleStartAt) {
		return false, "Sale end time must be after sale start time"
	}
	return true, ""
}

// UpdateTicketTypeRequest represents the request to update a ticket type
type UpdateTicketTypeRequest struct {
	Name              *string    `json:"name" binding:"omitempty,min=1,max=255"`
	Description       *string    `json:"description"`
	Price             *float64   `json:"price" binding:"omitempty,min=0"`
	QuantityAvailable *int       `json:"quantity_available" binding:"omitempty,min=1"`
	MaxPerOrder       *int       `json:"max_per_order" binding:"omitempty,min=0"`
	SaleStartAt       *time.Time `json:"sale_start_at"`
	SaleEndAt         *time.Time `json:"sale_end_at"`
}

// Validate validates the UpdateTicketTypeRequest
func (r *UpdateTicketTypeRequest) Validate() (bool, string) {
	if r.Name != nil && *r.Name == "" {
		return false, "Ticket type name cannot be empty"
	}
	if r.Price != nil && *r.Price < 0 {
		return false, "Price cannot be negative"
	}
	if r.QuantityAvailable != nil && *r.QuantityAvailable < 1 {
		return false, "Quantity available must be at least 1"
	}
	return true, ""
}

// TicketTypeResponse represents the response for a ticket type
type TicketTypeResponse struct {
	ID                string  `json:"id"`
	EventID           string  `json:"event_id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	QuantityAvailable int     `json:"quantity_available"`
	QuantitySold      int     `json:"quantity_sold"`
	Remaining         int     `json:"remaining"`
	MaxPerOrder       int     `json:"max_per_order"`
	SaleStartAt       *string `json:"sale_start_at,omitempty"`
	SaleEndAt         *string `json:"sale_end_at,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// TicketTypeListResponse represents the ticket types of an event
type TicketTypeListResponse struct {
	TicketTypes []*TicketTypeResponse `json:"ticket_types"`
	Total       int                   `json:"total"`
}
