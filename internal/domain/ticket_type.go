package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TicketType represents one tier of tickets for an event. QuantitySold is
// only ever moved by the inventory commit at payment confirmation, so
// QuantityAvailable - QuantitySold is the optimistic remainder seen at
// booking time.
type TicketType struct {
	ID                string     `json:"id"`
	EventID           string     `json:"event_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Price             float64    `json:"price"`
	Currency          string     `json:"currency"`
	QuantityAvailable int        `json:"quantity_available"`
	QuantitySold      int        `json:"quantity_sold"`
	MaxPerOrder       int        `json:"max_per_order"`
	SaleStartAt       *time.Time `json:"sale_start_at,omitempty"`
	SaleEndAt         *time.Time `json:"sale_end_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewTicketType creates a ticket type for an event
func NewTicketType(eventID, name string, price float64, currency string, quantityAvailable int) (*TicketType, error) {
	if eventID == "" {
		return nil, errors.New("event_id is required")
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if quantityAvailable < 0 {
		return nil, errors.New("quantity_available cannot be negative")
	}
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	return &TicketType{
		ID:                uuid.New().String(),
		EventID:           eventID,
		Name:              name,
		Price:             price,
		Currency:          currency,
		QuantityAvailable: quantityAvailable,
		QuantitySold:      0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Remaining returns the optimistic remainder. It can go negative after an
// oversell commit; callers treat negative as zero for display.
func (t *TicketType) Remaining() int {
	return t.QuantityAvailable - t.QuantitySold
}

// CanFulfill reports whether a requested quantity passes the availability
// check at booking time. This is advisory only: nothing re-checks it at
// payment confirmation.
func (t *TicketType) CanFulfill(quantity int) bool {
	return quantity > 0 && t.Remaining() >= quantity
}

// WithinOrderCap reports whether quantity respects the per-order cap.
// A cap of zero means unlimited.
func (t *TicketType) WithinOrderCap(quantity int) bool {
	return t.MaxPerOrder <= 0 || quantity <= t.MaxPerOrder
}

// OnSale reports whether the sale window, when set, contains now
func (t *TicketType) OnSale(now time.Time) bool {
	if t.SaleStartAt != nil && now.Before(*t.SaleStartAt) {
		return false
	}
	if t.SaleEndAt != nil && now.After(*t.SaleEndAt) {
		return false
	}
	return true
}
