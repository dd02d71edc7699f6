package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle status of a booking (matches DB ENUM)
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a buyer's order for one or more ticket types of a
// single event. It is created pending with no inventory held; inventory is
// committed only when the booking is confirmed.
type Booking struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	CustomerName      string        `json:"customer_name,omitempty"`
	CustomerEmail     string        `json:"customer_email,omitempty"`
	CustomerPhone     string        `json:"customer_phone,omitempty"`
	EventID           string        `json:"event_id"`
	Status            BookingStatus `json:"status"`
	TotalPrice        float64       `json:"total_price"`
	Currency          string        `json:"currency"`
	CheckoutSessionID string        `json:"checkout_session_id,omitempty"`
	PaymentIntentID   string        `json:"payment_intent_id,omitempty"`
	Items             []*BookingItem `json:"items,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	ConfirmedAt       *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt       *time.Time    `json:"cancelled_at,omitempty"`
}

// BookingItem is one line of a booking. UnitPrice is the ticket type price
// captured when the booking was created; later price changes never affect it.
type BookingItem struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"booking_id"`
	TicketTypeID string    `json:"ticket_type_id"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	CreatedAt    time.Time `json:"created_at"`
}

// ItemSelection is a requested (ticket type, quantity) pair before pricing
type ItemSelection struct {
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int    `json:"quantity"`
}

// Customer identifies the buyer of a webhook-synthesized booking. UserID may
// be empty when the checkout ran anonymously; Email is then the only identity.
type Customer struct {
	UserID string
	Name   string
	Email  string
	Phone  string
}

// NewBooking creates a pending booking with priced items. Each entry in
// prices must carry the unit price captured for the matching selection.
func NewBooking(userID, eventID, currency string, selections []ItemSelection, prices []float64) (*Booking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return newBooking(userID, eventID, currency, selections, prices)
}

func newBooking(userID, eventID, currency string, selections []ItemSelection, prices []float64) (*Booking, error) {
	if eventID == "" {
		return nil, ErrInvalidEventID
	}
	if len(selections) == 0 {
		return nil, ErrEmptyItems
	}
	if len(prices) != len(selections) {
		return nil, ErrInvalidPrice
	}
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	booking := &Booking{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		Status:    BookingStatusPending,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for i, sel := range selections {
		if sel.TicketTypeID == "" {
			return nil, ErrInvalidTicketTypeID
		}
		if sel.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if prices[i] < 0 {
			return nil, ErrInvalidPrice
		}
		booking.Items = append(booking.Items, &BookingItem{
			ID:           uuid.New().String(),
			BookingID:    booking.ID,
			TicketTypeID: sel.TicketTypeID,
			Quantity:     sel.Quantity,
			UnitPrice:    prices[i],
			CreatedAt:    now,
		})
		booking.TotalPrice += float64(sel.Quantity) * prices[i]
	}

	return booking, nil
}

// NewConfirmedBooking creates a booking directly in confirmed state. Used
// when a paid checkout session arrives carrying ticket selections instead of
// a booking reference; the payment already happened, so there is no pending
// phase to pass through.
func NewConfirmedBooking(customer Customer, eventID, currency string, selections []ItemSelection, prices []float64, paymentIntentID string) (*Booking, error) {
	if customer.UserID == "" && customer.Email == "" {
		return nil, ErrInvalidUserID
	}
	booking, err := newBooking(customer.UserID, eventID, currency, selections, prices)
	if err != nil {
		return nil, err
	}
	booking.CustomerName = customer.Name
	booking.CustomerEmail = customer.Email
	booking.CustomerPhone = customer.Phone
	now := time.Now().UTC()
	booking.Status = BookingStatusConfirmed
	booking.PaymentIntentID = paymentIntentID
	booking.ConfirmedAt = &now
	booking.UpdatedAt = now
	return booking, nil
}

// Confirm moves a pending booking to confirmed
func (b *Booking) Confirm(paymentIntentID string) error {
	switch b.Status {
	case BookingStatusConfirmed:
		return nil
	case BookingStatusCancelled:
		return ErrBookingAlreadyCancelled
	}
	now := time.Now().UTC()
	b.Status = BookingStatusConfirmed
	b.PaymentIntentID = paymentIntentID
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return nil
}

// Cancel moves a pending booking to cancelled
func (b *Booking) Cancel() error {
	switch b.Status {
	case BookingStatusCancelled:
		return ErrBookingAlreadyCancelled
	case BookingStatusConfirmed:
		return ErrBookingNotPending
	}
	now := time.Now().UTC()
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// IsPending reports whether the booking is still awaiting payment
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// TotalQuantity sums the quantities across all items
func (b *Booking) TotalQuantity() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}
