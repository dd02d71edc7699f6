package domain

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the lifecycle status of an issued ticket (matches DB ENUM)
type TicketStatus string

const (
	TicketStatusValid    TicketStatus = "valid"
	TicketStatusRedeemed TicketStatus = "redeemed"
	TicketStatusVoid     TicketStatus = "void"
)

// Ticket is a single admission credential issued for one unit of a confirmed
// booking item. TicketCode is globally unique and scannable at the door.
type Ticket struct {
	ID            string       `json:"id"`
	BookingID     string       `json:"booking_id"`
	BookingItemID string       `json:"booking_item_id"`
	EventID       string       `json:"event_id"`
	TicketTypeID  string       `json:"ticket_type_id"`
	TicketCode    string       `json:"ticket_code"`
	QRCode        string       `json:"qr_code"`
	Status        TicketStatus `json:"status"`
	IssuedAt      time.Time    `json:"issued_at"`
	RedeemedAt    *time.Time   `json:"redeemed_at,omitempty"`
}

// NewTicket issues a valid ticket for one unit of a booking item
func NewTicket(bookingID, bookingItemID, eventID, ticketTypeID string) (*Ticket, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if bookingItemID == "" || ticketTypeID == "" {
		return nil, ErrInvalidTicketTypeID
	}
	if eventID == "" {
		return nil, ErrInvalidEventID
	}

	code, err := GenerateTicketCode()
	if err != nil {
		return nil, err
	}

	t := &Ticket{
		ID:            uuid.New().String(),
		BookingID:     bookingID,
		BookingItemID: bookingItemID,
		EventID:       eventID,
		TicketTypeID:  ticketTypeID,
		TicketCode:    code,
		Status:        TicketStatusValid,
		IssuedAt:      time.Now().UTC(),
	}
	t.QRCode = QRPayload(t.ID, t.EventID, t.TicketCode)
	return t, nil
}

// GenerateTicketCode builds a unique scannable code of the form
// TKT-<unix seconds>-<8 hex chars>
func GenerateTicketCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate ticket code: %w", err)
	}
	return fmt.Sprintf("TKT-%d-%s", time.Now().UTC().Unix(), hex.EncodeToString(buf)), nil
}

// QRPayload derives the QR content for a ticket. Deterministic: the same
// inputs always yield the same payload, so re-rendering is stable.
func QRPayload(ticketID, eventID, code string) string {
	payload := fmt.Sprintf(`{"ticket_id":%q,"event_id":%q,"code":%q}`, ticketID, eventID, code)
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// Redeem marks a valid ticket as redeemed at the door
func (t *Ticket) Redeem() error {
	switch t.Status {
	case TicketStatusRedeemed:
		return ErrTicketAlreadyRedeemed
	case TicketStatusVoid:
		return ErrTicketNotValid
	}
	now := time.Now().UTC()
	t.Status = TicketStatusRedeemed
	t.RedeemedAt = &now
	return nil
}

// IsValid reports whether the ticket can still be redeemed
func (t *Ticket) IsValid() bool {
	return t.Status == TicketStatusValid
}
