package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewTicket(t *testing.T) {
	tests := []struct {
		name          string
		bookingID     string
		bookingItemID string
		eventID       string
		ticketTypeID  string
		wantErr       error
	}{
		{name: "valid", bookingID: "b-1", bookingItemID: "bi-1", eventID: "e-1", ticketTypeID: "tt-1"},
		{name: "missing booking", bookingItemID: "bi-1", eventID: "e-1", ticketTypeID: "tt-1", wantErr: ErrInvalidBookingID},
		{name: "missing booking item", bookingID: "b-1", eventID: "e-1", ticketTypeID: "tt-1", wantErr: ErrInvalidTicketTypeID},
		{name: "missing event", bookingID: "b-1", bookingItemID: "bi-1", ticketTypeID: "tt-1", wantErr: ErrInvalidEventID},
		{name: "missing ticket type", bookingID: "b-1", bookingItemID: "bi-1", eventID: "e-1", wantErr: ErrInvalidTicketTypeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket, err := NewTicket(tt.bookingID, tt.bookingItemID, tt.eventID, tt.ticketTypeID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewTicket() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewTicket() unexpected error = %v", err)
			}
			if ticket.Status != TicketStatusValid {
				t.Errorf("status = %q, want %q", ticket.Status, TicketStatusValid)
			}
			if !strings.HasPrefix(ticket.TicketCode, "TKT-") {
				t.Errorf("code = %q, want TKT- prefix", ticket.TicketCode)
			}
			if ticket.QRCode == "" {
				t.Error("QR code not set")
			}
		})
	}
}

func TestGenerateTicketCode_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateTicketCode()
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestQRPayload(t *testing.T) {
	payload := QRPayload("ticket-1", "event-1", "TKT-123-abcd1234")

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("payload not base64: %v", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(decoded, &fields); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if fields["ticket_id"] != "ticket-1" {
		t.Errorf("ticket_id = %q, want ticket-1", fields["ticket_id"])
	}
	if fields["event_id"] != "event-1" {
		t.Errorf("event_id = %q, want event-1", fields["event_id"])
	}
	if fields["code"] != "TKT-123-abcd1234" {
		t.Errorf("code = %q, want TKT-123-abcd1234", fields["code"])
	}
}

func TestTicket_Redeem(t *testing.T) {
	t.Run("valid to redeemed", func(t *testing.T) {
		ticket, _ := NewTicket("b-1", "bi-1", "e-1", "tt-1")
		if err := ticket.Redeem(); err != nil {
			t.Fatalf("Redeem() unexpected error = %v", err)
		}
		if ticket.Status != TicketStatusRedeemed {
			t.Errorf("status = %q, want %q", ticket.Status, TicketStatusRedeemed)
		}
		if ticket.RedeemedAt == nil {
			t.Error("RedeemedAt not set")
		}
	})

	t.Run("already redeemed", func(t *testing.T) {
		ticket, _ := NewTicket("b-1", "bi-1", "e-1", "tt-1")
		_ = ticket.Redeem()
		if err := ticket.Redeem(); !errors.Is(err, ErrTicketAlreadyRedeemed) {
			t.Errorf("Redeem() error = %v, want %v", err, ErrTicketAlreadyRedeemed)
		}
	})

	t.Run("void ticket", func(t *testing.T) {
		ticket, _ := NewTicket("b-1", "bi-1", "e-1", "tt-1")
		ticket.Status = TicketStatusVoid
		if err := ticket.Redeem(); !errors.Is(err, ErrTicketNotValid) {
			t.Errorf("Redeem() error = %v, want %v", err, ErrTicketNotValid)
		}
	})
}

func TestTicket_IsValid(t *testing.T) {
	ticket, _ := NewTicket("b-1", "bi-1", "e-1", "tt-1")
	if !ticket.IsValid() {
		t.Error("fresh ticket should be valid")
	}
	_ = ticket.Redeem()
	if ticket.IsValid() {
		t.Error("redeemed ticket should not be valid")
	}
}
