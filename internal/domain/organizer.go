package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus represents the payout-readiness of an organizer
// as reported by the payment processor (matches DB ENUM)
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// Organizer is a seller account that owns events and receives payouts
// through a connected processor account.
type Organizer struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	Name               string             `json:"name"`
	StripeAccountID    string             `json:"stripe_account_id,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewOrganizer registers an organizer in pending verification state
func NewOrganizer(userID, name string) (*Organizer, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if name == "" {
		return nil, errors.New("name is required")
	}

	now := time.Now().UTC()
	return &Organizer{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Name:               name,
		VerificationStatus: VerificationStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// SyncVerification applies a verification status reported by the processor.
// Returns true when the stored status actually changed.
func (o *Organizer) SyncVerification(status VerificationStatus) bool {
	if o.VerificationStatus == status {
		return false
	}
	o.VerificationStatus = status
	o.UpdatedAt = time.Now().UTC()
	return true
}

// CanReceivePayouts reports whether checkout may route funds to this organizer
func (o *Organizer) CanReceivePayouts() bool {
	return o.VerificationStatus == VerificationStatusVerified && o.StripeAccountID != ""
}
