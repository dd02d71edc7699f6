package dto

// RegisterOrganizerRequest represents the request to register as an organizer
type RegisterOrganizerRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=255"`
	StripeAccountID string `json:"stripe_account_id"`
	UserID          string `json:"-"` // Set from context
}

// Validate validates the RegisterOrganizerRequest
func (r *RegisterOrganizerRequest) Validate() (bool, string) {
	if r.Name == "" {
		return false, "Organizer name is required"
	}
	return true, ""
}

// OrganizerResponse represents an organizer in API responses
type OrganizerResponse struct {
	ID                 string `json:"id"`
	UserID             string `json:"user_id"`
	Name               string `json:"name"`
	StripeAccountID    string `json:"stripe_account_id,omitempty"`
	VerificationStatus string `json:"verification_status"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}
