package domain

import "errors"

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingNotPending       = errors.New("booking is not pending")
	ErrBookingAlreadyConfirmed = errors.New("booking already confirmed")
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")

	// Event errors
	ErrEventNotFound         = errors.New("event not found")
	ErrEventNotBookable      = errors.New("event is not open for booking")
	ErrEventNotDraft         = errors.New("event is not in draft status")
	ErrEventAlreadyStarted   = errors.New("event has already started")
	ErrEventAlreadyCancelled = errors.New("event already cancelled")
	ErrEventHasNoTicketTypes = errors.New("event has no ticket types")

	// Ticket type errors
	ErrTicketTypeNotFound  = errors.New("ticket type not found")
	ErrTicketTypeHasSales  = errors.New("ticket type has sold tickets")
	ErrTicketTypeNotOnSale = errors.New("ticket type is not on sale")

	// Ticket errors
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketAlreadyRedeemed = errors.New("ticket already redeemed")
	ErrTicketNotValid        = errors.New("ticket is not valid")

	// Organizer errors
	ErrOrganizerNotFound      = errors.New("organizer not found")
	ErrOrganizerAlreadyExists = errors.New("organizer already registered for this user")

	// Access errors
	ErrForbidden = errors.New("caller does not own this resource")

	// Validation errors
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrInvalidEventID      = errors.New("invalid event id")
	ErrInvalidBookingID    = errors.New("invalid booking id")
	ErrInvalidTicketTypeID = errors.New("invalid ticket type id")
	ErrEmptyItems          = errors.New("booking must contain at least one item")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInvalidPrice        = errors.New("price cannot be negative")
	ErrInvalidCapacity     = errors.New("capacity cannot be below quantity already sold")
	ErrTicketTypeMismatch  = errors.New("ticket type does not belong to this event")

	// Availability errors
	ErrInsufficientInventory = errors.New("insufficient tickets available")
	ErrMaxPerOrderExceeded   = errors.New("maximum tickets per order exceeded")

	// Payment errors
	ErrProcessorFailure   = errors.New("payment processor request failed")
	ErrSignatureInvalid   = errors.New("webhook signature verification failed")
	ErrCheckoutNotAllowed = errors.New("checkout can only be opened for pending bookings")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTicketTypeNotFound) ||
		errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrOrganizerNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidTicketTypeID) ||
		errors.Is(err, ErrEmptyItems) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrTicketTypeMismatch)
}

// IsConflictError checks if the error is a state conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrBookingNotPending) ||
		errors.Is(err, ErrBookingAlreadyConfirmed) ||
		errors.Is(err, ErrBookingAlreadyCancelled) ||
		errors.Is(err, ErrEventNotBookable) ||
		errors.Is(err, ErrEventNotDraft) ||
		errors.Is(err, ErrEventAlreadyStarted) ||
		errors.Is(err, ErrEventAlreadyCancelled) ||
		errors.Is(err, ErrEventHasNoTicketTypes) ||
		errors.Is(err, ErrInsufficientInventory) ||
		errors.Is(err, ErrMaxPerOrderExceeded) ||
		errors.Is(err, ErrTicketTypeHasSales) ||
		errors.Is(err, ErrTicketTypeNotOnSale) ||
		errors.Is(err, ErrTicketAlreadyRedeemed) ||
		errors.Is(err, ErrTicketNotValid) ||
		errors.Is(err, ErrOrganizerAlreadyExists) ||
		errors.Is(err, ErrCheckoutNotAllowed)
}
