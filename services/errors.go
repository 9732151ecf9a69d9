package services

import "errors"

// Booking engine errors. Messages are shown to callers as-is.
var (
	// not found
	ErrBookingNotFound  = errors.New("booking not found")
	ErrHomestayNotFound = errors.New("homestay not found")
	ErrTouristNotFound  = errors.New("tourist not found")

	// forbidden
	ErrForbidden = errors.New("you do not have access to this booking")

	// validation
	ErrHomestayUnavailable  = errors.New("homestay is not available")
	ErrInvalidDates         = errors.New("check-out must be after check-in")
	ErrInvalidRooms         = errors.New("at least 1 room required")
	ErrCapacityExceeded     = errors.New("not enough rooms at this homestay")
	ErrInvalidGuests        = errors.New("at least 1 guest required")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrCannotCancel         = errors.New("booking can no longer be cancelled")
	ErrInvalidTransition    = errors.New("booking cannot move to that status")

	// conflict
	ErrDateConflict = errors.New("selected dates are not available")

	ErrInsufficientBalance = errors.New("not enough points")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrHomestayNotFound) ||
		errors.Is(err, ErrTouristNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrHomestayUnavailable) ||
		errors.Is(err, ErrInvalidDates) ||
		errors.Is(err, ErrInvalidRooms) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrInvalidGuests) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidPaymentStatus) ||
		errors.Is(err, ErrCannotCancel) ||
		errors.Is(err, ErrInvalidTransition)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrDateConflict)
}

func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}
