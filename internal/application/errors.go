package application

import "errors"

var (
	// ErrMissingFields is a registration without one of the four required fields.
	ErrMissingFields = errors.New("missing required fields")
	// ErrNoSessionData is a confirmation without a stored record or CRM id.
	ErrNoSessionData = errors.New("no session data or missing id")
	ErrMissingID     = errors.New("missing id")
	ErrNoUserData    = errors.New("no user data found")
	ErrNoLoyaltyData = errors.New("No loyalty data found")
	ErrRegistration  = errors.New("Registration error. Please try again.")

	ErrEmailRequired      = errors.New("Email is required")
	ErrURLRequired        = errors.New("URL is required")
	ErrDeviceTypeRequired = errors.New("Device type is required")
	// ErrUpstream hides CRM details from the caller.
	ErrUpstream = errors.New("Unable to reach the CRM platform. Please try again.")
)
