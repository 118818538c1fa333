package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session errors
	ErrNoUsername     = fmt.Errorf("no username set")
	ErrSessionExpired = fmt.Errorf("session expired")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSongNotFound       = fmt.Errorf("song not found")
	ErrGigNotActive       = fmt.Errorf("no active gig")

	// Payment errors
	ErrPaymentUnavailable = fmt.Errorf("payment provider not configured")
	ErrProviderTimeout    = fmt.Errorf("payment provider load timed out")
	ErrMissingTipIntent   = fmt.Errorf("missing tip intent")
	ErrTipConsumed        = fmt.Errorf("tip intent already captured")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
