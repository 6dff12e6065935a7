package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors. Everything here wraps [ErrValidation] so callers
	// can tell bad input apart from storage failures with a single errors.Is.
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidMode     = fmt.Errorf("%w: invalid mode", ErrValidation)
	ErrInvalidVideoID  = fmt.Errorf("%w: invalid video URL or ID", ErrValidation)
	ErrInvalidInput    = fmt.Errorf("%w: invalid input", ErrValidation)
	ErrMissingArgument = fmt.Errorf("%w: missing required argument", ErrValidation)
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrValidation)

	// Storage errors
	ErrConstraint = fmt.Errorf("constraint violation")
	ErrStorage    = fmt.Errorf("storage failure")

	// Playback errors
	ErrNoCandidates = fmt.Errorf("no videos registered for this mode")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
)
