package subscription

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription: not found")
	ErrInvalidTransition    = errors.New("subscription: invalid status transition")
	ErrInvalidDuration      = errors.New("subscription: duration must be positive")
	ErrInvalidPlan          = errors.New("subscription: invalid plan")
	ErrInvalidCancelPolicy  = errors.New("subscription: invalid cancel policy")
	ErrStoreUnavailable     = errors.New("subscription: store unavailable")

	ErrMissingSessionID = errors.New("subscription: session id is required")
	ErrSessionCache     = errors.New("subscription: session cache failure")
)
