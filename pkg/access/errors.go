package access

import "errors"

var (
	// ErrMembershipNotFound is returned by a MembershipResolver when the user
	// has no role in the organization or the organization is inactive.
	ErrMembershipNotFound = errors.New("access: membership not found")
	ErrMembershipLookup   = errors.New("access: membership lookup failed")
	ErrSubscriptionLookup = errors.New("access: subscription lookup failed")
	ErrUsageLookup        = errors.New("access: usage lookup failed")
	ErrInvalidRequest     = errors.New("access: invalid request")
	ErrInvalidLocale      = errors.New("access: invalid locale")
)
