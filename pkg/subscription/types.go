package subscription

// Status is the lifecycle state of an application subscription.
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusPastDue, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Reason explains why access was refused. It is empty when access is granted.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNoSubscription     Reason = "NO_SUBSCRIPTION"
	ReasonCancelled          Reason = "CANCELLED"
	ReasonExpired            Reason = "EXPIRED"
	ReasonPastDue            Reason = "PAST_DUE"
	ReasonUnknownApplication Reason = "UNKNOWN_APPLICATION"
	ReasonInvalidState       Reason = "INVALID_STATE"
)

// CancelPolicy decides whether a cancelled subscription keeps access until its end date.
type CancelPolicy string

const (
	// CancelAtPeriodEnd keeps access until EndsAt.
	CancelAtPeriodEnd CancelPolicy = "period_end"
	// CancelImmediately revokes access as soon as the record is cancelled.
	CancelImmediately CancelPolicy = "immediate"
)

// ParseCancelPolicy converts a configuration value into a CancelPolicy.
func ParseCancelPolicy(s string) (CancelPolicy, error) {
	switch p := CancelPolicy(s); p {
	case CancelAtPeriodEnd, CancelImmediately:
		return p, nil
	case "":
		return CancelAtPeriodEnd, nil
	}
	return "", ErrInvalidCancelPolicy
}

// Event triggers an in-place status change.
type Event string

const (
	EventCancel         Event = "cancel"
	EventMarkPastDue    Event = "mark_past_due"
	EventResolvePastDue Event = "resolve_past_due"
	EventExpire         Event = "expire"
)
