package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/tenantgate/pkg/statemachine"
)

// change is the data a lifecycle transition acts on.
type change struct {
	sub *AppSubscription
	now time.Time
}

type edge = statemachine.TransitionOption[Status, Event, *change]

// lapsed admits the expire edge only once the record's timestamps say so.
var lapsed statemachine.Guard[Status, Event, *change] = func(_ context.Context, _ Status, _ Event, c *change) bool {
	return c.sub.EffectiveStatus(c.now) == StatusExpired
}

// markCancelled stamps the cancellation. EndsAt is always set afterwards:
// a past-due record loses access now, an existing end date is kept, a trial
// ends at its trial end, anything else ends now.
var markCancelled statemachine.Action[Status, Event, *change] = func(_ context.Context, from, _ Status, _ Event, c *change) error {
	sub := c.sub
	sub.CancelledAt = timePtr(c.now)
	switch {
	case from == StatusPastDue:
		sub.EndsAt = timePtr(c.now)
	case sub.EndsAt != nil:
		// kept
	case from == StatusTrial && sub.TrialEndsAt != nil:
		sub.EndsAt = cloneTime(sub.TrialEndsAt)
	default:
		sub.EndsAt = timePtr(c.now)
	}
	return nil
}

func on(from, to Status, event Event, opts ...edge) statemachine.Option[Status, Event, *change] {
	return statemachine.WithTransition(from, to, event, opts...)
}

// lifecycle lists the in-place status changes. Starting a trial or
// activating a plan replaces the record and is not part of this table.
var lifecycle = statemachine.MustDefine(
	on(StatusTrial, StatusCancelled, EventCancel, statemachine.WithAction(markCancelled)),
	on(StatusTrial, StatusExpired, EventExpire, statemachine.WithGuard(lapsed)),

	on(StatusActive, StatusCancelled, EventCancel, statemachine.WithAction(markCancelled)),
	on(StatusActive, StatusPastDue, EventMarkPastDue),
	on(StatusActive, StatusExpired, EventExpire, statemachine.WithGuard(lapsed)),

	on(StatusPastDue, StatusCancelled, EventCancel, statemachine.WithAction(markCancelled)),
	on(StatusPastDue, StatusActive, EventResolvePastDue),
	on(StatusPastDue, StatusExpired, EventExpire, statemachine.WithGuard(lapsed)),

	on(StatusCancelled, StatusExpired, EventExpire, statemachine.WithGuard(lapsed)),
)

// Transition returns the status reached by firing event from. Guards are not
// evaluated.
func Transition(from Status, event Event) (Status, error) {
	if to, ok := lifecycle.Target(from, event); ok {
		return to, nil
	}
	return "", errors.Join(ErrInvalidTransition, fmt.Errorf("%s on %s", event, from))
}

// CanTransition reports whether event may fire from the given status.
func CanTransition(from Status, event Event) bool {
	_, ok := lifecycle.Target(from, event)
	return ok
}

// AccessResult is the outcome of an entitlement check.
type AccessResult struct {
	Granted      bool             `json:"granted"`
	Status       Status           `json:"status,omitempty"`
	Reason       Reason           `json:"reason,omitempty"`
	Subscription *AppSubscription `json:"subscription,omitempty"`
}

// Evaluate decides access for sub at now. It is pure: the stored status is
// never rewritten, expiry is derived from timestamps on every call.
// A nil record, or a record that had not started yet at now, grants nothing.
func Evaluate(sub *AppSubscription, now time.Time, policy CancelPolicy) AccessResult {
	if sub == nil || now.Before(sub.StartedAt) {
		return AccessResult{Reason: ReasonNoSubscription}
	}

	status := sub.EffectiveStatus(now)
	res := AccessResult{Status: status, Subscription: sub}

	switch status {
	case StatusTrial, StatusActive:
		res.Granted = true
	case StatusCancelled:
		if policy != CancelImmediately && sub.EndsAt != nil && now.Before(*sub.EndsAt) {
			res.Granted = true
		} else {
			res.Reason = ReasonCancelled
		}
	case StatusExpired:
		res.Reason = ReasonExpired
	case StatusPastDue:
		res.Reason = ReasonPastDue
	default:
		res.Reason = ReasonInvalidState
	}
	return res
}
