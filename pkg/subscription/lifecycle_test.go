package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	now := t0.Add(10 * day)

	tests := []struct {
		name    string
		sub     *subscription.AppSubscription
		policy  subscription.CancelPolicy
		granted bool
		status  subscription.Status
		reason  subscription.Reason
	}{
		{
			name:   "no record",
			sub:    nil,
			reason: subscription.ReasonNoSubscription,
		},
		{
			name:    "running trial",
			sub:     &subscription.AppSubscription{Status: subscription.StatusTrial, StartedAt: t0, TrialEndsAt: ptr(t0.Add(30 * day))},
			granted: true,
			status:  subscription.StatusTrial,
		},
		{
			name:   "lapsed trial reads as expired",
			sub:    &subscription.AppSubscription{Status: subscription.StatusTrial, StartedAt: t0, TrialEndsAt: ptr(now.Add(-time.Second))},
			status: subscription.StatusExpired,
			reason: subscription.ReasonExpired,
		},
		{
			name:    "trial ending exactly now is still running",
			sub:     &subscription.AppSubscription{Status: subscription.StatusTrial, StartedAt: t0, TrialEndsAt: ptr(now)},
			granted: true,
			status:  subscription.StatusTrial,
		},
		{
			name:    "active",
			sub:     &subscription.AppSubscription{Status: subscription.StatusActive, StartedAt: t0, EndsAt: ptr(t0.Add(360 * day))},
			granted: true,
			status:  subscription.StatusActive,
		},
		{
			name:   "active past end date",
			sub:    &subscription.AppSubscription{Status: subscription.StatusActive, StartedAt: t0, EndsAt: ptr(now.Add(-day))},
			status: subscription.StatusExpired,
			reason: subscription.ReasonExpired,
		},
		{
			name:   "stored expired",
			sub:    &subscription.AppSubscription{Status: subscription.StatusExpired, StartedAt: t0},
			status: subscription.StatusExpired,
			reason: subscription.ReasonExpired,
		},
		{
			name:    "cancelled within paid period",
			sub:     &subscription.AppSubscription{Status: subscription.StatusCancelled, StartedAt: t0, EndsAt: ptr(now.Add(day))},
			policy:  subscription.CancelAtPeriodEnd,
			granted: true,
			status:  subscription.StatusCancelled,
		},
		{
			name:   "cancelled with immediate policy",
			sub:    &subscription.AppSubscription{Status: subscription.StatusCancelled, StartedAt: t0, EndsAt: ptr(now.Add(day))},
			policy: subscription.CancelImmediately,
			status: subscription.StatusCancelled,
			reason: subscription.ReasonCancelled,
		},
		{
			name:   "cancelled at its end date",
			sub:    &subscription.AppSubscription{Status: subscription.StatusCancelled, StartedAt: t0, EndsAt: ptr(now)},
			policy: subscription.CancelAtPeriodEnd,
			status: subscription.StatusCancelled,
			reason: subscription.ReasonCancelled,
		},
		{
			name:   "cancelled without end date",
			sub:    &subscription.AppSubscription{Status: subscription.StatusCancelled, StartedAt: t0},
			policy: subscription.CancelAtPeriodEnd,
			status: subscription.StatusCancelled,
			reason: subscription.ReasonCancelled,
		},
		{
			name:   "cancelled after end date",
			sub:    &subscription.AppSubscription{Status: subscription.StatusCancelled, StartedAt: t0, EndsAt: ptr(now.Add(-day))},
			status: subscription.StatusExpired,
			reason: subscription.ReasonExpired,
		},
		{
			name:   "past due",
			sub:    &subscription.AppSubscription{Status: subscription.StatusPastDue, StartedAt: t0, EndsAt: ptr(now.Add(day))},
			status: subscription.StatusPastDue,
			reason: subscription.ReasonPastDue,
		},
		{
			name:   "unknown status fails closed",
			sub:    &subscription.AppSubscription{Status: "frozen", StartedAt: t0},
			status: "frozen",
			reason: subscription.ReasonInvalidState,
		},
		{
			name:   "record not started yet",
			sub:    &subscription.AppSubscription{Status: subscription.StatusActive, StartedAt: now.Add(time.Hour), EndsAt: ptr(now.Add(30 * day))},
			reason: subscription.ReasonNoSubscription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			policy := tt.policy
			if policy == "" {
				policy = subscription.CancelAtPeriodEnd
			}
			res := subscription.Evaluate(tt.sub, now, policy)
			assert.Equal(t, tt.granted, res.Granted)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestEvaluate_DoesNotMutate(t *testing.T) {
	t.Parallel()

	sub := &subscription.AppSubscription{Status: subscription.StatusTrial, StartedAt: t0, TrialEndsAt: ptr(t0.Add(day))}
	res := subscription.Evaluate(sub, t0.Add(2*day), subscription.CancelAtPeriodEnd)

	assert.Equal(t, subscription.StatusExpired, res.Status)
	assert.Equal(t, subscription.StatusTrial, sub.Status)
}

func TestTransition(t *testing.T) {
	t.Parallel()

	next, err := subscription.Transition(subscription.StatusActive, subscription.EventMarkPastDue)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusPastDue, next)

	next, err = subscription.Transition(subscription.StatusPastDue, subscription.EventResolvePastDue)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, next)

	for _, ev := range []subscription.Event{
		subscription.EventCancel, subscription.EventMarkPastDue,
		subscription.EventResolvePastDue, subscription.EventExpire,
	} {
		_, err := subscription.Transition(subscription.StatusExpired, ev)
		assert.ErrorIs(t, err, subscription.ErrInvalidTransition, "expired is terminal")
	}

	assert.False(t, subscription.CanTransition(subscription.StatusTrial, subscription.EventMarkPastDue))
	assert.True(t, subscription.CanTransition(subscription.StatusCancelled, subscription.EventExpire))
}

func TestTrialDaysRemaining(t *testing.T) {
	t.Parallel()

	sub := &subscription.AppSubscription{Status: subscription.StatusTrial, StartedAt: t0, TrialEndsAt: ptr(t0.Add(30 * day))}
	assert.Equal(t, 30, sub.TrialDaysRemaining(t0))
	assert.Equal(t, 1, sub.TrialDaysRemaining(t0.Add(29*day+time.Hour)))
	assert.Equal(t, 0, sub.TrialDaysRemaining(t0.Add(31*day)))

	active := &subscription.AppSubscription{Status: subscription.StatusActive, StartedAt: t0}
	assert.Equal(t, 0, active.TrialDaysRemaining(t0))
}

func TestParseCancelPolicy(t *testing.T) {
	t.Parallel()

	p, err := subscription.ParseCancelPolicy("")
	require.NoError(t, err)
	assert.Equal(t, subscription.CancelAtPeriodEnd, p)

	p, err = subscription.ParseCancelPolicy("immediate")
	require.NoError(t, err)
	assert.Equal(t, subscription.CancelImmediately, p)

	_, err = subscription.ParseCancelPolicy("never")
	assert.ErrorIs(t, err, subscription.ErrInvalidCancelPolicy)
}
