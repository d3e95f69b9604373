// Package subscription manages the per-organization, per-application
// subscription lifecycle.
//
// A record moves through trial, active, past_due, cancelled and expired.
// Time-based expiry is never written by reads: Evaluate derives the effective
// status from the stored timestamps at the instant of the check, so a trial
// whose end date has passed reads as expired while the stored row still says
// trial. Reconcile is an explicit pass that persists those expiries.
//
// Basic usage:
//
//	m := subscription.NewManager(store,
//		subscription.WithTrialDuration(30*24*time.Hour),
//		subscription.WithCancelPolicy(subscription.CancelAtPeriodEnd),
//	)
//
//	sub, err := m.StartTrial(ctx, orgID, plans.ApplicationPPEAdmin, "")
//
//	res, err := m.CheckAccess(ctx, orgID, plans.ApplicationPPEAdmin)
//	if err != nil {
//		// store unavailable, retry
//	}
//	if !res.Granted {
//		// res.Reason is NO_SUBSCRIPTION, CANCELLED, EXPIRED or PAST_DUE
//	}
//
// # Cancellation
//
// Cancel always leaves an end date on the record. With CancelAtPeriodEnd the
// organization keeps access until that date; with CancelImmediately access ends
// at once. Cancelling a past-due subscription ends it at once under either policy.
//
// # Sessions
//
// OpenSession, SessionSubscriptions and CloseSession keep a display copy of an
// organization's subscriptions per signed-in session in a SessionCache.
// CheckAccess always reads the Store.
package subscription
