package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/statemachine"
)

// Manager owns the subscription lifecycle. Reads evaluate expiry lazily and
// never write; mutations replace or update the single record per pair.
// Concurrent mutations on the same pair are last-writer-wins.
type Manager struct {
	store         Store
	sessions      SessionCache
	catalog       *plans.Catalog
	logger        *slog.Logger
	now           func() time.Time
	trialDuration time.Duration
	trialTier     plans.Tier
	cancelPolicy  CancelPolicy
}

// NewManager creates a Manager backed by store.
// Panics if store is nil.
func NewManager(store Store, opts ...Option) *Manager {
	if store == nil {
		panic("subscription: store is required")
	}

	m := &Manager{
		store:         store,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
		trialDuration: DefaultTrialDuration,
		trialTier:     plans.TierPro,
		cancelPolicy:  CancelAtPeriodEnd,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sessions == nil {
		m.sessions = NewLRUSessionCache(DefaultSessionCapacity, DefaultSessionTTL)
	}
	m.logger = m.logger.With(logger.Component("subscription"))
	return m
}

// TrialDuration returns the configured trial length.
func (m *Manager) TrialDuration() time.Duration {
	return m.trialDuration
}

// CancelPolicy returns the configured cancel policy.
func (m *Manager) CancelPolicy() CancelPolicy {
	return m.cancelPolicy
}

// CheckAccess reports whether the organization is entitled to app right now.
// Business denials are reported in the result; the error is set only when
// the store could not be read.
func (m *Manager) CheckAccess(ctx context.Context, orgID uuid.UUID, app plans.Application) (AccessResult, error) {
	return m.CheckAccessAt(ctx, orgID, app, m.now())
}

// CheckAccessAt is CheckAccess evaluated at a given instant.
func (m *Manager) CheckAccessAt(ctx context.Context, orgID uuid.UUID, app plans.Application, now time.Time) (AccessResult, error) {
	if !app.Valid() {
		return AccessResult{Reason: ReasonUnknownApplication}, nil
	}

	sub, err := m.store.Get(ctx, orgID, app)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return Evaluate(nil, now, m.cancelPolicy), nil
	}
	if err != nil {
		return AccessResult{}, errors.Join(ErrStoreUnavailable, err)
	}
	return Evaluate(sub, now, m.cancelPolicy), nil
}

// Get returns the stored record for the pair.
func (m *Manager) Get(ctx context.Context, orgID uuid.UUID, app plans.Application) (*AppSubscription, error) {
	if !app.Valid() {
		return nil, plans.ErrUnknownApplication
	}
	sub, err := m.store.Get(ctx, orgID, app)
	if err != nil {
		return nil, m.storeErr(err)
	}
	return sub, nil
}

// ListForOrganization returns every record of the organization.
func (m *Manager) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]AppSubscription, error) {
	subs, err := m.store.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return subs, nil
}

// StartTrial replaces any record for the pair with a fresh trial.
// An empty tier selects the configured trial tier.
func (m *Manager) StartTrial(ctx context.Context, orgID uuid.UUID, app plans.Application, tier plans.Tier) (*AppSubscription, error) {
	if tier == "" {
		tier = m.trialTier
	}
	if err := m.validatePlan(app, tier); err != nil {
		return nil, err
	}

	now := m.now()
	sub := &AppSubscription{
		OrganizationID: orgID,
		Application:    app,
		Tier:           tier,
		Status:         StatusTrial,
		StartedAt:      now,
		TrialEndsAt:    timePtr(now.Add(m.trialDuration)),
		UpdatedAt:      now,
	}
	if err := m.save(ctx, sub); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "trial started",
		logger.OrganizationID(orgID),
		logger.Application(string(app)),
		slog.String("tier", string(tier)),
		slog.Time("trial_ends_at", *sub.TrialEndsAt),
	)
	return sub, nil
}

// Activate replaces any record for the pair with a paid subscription running
// for durationMonths billing months from now.
func (m *Manager) Activate(ctx context.Context, orgID uuid.UUID, app plans.Application, tier plans.Tier, durationMonths int) (*AppSubscription, error) {
	if durationMonths <= 0 {
		return nil, ErrInvalidDuration
	}
	if err := m.validatePlan(app, tier); err != nil {
		return nil, err
	}

	now := m.now()
	sub := &AppSubscription{
		OrganizationID: orgID,
		Application:    app,
		Tier:           tier,
		Status:         StatusActive,
		StartedAt:      now,
		EndsAt:         timePtr(now.Add(time.Duration(durationMonths) * BillingMonth)),
		UpdatedAt:      now,
	}
	if err := m.save(ctx, sub); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "subscription activated",
		logger.OrganizationID(orgID),
		logger.Application(string(app)),
		slog.String("tier", string(tier)),
		slog.Int("duration_months", durationMonths),
	)
	return sub, nil
}

// Cancel flags the subscription as cancelled. EndsAt is always set afterwards;
// a past-due subscription loses access immediately.
func (m *Manager) Cancel(ctx context.Context, orgID uuid.UUID, app plans.Application) (*AppSubscription, error) {
	return m.fire(ctx, orgID, app, EventCancel)
}

// MarkPastDue records a failed renewal payment.
func (m *Manager) MarkPastDue(ctx context.Context, orgID uuid.UUID, app plans.Application) (*AppSubscription, error) {
	return m.fire(ctx, orgID, app, EventMarkPastDue)
}

// ResolvePastDue records a recovered payment.
func (m *Manager) ResolvePastDue(ctx context.Context, orgID uuid.UUID, app plans.Application) (*AppSubscription, error) {
	return m.fire(ctx, orgID, app, EventResolvePastDue)
}

// Reconcile writes the expired status for every record whose effective status
// at now is expired but whose stored status is not. Access checks never
// depend on it having run. A record changed since it was listed is left for
// the next pass. Returns the number of records updated.
func (m *Manager) Reconcile(ctx context.Context, now time.Time) (int, error) {
	subs, err := m.store.List(ctx)
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}

	updated := 0
	for i := range subs {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		sub := &subs[i]
		if sub.Status == StatusExpired {
			continue
		}

		err := lifecycle.New(sub.Status).Fire(ctx, EventExpire, &change{sub: sub, now: now})
		switch {
		case errors.Is(err, statemachine.ErrTransitionRejected):
			continue
		case err != nil:
			m.logger.WarnContext(ctx, "skipping record in unexpected state",
				logger.OrganizationID(sub.OrganizationID),
				logger.Application(string(sub.Application)),
				logger.Status(string(sub.Status)),
				logger.Error(err),
			)
			continue
		}

		ok, err := m.store.MarkExpired(ctx, sub.OrganizationID, sub.Application, sub.UpdatedAt, now)
		if err != nil {
			return updated, errors.Join(ErrStoreUnavailable,
				fmt.Errorf("expire %s/%s: %w", sub.OrganizationID, sub.Application, err))
		}
		if !ok {
			m.logger.DebugContext(ctx, "record changed since listing",
				logger.OrganizationID(sub.OrganizationID),
				logger.Application(string(sub.Application)),
			)
			continue
		}
		updated++
	}

	m.logger.InfoContext(ctx, "reconciliation finished",
		slog.Int("scanned", len(subs)),
		slog.Int("expired", updated),
	)
	return updated, nil
}

// fire applies an in-place transition. The machine starts at the effective
// status, so a lapsed record cannot be cancelled or recovered.
func (m *Manager) fire(ctx context.Context, orgID uuid.UUID, app plans.Application, event Event) (*AppSubscription, error) {
	if !app.Valid() {
		return nil, plans.ErrUnknownApplication
	}
	sub, err := m.store.Get(ctx, orgID, app)
	if err != nil {
		return nil, m.storeErr(err)
	}

	now := m.now()
	prev := sub.Status
	machine := lifecycle.New(sub.EffectiveStatus(now))
	if err := machine.Fire(ctx, event, &change{sub: sub, now: now}); err != nil {
		return nil, errors.Join(ErrInvalidTransition, err)
	}
	sub.Status = machine.Current()
	sub.UpdatedAt = now

	if err := m.save(ctx, sub); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "subscription status changed",
		logger.OrganizationID(orgID),
		logger.Application(string(app)),
		logger.Event(string(event)),
		slog.String("from", string(prev)),
		slog.String("to", string(sub.Status)),
	)
	return sub, nil
}

func (m *Manager) validatePlan(app plans.Application, tier plans.Tier) error {
	if !app.Valid() {
		return errors.Join(ErrInvalidPlan, plans.ErrUnknownApplication)
	}
	if !tier.Valid() {
		return errors.Join(ErrInvalidPlan, plans.ErrUnknownTier)
	}
	if m.catalog != nil {
		if _, err := m.catalog.Lookup(app, tier); err != nil {
			return errors.Join(ErrInvalidPlan, err)
		}
	}
	return nil
}

func (m *Manager) save(ctx context.Context, sub *AppSubscription) error {
	if err := m.store.Save(ctx, sub); err != nil {
		return errors.Join(ErrStoreUnavailable,
			fmt.Errorf("save %s/%s: %w", sub.OrganizationID, sub.Application, err))
	}
	return nil
}

func (m *Manager) storeErr(err error) error {
	if errors.Is(err, ErrSubscriptionNotFound) {
		return err
	}
	return errors.Join(ErrStoreUnavailable, err)
}
